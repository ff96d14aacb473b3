package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ledgerpay/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RabbitMQPublisher publishes persistent JSON messages to a topic exchange.
// amqp channels are not safe for concurrent publishing, so calls are
// serialised.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      zerolog.Logger
}

// DialRabbitMQ connects to the broker and declares the durable topic exchange.
func DialRabbitMQ(cfg config.RabbitMQConfig, log zerolog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": "ledgerpay_publisher"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		log:      log.With().Str("component", "rabbitmq_publisher").Logger(),
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.Debug().Str("routing_key", routingKey).Msg("event published")
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil && !p.conn.IsClosed() {
		p.log.Warn().Err(err).Msg("failed to close channel")
	}
	return p.conn.Close()
}
