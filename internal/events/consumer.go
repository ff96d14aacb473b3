package events

import (
	"context"
	"errors"
	"fmt"

	"ledgerpay/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ErrUnprocessable marks a message that can never be handled. Such messages
// are dropped instead of requeued.
var ErrUnprocessable = errors.New("unprocessable message")

// Handler processes one message body published under routingKey.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consumer reads a durable queue bound to the event exchange and acks each
// message manually once its handler succeeded.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     zerolog.Logger
}

// DialConsumer connects, declares the exchange and the queue and binds the
// queue to every routing pattern in bindings.
func DialConsumer(cfg config.RabbitMQConfig, bindings []string, log zerolog.Logger) (*Consumer, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": "ledgerpay_worker"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// One unacked message at a time.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	for _, key := range bindings {
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to bind %s to %s: %w", q.Name, key, err)
		}
	}

	return &Consumer{
		conn:    conn,
		channel: ch,
		queue:   q.Name,
		log:     log.With().Str("component", "rabbitmq_consumer").Str("queue", q.Name).Logger(),
	}, nil
}

// Run delivers messages to handle until ctx is done. It returns an error when
// the broker closes the channel.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	msgs, err := c.channel.Consume(c.queue, "ledgerpay_worker", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	closed := c.channel.NotifyClose(make(chan *amqp.Error, 1))

	c.log.Info().Msg("waiting for messages")
	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			if amqpErr != nil {
				return fmt.Errorf("channel closed: %w", amqpErr)
			}
			return errors.New("channel closed")
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			dispatch(ctx, c.log, d, handle)
		}
	}
}

// dispatch runs handle and settles d: ack on success, drop unprocessable
// messages and requeue everything else.
func dispatch(ctx context.Context, log zerolog.Logger, d amqp.Delivery, handle Handler) {
	err := handle(ctx, d.RoutingKey, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Warn().Err(ackErr).Msg("failed to ack message")
		}
	case errors.Is(err, ErrUnprocessable):
		log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("dropping message")
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Warn().Err(nackErr).Msg("failed to nack message")
		}
	default:
		log.Warn().Err(err).Str("routing_key", d.RoutingKey).Msg("requeueing message")
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Warn().Err(nackErr).Msg("failed to nack message")
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil && !c.conn.IsClosed() {
		c.log.Warn().Err(err).Msg("failed to close channel")
	}
	return c.conn.Close()
}
