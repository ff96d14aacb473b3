package events

import (
	"context"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type ackRecorder struct {
	acked    []uint64
	nacked   []uint64
	requeued []bool
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeued = append(a.requeued, requeue)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestDispatch_SettlesByHandlerOutcome(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantAck     bool
		wantRequeue bool
	}{
		{name: "success acks"},
		{name: "unprocessable is dropped", handlerErr: fmt.Errorf("bad json: %w", ErrUnprocessable)},
		{name: "transient failure requeues", handlerErr: errors.New("mongo down"), wantRequeue: true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.wantAck = tt.handlerErr == nil
			rec := &ackRecorder{}
			tag := uint64(i + 1)
			d := amqp.Delivery{Acknowledger: rec, DeliveryTag: tag, RoutingKey: RoutingAuditRecorded, Body: []byte(`{}`)}

			var gotKey string
			dispatch(context.Background(), zerolog.Nop(), d, func(_ context.Context, key string, _ []byte) error {
				gotKey = key
				return tt.handlerErr
			})

			assert.Equal(t, RoutingAuditRecorded, gotKey)
			if tt.wantAck {
				assert.Equal(t, []uint64{tag}, rec.acked)
				assert.Empty(t, rec.nacked)
				return
			}
			assert.Empty(t, rec.acked)
			assert.Equal(t, []uint64{tag}, rec.nacked)
			assert.Equal(t, []bool{tt.wantRequeue}, rec.requeued)
		})
	}
}
