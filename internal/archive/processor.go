package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ledgerpay/internal/events"

	"github.com/rs/zerolog"
)

// Store persists archive documents.
type Store interface {
	Save(ctx context.Context, doc Document) error
}

// Processor turns broker messages into archive documents.
type Processor struct {
	store   Store
	timeout time.Duration
	log     zerolog.Logger
}

func NewProcessor(store Store, timeout time.Duration, log zerolog.Logger) *Processor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Processor{
		store:   store,
		timeout: timeout,
		log:     log.With().Str("component", "archive").Logger(),
	}
}

// Handle decodes body by the family of routingKey and saves it. Messages
// that cannot be decoded wrap events.ErrUnprocessable.
func (p *Processor) Handle(ctx context.Context, routingKey string, body []byte) error {
	doc, err := decode(routingKey, body)
	if err != nil {
		return err
	}

	saveCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.store.Save(saveCtx, doc); err != nil {
		return err
	}

	p.log.Debug().
		Str("event_id", doc.ID).
		Str("routing_key", routingKey).
		Msg("event archived")
	return nil
}

func decode(routingKey string, body []byte) (Document, error) {
	family, _, _ := strings.Cut(routingKey, ".")
	switch family {
	case KindAudit:
		var ev events.AuditEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return Document{}, fmt.Errorf("%w: %v", events.ErrUnprocessable, err)
		}
		return checkID(Document{
			ID:         ev.EventID,
			Kind:       KindAudit,
			RoutingKey: routingKey,
			EntityName: ev.EntityName,
			EntityID:   ev.EntityID,
			Action:     ev.Action,
			Changes:    ev.Changes,
			UserID:     ev.UserID,
			UserEmail:  ev.UserEmail,
			IPAddress:  ev.IPAddress,
			OccurredAt: ev.CreatedAt,
		})
	case KindTransaction:
		var ev events.TransactionEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return Document{}, fmt.Errorf("%w: %v", events.ErrUnprocessable, err)
		}
		return checkID(Document{
			ID:              ev.EventID,
			Kind:            KindTransaction,
			RoutingKey:      routingKey,
			EntityName:      "Transaction",
			EntityID:        ev.TransactionID,
			ReferenceNumber: ev.ReferenceNumber,
			Type:            ev.Type,
			Status:          ev.Status,
			FromWalletID:    ev.FromWalletID,
			ToWalletID:      ev.ToWalletID,
			Amount:          ev.Amount,
			Currency:        ev.Currency,
			FailureReason:   ev.FailureReason,
			OccurredAt:      ev.OccurredAt,
		})
	default:
		return Document{}, fmt.Errorf("%w: unknown routing key %q", events.ErrUnprocessable, routingKey)
	}
}

func checkID(doc Document) (Document, error) {
	if doc.ID == "" {
		return Document{}, fmt.Errorf("%w: missing event_id", events.ErrUnprocessable)
	}
	return doc, nil
}
