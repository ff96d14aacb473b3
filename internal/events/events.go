// Package events publishes ledger events to the message broker once the unit
// of work that produced them has committed.
package events

import (
	"time"

	"ledgerpay/internal/domain"

	"github.com/oklog/ulid/v2"
)

const (
	RoutingTransactionCreated   = "transaction.created"
	RoutingTransactionCompleted = "transaction.completed"
	RoutingTransactionFailed    = "transaction.failed"
	RoutingTransactionCancelled = "transaction.cancelled"
	RoutingAuditRecorded        = "audit.recorded"
)

// TransactionEvent describes a transaction as it was committed.
type TransactionEvent struct {
	EventID         string    `json:"event_id"`
	TransactionID   uint      `json:"transaction_id"`
	ReferenceNumber string    `json:"reference_number"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	FromWalletID    *uint     `json:"from_wallet_id,omitempty"`
	ToWalletID      *uint     `json:"to_wallet_id,omitempty"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// AuditEvent mirrors one stored audit record.
type AuditEvent struct {
	EventID    string    `json:"event_id"`
	EntityName string    `json:"entity_name"`
	EntityID   uint      `json:"entity_id"`
	Action     string    `json:"action"`
	Changes    string    `json:"changes,omitempty"`
	UserID     *uint     `json:"user_id,omitempty"`
	UserEmail  string    `json:"user_email,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewTransactionEvent(tx *domain.Transaction) TransactionEvent {
	return TransactionEvent{
		EventID:         ulid.Make().String(),
		TransactionID:   tx.ID(),
		ReferenceNumber: tx.ReferenceNumber(),
		Type:            string(tx.Type()),
		Status:          string(tx.Status()),
		FromWalletID:    tx.FromWalletID(),
		ToWalletID:      tx.ToWalletID(),
		Amount:          tx.Amount().Amount().StringFixed(domain.MoneyScale),
		Currency:        tx.Amount().Currency().String(),
		FailureReason:   tx.FailureReason(),
		OccurredAt:      time.Now().UTC(),
	}
}

// RoutingKey maps the transaction status onto its topic.
func (e TransactionEvent) RoutingKey() string {
	switch domain.TransactionStatus(e.Status) {
	case domain.TransactionStatusCompleted:
		return RoutingTransactionCompleted
	case domain.TransactionStatusFailed:
		return RoutingTransactionFailed
	case domain.TransactionStatusCancelled:
		return RoutingTransactionCancelled
	default:
		return RoutingTransactionCreated
	}
}

func NewAuditEvent(log *domain.AuditLog) AuditEvent {
	s := log.State()
	return AuditEvent{
		EventID:    ulid.Make().String(),
		EntityName: s.EntityName,
		EntityID:   s.EntityID,
		Action:     string(s.Action),
		Changes:    s.Changes,
		UserID:     s.UserID,
		UserEmail:  s.UserEmail,
		IPAddress:  s.IPAddress,
		CreatedAt:  s.CreatedAt,
	}
}
