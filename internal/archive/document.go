// Package archive copies published ledger events into MongoDB so the audit
// trail outlives the operational database.
package archive

import "time"

const (
	KindAudit       = "audit"
	KindTransaction = "transaction"
)

// Document is one archived event. The event id is the document id, so a
// redelivered message is stored once.
type Document struct {
	ID              string    `bson:"_id"`
	Kind            string    `bson:"kind"`
	RoutingKey      string    `bson:"routing_key"`
	EntityName      string    `bson:"entity_name,omitempty"`
	EntityID        uint      `bson:"entity_id"`
	Action          string    `bson:"action,omitempty"`
	Changes         string    `bson:"changes,omitempty"`
	UserID          *uint     `bson:"user_id,omitempty"`
	UserEmail       string    `bson:"user_email,omitempty"`
	IPAddress       string    `bson:"ip_address,omitempty"`
	ReferenceNumber string    `bson:"reference_number,omitempty"`
	Type            string    `bson:"type,omitempty"`
	Status          string    `bson:"status,omitempty"`
	FromWalletID    *uint     `bson:"from_wallet_id,omitempty"`
	ToWalletID      *uint     `bson:"to_wallet_id,omitempty"`
	Amount          string    `bson:"amount,omitempty"`
	Currency        string    `bson:"currency,omitempty"`
	FailureReason   string    `bson:"failure_reason,omitempty"`
	OccurredAt      time.Time `bson:"occurred_at"`
	ArchivedAt      time.Time `bson:"archived_at"`
}
