// Package transaction serves read access to the transaction ledger.
package transaction

import (
	"context"

	"ledgerpay/internal/domain"
)

// Service defines the read side of transactions
type Service interface {
	// History returns the wallet's transactions newest first. Repeated calls
	// with the same query return the same order.
	History(ctx context.Context, q HistoryQuery) (*HistoryPage, error)
	GetByID(ctx context.Context, id uint) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// Audit returns the audit trail recorded for one transaction.
	Audit(ctx context.Context, id uint) ([]*domain.AuditLog, error)
}
