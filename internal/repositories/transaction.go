package repositories

import (
	"context"
	"time"

	"ledgerpay/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a history query. Nil fields are ignored.
type TransactionFilter struct {
	WalletID  *uint
	From      *time.Time
	To        *time.Time
	Type      *domain.TransactionType
	Status    *domain.TransactionStatus
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Limit     int
	Offset    int
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Normalize clamps paging to sane bounds.
func (f TransactionFilter) Normalize() TransactionFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultHistoryLimit
	}
	if f.Limit > MaxHistoryLimit {
		f.Limit = MaxHistoryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Matches applies the filter to one transaction. Stores that cannot push the
// filter down use it directly.
func (f TransactionFilter) Matches(t *domain.Transaction) bool {
	if f.WalletID != nil {
		from, to := t.FromWalletID(), t.ToWalletID()
		if (from == nil || *from != *f.WalletID) && (to == nil || *to != *f.WalletID) {
			return false
		}
	}
	if f.From != nil && t.CreatedAt().Before(*f.From) {
		return false
	}
	if f.To != nil && t.CreatedAt().After(*f.To) {
		return false
	}
	if f.Type != nil && t.Type() != *f.Type {
		return false
	}
	if f.Status != nil && t.Status() != *f.Status {
		return false
	}
	if f.MinAmount != nil && t.Amount().Amount().LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount().Amount().GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// TransactionRepository persists the append-only transaction records.
type TransactionRepository interface {
	// Create inserts a pending transaction. A duplicate reference number
	// yields ErrReferenceCollision.
	Create(ctx context.Context, tx *domain.Transaction) error

	// Update persists a status transition. Only pending rows may change, so a
	// row already resolved by another caller yields ErrConcurrencyConflict.
	Update(ctx context.Context, tx *domain.Transaction) error

	GetByID(ctx context.Context, id uint) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// History returns matching transactions newest first, ties broken by id,
	// together with the total number of matches.
	History(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, int64, error)
}
