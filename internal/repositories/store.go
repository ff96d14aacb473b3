// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"
)

// Store groups the repositories bound to one database handle.
type Store interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Users() UserRepository
	AuditLogs() AuditLogRepository
}

// UnitOfWork runs fn inside one atomic scope. Every write fn performs through
// tx is committed together with the audit records describing it, or rolled
// back entirely when fn returns an error or ctx is done before commit.
type UnitOfWork interface {
	Store
	ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Commit describes one committed scope.
type Commit struct {
	// Touched lists every entity the scope wrote. It is filled whether or not
	// the audit records were stored.
	Touched []audit.EntityRef
	// AuditLogs holds the records built for the scope. When AuditStored is
	// false the insert failed and the records exist only here.
	AuditLogs   []*domain.AuditLog
	AuditStored bool
}

// TouchedIDs returns the ids of the touched entities with the given name.
func (c Commit) TouchedIDs(name string) []uint {
	var ids []uint
	for _, ref := range c.Touched {
		if ref.Name == name {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

// CommitListener observes every committed scope. It runs after commit and
// cannot affect the outcome.
type CommitListener func(ctx context.Context, c Commit)
