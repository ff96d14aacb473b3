package repositories

import (
	"context"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const auditSavepoint = "audit_capture"

type gormStore struct {
	db      *gorm.DB
	tracker *audit.Tracker
}

func newGormStore(db *gorm.DB, tracker *audit.Tracker) *gormStore {
	return &gormStore{db: db, tracker: tracker}
}

func (s *gormStore) Wallets() WalletRepository {
	return &walletRepository{db: s.db, tracker: s.tracker}
}

func (s *gormStore) Transactions() TransactionRepository {
	return &transactionRepository{db: s.db, tracker: s.tracker}
}

func (s *gormStore) Users() UserRepository {
	return &userRepository{db: s.db, tracker: s.tracker}
}

func (s *gormStore) AuditLogs() AuditLogRepository {
	return &auditLogRepository{db: s.db}
}

type unitOfWork struct {
	*gormStore
	log       zerolog.Logger
	listeners []CommitListener
}

// NewUnitOfWork returns a UnitOfWork over db. Reads made through the returned
// value directly run outside any transaction.
func NewUnitOfWork(db *gorm.DB, log zerolog.Logger, listeners ...CommitListener) UnitOfWork {
	return &unitOfWork{
		gormStore: newGormStore(db, nil),
		log:       log.With().Str("component", "unit_of_work").Logger(),
		listeners: listeners,
	}
}

func (u *unitOfWork) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	var committed Commit

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracker := audit.NewTracker()
		if err := fn(ctx, newGormStore(tx, tracker)); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		committed = Commit{Touched: tracker.Touched()}
		committed.AuditLogs, committed.AuditStored = u.captureAudit(ctx, tx, tracker)
		return nil
	})
	if err != nil {
		return err
	}

	for _, l := range u.listeners {
		l(ctx, committed)
	}
	return nil
}

// captureAudit writes the scope's audit entries under a savepoint so that a
// failing insert is undone without aborting the business mutation. It returns
// the entries it built and whether they were stored.
func (u *unitOfWork) captureAudit(ctx context.Context, tx *gorm.DB, tracker *audit.Tracker) ([]*domain.AuditLog, bool) {
	logs, err := tracker.Entries(audit.ActorFromContext(ctx))
	if err != nil {
		u.log.Warn().Err(err).Msg("audit capture skipped")
		return nil, false
	}
	if len(logs) == 0 {
		return nil, true
	}
	if err := tx.SavePoint(auditSavepoint).Error; err != nil {
		u.log.Warn().Err(err).Msg("audit savepoint failed")
		return logs, false
	}
	if err := (&auditLogRepository{db: tx}).CreateBatch(ctx, logs); err != nil {
		if rbErr := tx.RollbackTo(auditSavepoint).Error; rbErr != nil {
			u.log.Error().Err(rbErr).Msg("rollback to audit savepoint failed")
		}
		u.log.Warn().Err(err).Int("entries", len(logs)).Msg("audit insert failed; mutation kept")
		return logs, false
	}
	return logs, true
}
