package repositories

import (
	"context"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db      *gorm.DB
	tracker *audit.Tracker
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	row := models.TransactionFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err, "failed to create transaction", nil)
	}
	tx.MarkStored(row.ID)
	if r.tracker != nil {
		r.tracker.Added(tx)
	}
	return nil
}

func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	row := models.TransactionFromDomain(tx)
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", row.ID, string(domain.TransactionStatusPending)).
		Updates(map[string]any{
			"status":         row.Status,
			"processed_at":   row.ProcessedAt,
			"failure_reason": row.FailureReason,
		})
	if res.Error != nil {
		return translate(res.Error, "failed to update transaction", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrencyConflict
	}
	if r.tracker != nil {
		r.tracker.Modified(tx)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	var row models.Transaction
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err, "failed to get transaction", apperrors.ErrTransactionNotFound)
	}
	return r.loaded(&row)
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	var row models.Transaction
	err := r.db.WithContext(ctx).
		Where("reference_number = ?", reference).
		First(&row).Error
	if err != nil {
		return nil, translate(err, "failed to get transaction", apperrors.ErrTransactionNotFound)
	}
	return r.loaded(&row)
}

func (r *transactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("reference_number = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "failed to check reference", nil)
	}
	return count > 0, nil
}

func (r *transactionRepository) History(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, int64, error) {
	filter = filter.Normalize()
	// Session makes q safe to reuse for both the count and the page.
	q := historyQuery(r.db.WithContext(ctx).Model(&models.Transaction{}), filter).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "failed to count transaction history", nil)
	}

	var rows []models.Transaction
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "failed to get transaction history", nil)
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		tx, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, total, nil
}

// historyQuery applies every non-nil filter field to q.
func historyQuery(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.WalletID != nil {
		q = q.Where("(from_wallet_id = ? OR to_wallet_id = ?)", *f.WalletID, *f.WalletID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	if f.Type != nil {
		q = q.Where("type = ?", string(*f.Type))
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

func (r *transactionRepository) loaded(row *models.Transaction) (*domain.Transaction, error) {
	tx, err := row.ToDomain()
	if err != nil {
		return nil, err
	}
	if r.tracker != nil {
		r.tracker.Loaded(tx)
	}
	return tx, nil
}
