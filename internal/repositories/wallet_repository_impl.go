package repositories

import (
	"context"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"gorm.io/gorm"
)

type walletRepository struct {
	db      *gorm.DB
	tracker *audit.Tracker
}

// NewWalletRepository returns a repository outside any unit of work. Writes
// through it are not audited.
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	row := models.WalletFromDomain(wallet)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err, "failed to create wallet", nil)
	}
	wallet.MarkStored(row.ID)
	if r.tracker != nil {
		r.tracker.Added(wallet)
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*domain.Wallet, error) {
	var row models.Wallet
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err, "failed to get wallet", apperrors.ErrWalletNotFound)
	}
	return r.loaded(&row), nil
}

func (r *walletRepository) GetActiveByID(ctx context.Context, id uint) (*domain.Wallet, error) {
	var row models.Wallet
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&row).Error
	if err != nil {
		return nil, translate(err, "failed to get wallet", apperrors.ErrWalletNotFound)
	}
	return r.loaded(&row), nil
}

func (r *walletRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*domain.Wallet, error) {
	var rows []models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to list wallets", nil)
	}
	wallets := make([]*domain.Wallet, 0, len(rows))
	for i := range rows {
		wallets = append(wallets, r.loaded(&rows[i]))
	}
	return wallets, nil
}

func (r *walletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	if wallet.Version() == wallet.StoredVersion() {
		return nil
	}
	s := wallet.State()
	res := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ? AND version = ?", s.ID, wallet.StoredVersion()).
		Updates(map[string]any{
			"name":       s.Name,
			"balance":    s.Balance,
			"is_active":  s.IsActive,
			"version":    s.Version,
			"updated_at": s.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "failed to update wallet", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrencyConflict
	}
	wallet.MarkStored(s.ID)
	if r.tracker != nil {
		r.tracker.Modified(wallet)
	}
	return nil
}

func (r *walletRepository) IBANExists(ctx context.Context, iban domain.IBAN) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("iban = ?", string(iban)).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "failed to check iban", nil)
	}
	return count > 0, nil
}

func (r *walletRepository) loaded(row *models.Wallet) *domain.Wallet {
	w := row.ToDomain()
	if r.tracker != nil {
		r.tracker.Loaded(w)
	}
	return w
}
