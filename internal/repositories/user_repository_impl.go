package repositories

import (
	"context"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db      *gorm.DB
	tracker *audit.Tracker
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err, "failed to create user", nil)
	}
	user.MarkStored(row.ID)
	if r.tracker != nil {
		r.tracker.Added(user)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err, "failed to get user", apperrors.ErrUserNotFound)
	}
	return row.ToDomain(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", domain.NormalizeEmail(email)).
		First(&row).Error
	if err != nil {
		return nil, translate(err, "failed to get user", apperrors.ErrUserNotFound)
	}
	return row.ToDomain(), nil
}
