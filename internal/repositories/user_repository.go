package repositories

import (
	"context"

	"ledgerpay/internal/domain"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create inserts the user. A taken email yields ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
