// Package user manages the accounts that own wallets.
package user

import (
	"context"
)

// Service defines the operations on user accounts
type Service interface {
	// Create registers a user with a bcrypt hash of the given password.
	Create(ctx context.Context, req CreateUserRequest) (*View, error)
	GetByID(ctx context.Context, id uint) (*View, error)
	GetByEmail(ctx context.Context, email string) (*View, error)
}
