package repositories

import (
	"context"

	"ledgerpay/internal/domain"
)

// WalletRepository defines the wallet operations available inside and outside
// a unit of work.
type WalletRepository interface {
	// Create inserts a new wallet and assigns its id.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByID returns the wallet regardless of its activation flag.
	GetByID(ctx context.Context, id uint) (*domain.Wallet, error)

	// GetActiveByID returns the wallet only when it is active; inactive and
	// missing wallets both yield ErrWalletNotFound.
	GetActiveByID(ctx context.Context, id uint) (*domain.Wallet, error)

	// ListActiveByUser returns the user's active wallets, oldest first.
	ListActiveByUser(ctx context.Context, userID uint) ([]*domain.Wallet, error)

	// Update writes the wallet conditioned on the version it was loaded with.
	// A stale version yields ErrConcurrencyConflict.
	Update(ctx context.Context, wallet *domain.Wallet) error

	IBANExists(ctx context.Context, iban domain.IBAN) (bool, error)
}
