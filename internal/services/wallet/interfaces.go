package wallet

import (
	"context"
)

// Service defines the wallet management API
type Service interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*View, error)
	GetWallet(ctx context.Context, id uint) (*View, error)
	// GetUserWallets lists the user's active wallets, oldest first.
	GetUserWallets(ctx context.Context, userID uint) ([]*View, error)
	Rename(ctx context.Context, id uint, name string) (*View, error)
	Deactivate(ctx context.Context, id uint) (*View, error)
	Activate(ctx context.Context, id uint) (*View, error)
}

// Cache stores wallet views by id.
type Cache interface {
	GetWallet(ctx context.Context, id uint, dest any) (bool, error)
	SetWallet(ctx context.Context, id uint, value any) error
	InvalidateWallet(ctx context.Context, id uint) error
}
