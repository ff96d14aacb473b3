package cache

import (
	"context"
	"fmt"
	"time"

	"ledgerpay/internal/repositories"

	"github.com/rs/zerolog"
)

// WalletCacheTTL is short because balances also change through transfers,
// whose invalidation arrives after commit.
const WalletCacheTTL = 30 * time.Second

// WalletCache caches wallet read models by wallet id.
type WalletCache struct {
	svc *CacheService
}

func NewWalletCache(svc *CacheService) *WalletCache {
	return &WalletCache{svc: svc}
}

func walletKey(id uint) string {
	return fmt.Sprintf("wallet:id:%d", id)
}

func (c *WalletCache) GetWallet(ctx context.Context, id uint, dest any) (bool, error) {
	return c.svc.Get(ctx, walletKey(id), dest)
}

func (c *WalletCache) SetWallet(ctx context.Context, id uint, value any) error {
	return c.svc.SetWithTTL(ctx, walletKey(id), value, WalletCacheTTL)
}

func (c *WalletCache) InvalidateWallet(ctx context.Context, id uint) error {
	return c.svc.Delete(ctx, walletKey(id))
}

// InvalidationListener drops the cached copy of every wallet a committed scope
// wrote, including scopes whose audit insert failed.
func (c *WalletCache) InvalidationListener(log zerolog.Logger) repositories.CommitListener {
	return func(ctx context.Context, commit repositories.Commit) {
		for _, id := range commit.TouchedIDs("Wallet") {
			if err := c.InvalidateWallet(ctx, id); err != nil {
				log.Warn().Err(err).Uint("wallet_id", id).Msg("failed to invalidate wallet cache")
			}
		}
	}
}
