package wallet

import (
	"context"
	"crypto/rand"
	"fmt"

	"ledgerpay/internal/domain"
	"ledgerpay/internal/repositories"

	"github.com/rs/zerolog"
)

type service struct {
	uow    repositories.UnitOfWork
	cache  Cache
	log    zerolog.Logger
	config Config
}

// NewService creates a new wallet service. cache may be nil.
func NewService(uow repositories.UnitOfWork, cache Cache, log zerolog.Logger, config Config) Service {
	if uow == nil {
		panic("unit of work is required")
	}

	if config.IBANCountry == "" {
		config.IBANCountry = domain.DefaultIBANCountry
	}
	if config.IBANAttempts <= 0 {
		config.IBANAttempts = DefaultIBANAttempts
	}
	if config.Random == nil {
		config.Random = rand.Reader
	}

	return &service{
		uow:    uow,
		cache:  cache,
		log:    log.With().Str("service", "wallet").Logger(),
		config: config,
	}
}

func (s *service) CreateWallet(ctx context.Context, req CreateWalletRequest) (*View, error) {
	var created *domain.Wallet
	err := s.uow.ExecuteInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, req.UserID); err != nil {
			return err
		}
		iban, err := s.freeIBAN(ctx, tx)
		if err != nil {
			return err
		}
		w, err := domain.NewWallet(req.UserID, req.Name, req.Currency, iban)
		if err != nil {
			return err
		}
		if err := tx.Wallets().Create(ctx, w); err != nil {
			return err
		}
		created = w
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", req.UserID).Msg("failed to create wallet")
		return nil, err
	}

	s.log.Info().
		Uint("wallet_id", created.ID()).
		Uint("user_id", created.UserID()).
		Str("currency", created.Currency().String()).
		Msg("wallet created")
	return NewView(created), nil
}

// freeIBAN draws IBANs until one is not taken.
func (s *service) freeIBAN(ctx context.Context, tx repositories.Store) (domain.IBAN, error) {
	for i := 0; i < s.config.IBANAttempts; i++ {
		iban, err := domain.GenerateIBAN(s.config.Random, s.config.IBANCountry)
		if err != nil {
			return "", fmt.Errorf("generate iban: %w", err)
		}
		taken, err := tx.Wallets().IBANExists(ctx, iban)
		if err != nil {
			return "", err
		}
		if !taken {
			return iban, nil
		}
	}
	return "", ErrIBANExhausted
}

func (s *service) GetWallet(ctx context.Context, id uint) (*View, error) {
	if s.cache != nil {
		var cached View
		found, err := s.cache.GetWallet(ctx, id, &cached)
		if err != nil {
			s.log.Warn().Err(err).Uint("wallet_id", id).Msg("wallet cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	w, err := s.uow.Wallets().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewView(w)

	if s.cache != nil {
		if err := s.cache.SetWallet(ctx, id, view); err != nil {
			s.log.Warn().Err(err).Uint("wallet_id", id).Msg("wallet cache write failed")
		}
	}
	return view, nil
}

func (s *service) GetUserWallets(ctx context.Context, userID uint) ([]*View, error) {
	wallets, err := s.uow.Wallets().ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*View, 0, len(wallets))
	for _, w := range wallets {
		views = append(views, NewView(w))
	}
	return views, nil
}

func (s *service) Rename(ctx context.Context, id uint, name string) (*View, error) {
	return s.mutate(ctx, id, "rename", func(w *domain.Wallet) error {
		return w.Rename(name)
	})
}

func (s *service) Deactivate(ctx context.Context, id uint) (*View, error) {
	return s.mutate(ctx, id, "deactivate", func(w *domain.Wallet) error {
		w.Deactivate()
		return nil
	})
}

func (s *service) Activate(ctx context.Context, id uint) (*View, error) {
	return s.mutate(ctx, id, "activate", func(w *domain.Wallet) error {
		w.Activate()
		return nil
	})
}

// mutate loads the wallet regardless of its activation flag, applies change
// and writes it back under the optimistic version check.
func (s *service) mutate(ctx context.Context, id uint, op string, change func(*domain.Wallet) error) (*View, error) {
	var updated *domain.Wallet
	err := s.uow.ExecuteInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		w, err := tx.Wallets().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := change(w); err != nil {
			return err
		}
		if err := tx.Wallets().Update(ctx, w); err != nil {
			return err
		}
		updated = w
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("operation", op).Uint("wallet_id", id).Msg("wallet update failed")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateWallet(ctx, id); err != nil {
			s.log.Warn().Err(err).Uint("wallet_id", id).Msg("wallet cache invalidation failed")
		}
	}
	s.log.Info().Str("operation", op).Uint("wallet_id", id).Msg("wallet updated")
	return NewView(updated), nil
}
