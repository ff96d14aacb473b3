package transfer

import (
	"context"
	"fmt"
	"time"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/events"
	"ledgerpay/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type service struct {
	uow       repositories.UnitOfWork
	refs      domain.ReferenceGenerator
	publisher events.Publisher
	metrics   MetricsCollector
	log       zerolog.Logger
	config    Config
}

// NewService creates a new transfer service
func NewService(
	uow repositories.UnitOfWork,
	refs domain.ReferenceGenerator,
	publisher events.Publisher,
	metrics MetricsCollector,
	log zerolog.Logger,
	config Config,
) Service {
	if uow == nil {
		panic("unit of work is required")
	}
	if refs == nil {
		panic("reference generator is required")
	}

	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if config.MaxReferenceAttempts <= 0 {
		config.MaxReferenceAttempts = DefaultReferenceAttempts
	}

	return &service{
		uow:       uow,
		refs:      refs,
		publisher: publisher,
		metrics:   metrics,
		log:       log.With().Str("service", "transfer").Logger(),
		config:    config,
	}
}

// movement is one balance changing operation. debit and credit name the
// wallets involved; zero means the side is outside the ledger.
type movement struct {
	operation string
	debit     uint
	credit    uint
	amount    domain.Money
	build     func(reference string) (*domain.Transaction, error)
}

func (s *service) Deposit(ctx context.Context, req DepositRequest) (*Result, error) {
	return s.run(ctx, OpDeposit, req.Amount, req.Currency, func(amount domain.Money) movement {
		return movement{
			credit: req.ToWalletID,
			amount: amount,
			build: func(ref string) (*domain.Transaction, error) {
				return domain.NewDeposit(req.ToWalletID, amount, req.Description, ref)
			},
		}
	})
}

func (s *service) Withdraw(ctx context.Context, req WithdrawRequest) (*Result, error) {
	account := domain.ExternalAccount{AccountNumber: req.AccountNumber, BankName: req.BankName}
	return s.run(ctx, OpWithdraw, req.Amount, req.Currency, func(amount domain.Money) movement {
		return movement{
			debit:  req.FromWalletID,
			amount: amount,
			build: func(ref string) (*domain.Transaction, error) {
				return domain.NewWithdrawal(req.FromWalletID, account, amount, req.Description, ref)
			},
		}
	})
}

func (s *service) InternalTransfer(ctx context.Context, req InternalTransferRequest) (*Result, error) {
	return s.run(ctx, OpInternalTransfer, req.Amount, req.Currency, func(amount domain.Money) movement {
		return movement{
			debit:  req.FromWalletID,
			credit: req.ToWalletID,
			amount: amount,
			build: func(ref string) (*domain.Transaction, error) {
				return domain.NewInternalTransfer(req.FromWalletID, req.ToWalletID, amount, req.Description, ref)
			},
		}
	})
}

func (s *service) ExternalTransfer(ctx context.Context, req ExternalTransferRequest) (*Result, error) {
	account := domain.ExternalAccount{AccountNumber: req.AccountNumber, BankName: req.BankName}
	return s.run(ctx, OpExternalTransfer, req.Amount, req.Currency, func(amount domain.Money) movement {
		return movement{
			debit:  req.FromWalletID,
			amount: amount,
			build: func(ref string) (*domain.Transaction, error) {
				return domain.NewExternalTransfer(req.FromWalletID, account, amount, req.Description, ref)
			},
		}
	})
}

// run validates the amount and executes the movement describe builds from it.
func (s *service) run(ctx context.Context, op string, amount decimal.Decimal, currency domain.Currency, describe func(domain.Money) movement) (*Result, error) {
	money, err := domain.NewMoney(amount, currency)
	if err != nil {
		return nil, s.fail(s.log.With().Str("operation", op).Logger(), op, time.Now(), err)
	}
	m := describe(money)
	m.operation = op
	return s.execute(ctx, m)
}

// execute is the shared protocol: build and validate the transaction record
// before touching the store, then load, check, record, mutate and commit in
// one scope.
func (s *service) execute(ctx context.Context, m movement) (*Result, error) {
	start := time.Now()
	log := s.log.With().Str("operation", m.operation).Logger()

	ref, err := s.refs.Generate()
	if err != nil {
		return nil, s.fail(log, m.operation, start, fmt.Errorf("generate reference: %w", err))
	}
	tx, err := m.build(ref)
	if err != nil {
		return nil, s.fail(log, m.operation, start, err)
	}

	var from, to *domain.Wallet
	err = s.uow.ExecuteInTransaction(ctx, func(ctx context.Context, store repositories.Store) error {
		unique, err := s.uniqueReference(ctx, store, tx, m.build)
		if err != nil {
			return err
		}
		tx = unique
		if m.debit != 0 {
			if from, err = loadWallet(ctx, store, m.debit, m.amount); err != nil {
				return err
			}
		}
		if m.credit != 0 {
			if to, err = loadWallet(ctx, store, m.credit, m.amount); err != nil {
				return err
			}
		}
		if from != nil && !from.HasSufficientBalance(m.amount) {
			return apperrors.ErrInsufficientBalance
		}

		if err := store.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		if from != nil {
			if err := from.Debit(m.amount); err != nil {
				return err
			}
			if err := store.Wallets().Update(ctx, from); err != nil {
				return err
			}
		}
		if to != nil {
			if err := to.Credit(m.amount); err != nil {
				return err
			}
			if err := store.Wallets().Update(ctx, to); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log = log.With().Str("reference", tx.ReferenceNumber()).Logger()
		return nil, s.fail(log, m.operation, start, err)
	}
	s.publish(ctx, tx)

	if s.completes(tx.Type()) {
		tx = s.complete(ctx, log, tx)
	}

	s.metrics.RecordOperationDuration(m.operation, time.Since(start))
	s.metrics.RecordOperationResult(m.operation, resultSuccess)
	s.metrics.RecordTransactionVolume(m.amount.Currency(), m.amount.Amount())
	log.Info().
		Str("reference", tx.ReferenceNumber()).
		Uint("transaction_id", tx.ID()).
		Str("status", string(tx.Status())).
		Str("amount", m.amount.String()).
		Msg("money movement committed")

	return NewResult(tx, from, to), nil
}

// uniqueReference redraws the reference number while it is already taken, up
// to the configured number of attempts.
func (s *service) uniqueReference(ctx context.Context, store repositories.Store, tx *domain.Transaction, build func(string) (*domain.Transaction, error)) (*domain.Transaction, error) {
	for attempt := 1; ; attempt++ {
		exists, err := store.Transactions().ReferenceExists(ctx, tx.ReferenceNumber())
		if err != nil {
			return nil, err
		}
		if !exists {
			return tx, nil
		}
		if attempt >= s.config.MaxReferenceAttempts {
			return nil, apperrors.ErrReferenceCollision
		}
		s.log.Warn().
			Str("reference", tx.ReferenceNumber()).
			Int("attempt", attempt).
			Msg("reference number taken, drawing another")

		ref, err := s.refs.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate reference: %w", err)
		}
		if tx, err = build(ref); err != nil {
			return nil, err
		}
	}
}

// loadWallet returns the active wallet id and checks it holds amount's
// currency.
func loadWallet(ctx context.Context, store repositories.Store, id uint, amount domain.Money) (*domain.Wallet, error) {
	w, err := store.Wallets().GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Currency() != amount.Currency() {
		return nil, apperrors.ErrCurrencyMismatch
	}
	return w, nil
}

func (s *service) completes(t domain.TransactionType) bool {
	return s.config.Completion == CompleteAll || !t.SettlesExternally()
}

// complete marks the committed transaction Completed in its own scope. The
// balances are already committed at this point, so a failure leaves the
// record Pending and is logged instead of being reported to the caller.
func (s *service) complete(ctx context.Context, log zerolog.Logger, pending *domain.Transaction) *domain.Transaction {
	var completed *domain.Transaction
	err := s.uow.ExecuteInTransaction(ctx, func(ctx context.Context, store repositories.Store) error {
		tx, err := store.Transactions().GetByID(ctx, pending.ID())
		if err != nil {
			return err
		}
		if err := tx.MarkAsCompleted(); err != nil {
			return err
		}
		if err := store.Transactions().Update(ctx, tx); err != nil {
			return err
		}
		completed = tx
		return nil
	})
	if err != nil {
		s.metrics.RecordError(OpComplete, string(apperrors.CodeOf(err)))
		log.Error().Err(err).
			Str("reference", pending.ReferenceNumber()).
			Uint("transaction_id", pending.ID()).
			Msg("balances committed but completion failed, transaction left pending")
		return pending
	}
	s.publish(ctx, completed)
	return completed
}

// publish emits the transaction event. The scope has committed, so a broker
// failure is only logged.
func (s *service) publish(ctx context.Context, tx *domain.Transaction) {
	ev := events.NewTransactionEvent(tx)
	if err := s.publisher.Publish(ctx, ev.RoutingKey(), ev); err != nil {
		s.log.Warn().Err(err).
			Str("reference", tx.ReferenceNumber()).
			Str("routing_key", ev.RoutingKey()).
			Msg("failed to publish transaction event")
	}
}

// fail classifies err, records it and logs it. Unclassified failures are
// logged at error level, business rule failures at warn.
func (s *service) fail(log zerolog.Logger, operation string, start time.Time, err error) error {
	de := apperrors.Classify(err)
	s.metrics.RecordOperationDuration(operation, time.Since(start))
	s.metrics.RecordOperationResult(operation, resultFailure)
	s.metrics.RecordError(operation, string(de.Code))

	ev := log.Warn()
	if de.Code == apperrors.CodeUnclassified {
		ev = log.Error()
	}
	ev.Err(err).Str("code", string(de.Code)).Msg("operation failed")
	return de
}
