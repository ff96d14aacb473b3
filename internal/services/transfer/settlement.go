package transfer

import (
	"context"
	"time"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/repositories"
)

var errNotReversible = apperrors.NewField(apperrors.CodeInvalidArgument, "transaction_id",
	"only withdrawals and external transfers can be failed or cancelled")

func (s *service) Settle(ctx context.Context, req SettleRequest) (*Result, error) {
	if req.Success {
		return s.resolve(ctx, OpSettle, req.TransactionID, false, func(tx *domain.Transaction) error {
			return tx.MarkAsCompleted()
		})
	}
	return s.resolve(ctx, OpSettle, req.TransactionID, true, func(tx *domain.Transaction) error {
		return tx.MarkAsFailed(req.Reason)
	})
}

func (s *service) Cancel(ctx context.Context, transactionID uint, reason string) (*Result, error) {
	return s.resolve(ctx, OpCancel, transactionID, true, func(tx *domain.Transaction) error {
		return tx.MarkAsCancelled(reason)
	})
}

// resolve applies transition to a pending transaction. With refund set the
// debited amount goes back to the source wallet in the same scope; the wallet
// is credited even when it has been deactivated since.
func (s *service) resolve(ctx context.Context, op string, id uint, refund bool, transition func(*domain.Transaction) error) (*Result, error) {
	start := time.Now()
	log := s.log.With().Str("operation", op).Uint("transaction_id", id).Logger()

	var (
		tx     *domain.Transaction
		source *domain.Wallet
	)
	err := s.uow.ExecuteInTransaction(ctx, func(ctx context.Context, store repositories.Store) error {
		var err error
		if tx, err = store.Transactions().GetByID(ctx, id); err != nil {
			return err
		}
		if refund && !tx.Type().SettlesExternally() {
			return errNotReversible
		}
		if err := transition(tx); err != nil {
			return err
		}
		if refund {
			if source, err = store.Wallets().GetByID(ctx, *tx.FromWalletID()); err != nil {
				return err
			}
			if err := source.Credit(tx.Amount()); err != nil {
				return err
			}
			if err := store.Wallets().Update(ctx, source); err != nil {
				return err
			}
		}
		return store.Transactions().Update(ctx, tx)
	})
	if err != nil {
		return nil, s.fail(log, op, start, err)
	}
	s.publish(ctx, tx)

	s.metrics.RecordOperationDuration(op, time.Since(start))
	s.metrics.RecordOperationResult(op, resultSuccess)
	log.Info().
		Str("reference", tx.ReferenceNumber()).
		Str("status", string(tx.Status())).
		Bool("refunded", source != nil).
		Msg("transaction resolved")

	return NewResult(tx, source, nil), nil
}
