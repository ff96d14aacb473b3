package transaction

import (
	"context"
	"strings"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/repositories"

	"github.com/rs/zerolog"
)

type service struct {
	store repositories.Store
	log   zerolog.Logger
}

// NewService creates a new transaction service
func NewService(store repositories.Store, log zerolog.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{
		store: store,
		log:   log.With().Str("service", "transaction").Logger(),
	}
}

func (s *service) History(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	if _, err := s.store.Wallets().GetByID(ctx, q.WalletID); err != nil {
		return nil, err
	}

	filter := repositories.TransactionFilter{
		WalletID:  &q.WalletID,
		From:      q.From,
		To:        q.To,
		Type:      q.Type,
		Status:    q.Status,
		MinAmount: q.MinAmount,
		MaxAmount: q.MaxAmount,
		Limit:     q.Limit,
	}.Normalize()
	page := q.Page
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * filter.Limit

	txs, total, err := s.store.Transactions().History(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Uint("wallet_id", q.WalletID).Msg("history query failed")
		return nil, err
	}
	return &HistoryPage{
		Transactions: txs,
		Total:        total,
		Page:         page,
		Limit:        filter.Limit,
	}, nil
}

func validate(q HistoryQuery) error {
	if q.WalletID == 0 {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "wallet_id", "wallet id must be positive")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "from_date", "from date is after to date")
	}
	if q.MinAmount != nil && q.MinAmount.IsNegative() {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "min_amount", "min amount cannot be negative")
	}
	if q.MinAmount != nil && q.MaxAmount != nil && q.MinAmount.GreaterThan(*q.MaxAmount) {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "min_amount", "min amount is greater than max amount")
	}
	if q.Type != nil && !q.Type.Valid() {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "type", "unknown transaction type "+string(*q.Type))
	}
	if q.Status != nil && !q.Status.Valid() {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "status", "unknown transaction status "+string(*q.Status))
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	return s.store.Transactions().GetByID(ctx, id)
}

func (s *service) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if !domain.IsValidReference(reference) {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "reference_number", "malformed reference number")
	}
	return s.store.Transactions().GetByReference(ctx, reference)
}

func (s *service) Audit(ctx context.Context, id uint) ([]*domain.AuditLog, error) {
	if _, err := s.store.Transactions().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.AuditLogs().ListByEntity(ctx, "Transaction", id)
}
