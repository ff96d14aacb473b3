package transfer

import (
	"context"
	"time"

	"ledgerpay/internal/domain"

	"github.com/shopspring/decimal"
)

// Service is the money movement API of the ledger.
type Service interface {
	Deposit(ctx context.Context, req DepositRequest) (*Result, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*Result, error)
	InternalTransfer(ctx context.Context, req InternalTransferRequest) (*Result, error)
	ExternalTransfer(ctx context.Context, req ExternalTransferRequest) (*Result, error)

	// Settle resolves a pending transaction. A failed withdrawal or external
	// transfer is refunded to its source wallet.
	Settle(ctx context.Context, req SettleRequest) (*Result, error)
	// Cancel cancels a pending withdrawal or external transfer and refunds it.
	Cancel(ctx context.Context, transactionID uint, reason string) (*Result, error)
}

// MetricsCollector receives operation measurements.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordError(operation, code string)
	RecordTransactionVolume(currency domain.Currency, amount decimal.Decimal)
}
