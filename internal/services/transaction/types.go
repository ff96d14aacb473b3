package transaction

import (
	"time"

	"ledgerpay/internal/domain"

	"github.com/shopspring/decimal"
)

// HistoryQuery selects the transactions touching one wallet. Page starts at 1.
type HistoryQuery struct {
	WalletID  uint
	From      *time.Time
	To        *time.Time
	Type      *domain.TransactionType
	Status    *domain.TransactionStatus
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Page      int
	Limit     int
}

type HistoryPage struct {
	Transactions []*domain.Transaction
	Total        int64
	Page         int
	Limit        int
}
