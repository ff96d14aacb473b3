package transfer

import (
	"time"

	"ledgerpay/internal/domain"

	"github.com/shopspring/decimal"
)

// CompletionPolicy decides which transaction types are marked Completed right
// after their balances commit.
type CompletionPolicy int

const (
	// CompleteSettledInternally completes deposits and internal transfers and
	// leaves externally settled types Pending.
	CompleteSettledInternally CompletionPolicy = iota
	// CompleteAll completes every type immediately.
	CompleteAll
)

// Config holds the orchestrator settings.
type Config struct {
	Completion           CompletionPolicy
	MaxReferenceAttempts int
}

type DepositRequest struct {
	ToWalletID  uint
	Amount      decimal.Decimal
	Currency    domain.Currency
	Description string
}

type WithdrawRequest struct {
	FromWalletID  uint
	Amount        decimal.Decimal
	Currency      domain.Currency
	AccountNumber string
	BankName      string
	Description   string
}

type InternalTransferRequest struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       decimal.Decimal
	Currency     domain.Currency
	Description  string
}

type ExternalTransferRequest struct {
	FromWalletID  uint
	Amount        decimal.Decimal
	Currency      domain.Currency
	AccountNumber string
	BankName      string
	Description   string
}

// SettleRequest resolves a pending transaction. Reason is required when
// Success is false.
type SettleRequest struct {
	TransactionID uint
	Success       bool
	Reason        string
}

// Result is the transaction as committed plus the balances of the wallets the
// operation touched.
type Result struct {
	ID                    uint                     `json:"id"`
	FromWalletID          *uint                    `json:"from_wallet_id,omitempty"`
	ToWalletID            *uint                    `json:"to_wallet_id,omitempty"`
	ExternalAccountNumber string                   `json:"external_account_number,omitempty"`
	ExternalBankName      string                   `json:"external_bank_name,omitempty"`
	Amount                string                   `json:"amount"`
	Currency              domain.Currency          `json:"currency"`
	Type                  domain.TransactionType   `json:"type"`
	Status                domain.TransactionStatus `json:"status"`
	Description           string                   `json:"description,omitempty"`
	ReferenceNumber       string                   `json:"reference_number"`
	ProcessedAt           *time.Time               `json:"processed_at,omitempty"`
	FailureReason         string                   `json:"failure_reason,omitempty"`
	CreatedAt             time.Time                `json:"created_at"`
	FromWalletBalance     string                   `json:"from_wallet_balance,omitempty"`
	ToWalletBalance       string                   `json:"to_wallet_balance,omitempty"`
}

// NewResult maps tx onto the result shape. from and to may be nil.
func NewResult(tx *domain.Transaction, from, to *domain.Wallet) *Result {
	r := &Result{
		ID:              tx.ID(),
		FromWalletID:    tx.FromWalletID(),
		ToWalletID:      tx.ToWalletID(),
		Amount:          tx.Amount().Amount().StringFixed(domain.MoneyScale),
		Currency:        tx.Amount().Currency(),
		Type:            tx.Type(),
		Status:          tx.Status(),
		Description:     tx.Description(),
		ReferenceNumber: tx.ReferenceNumber(),
		ProcessedAt:     tx.ProcessedAt(),
		FailureReason:   tx.FailureReason(),
		CreatedAt:       tx.CreatedAt(),
	}
	if acc := tx.ExternalAccount(); acc != nil {
		r.ExternalAccountNumber = acc.AccountNumber
		r.ExternalBankName = acc.BankName
	}
	if from != nil {
		r.FromWalletBalance = from.Balance().Amount().StringFixed(domain.MoneyScale)
	}
	if to != nil {
		r.ToWalletBalance = to.Balance().Amount().StringFixed(domain.MoneyScale)
	}
	return r
}
