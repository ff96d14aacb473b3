package models

import (
	"time"

	"ledgerpay/internal/domain"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row.
type Transaction struct {
	ID                    uint            `gorm:"primarykey"`
	FromWalletID          *uint           `gorm:"index"`
	ToWalletID            *uint           `gorm:"index"`
	ExternalAccountNumber *string         `gorm:"size:50"`
	ExternalBankName      *string         `gorm:"size:100"`
	Amount                decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency              string          `gorm:"size:3;not null"`
	Type                  string          `gorm:"size:32;not null;index"`
	Status                string          `gorm:"size:16;not null;index"`
	Description           string          `gorm:"size:500"`
	ReferenceNumber       string          `gorm:"size:32;not null;uniqueIndex:idx_transactions_reference_number"`
	ProcessedAt           *time.Time
	FailureReason         *string   `gorm:"size:500"`
	CreatedAt             time.Time `gorm:"index"`
	UpdatedAt             time.Time
}

func TransactionFromDomain(t *domain.Transaction) *Transaction {
	s := t.State()
	row := &Transaction{
		ID:              s.ID,
		FromWalletID:    s.FromWalletID,
		ToWalletID:      s.ToWalletID,
		Amount:          s.Amount.Amount(),
		Currency:        string(s.Amount.Currency()),
		Type:            string(s.Type),
		Status:          string(s.Status),
		Description:     s.Description,
		ReferenceNumber: s.ReferenceNumber,
		ProcessedAt:     s.ProcessedAt,
		CreatedAt:       s.CreatedAt,
	}
	if s.ExternalAccount != nil {
		row.ExternalAccountNumber = &s.ExternalAccount.AccountNumber
		row.ExternalBankName = &s.ExternalAccount.BankName
	}
	if s.FailureReason != "" {
		row.FailureReason = &s.FailureReason
	}
	return row
}

// ToDomain rehydrates the row. Amounts were validated on the way in, so a
// corrupt amount is reported rather than silently zeroed.
func (m *Transaction) ToDomain() (*domain.Transaction, error) {
	amount, err := domain.NewMoney(m.Amount, domain.Currency(m.Currency))
	if err != nil {
		return nil, err
	}
	s := domain.TransactionState{
		ID:              m.ID,
		FromWalletID:    m.FromWalletID,
		ToWalletID:      m.ToWalletID,
		Amount:          amount,
		Type:            domain.TransactionType(m.Type),
		Status:          domain.TransactionStatus(m.Status),
		Description:     m.Description,
		ReferenceNumber: m.ReferenceNumber,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
	}
	if m.ExternalAccountNumber != nil && m.ExternalBankName != nil {
		s.ExternalAccount = &domain.ExternalAccount{
			AccountNumber: *m.ExternalAccountNumber,
			BankName:      *m.ExternalBankName,
		}
	}
	if m.FailureReason != nil {
		s.FailureReason = *m.FailureReason
	}
	return domain.RestoreTransaction(s), nil
}
