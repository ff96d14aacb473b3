package models

import (
	"time"

	"ledgerpay/internal/domain"

	"github.com/shopspring/decimal"
)

// Wallet is the wallets table row. Version backs optimistic concurrency and
// is never exposed as business data.
type Wallet struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:100;not null"`
	Iban      string          `gorm:"size:34;uniqueIndex;not null"`
	Currency  string          `gorm:"size:3;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true;index"`
	Version   int64           `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"index"`
	UpdatedAt time.Time
}

func WalletFromDomain(w *domain.Wallet) *Wallet {
	s := w.State()
	return &Wallet{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		Iban:      string(s.IBAN),
		Currency:  string(s.Currency),
		Balance:   s.Balance,
		IsActive:  s.IsActive,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *Wallet) ToDomain() *domain.Wallet {
	return domain.RestoreWallet(domain.WalletState{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		IBAN:      domain.IBAN(m.Iban),
		Currency:  domain.Currency(m.Currency),
		Balance:   m.Balance,
		IsActive:  m.IsActive,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
}
