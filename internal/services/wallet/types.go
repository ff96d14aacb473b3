package wallet

import (
	"io"
	"time"

	"ledgerpay/internal/domain"
)

// Config holds wallet service settings.
type Config struct {
	IBANCountry  string
	IBANAttempts int
	// Random is the entropy source for IBAN generation; crypto/rand when nil.
	Random io.Reader
}

type CreateWalletRequest struct {
	UserID   uint
	Name     string
	Currency domain.Currency
}

// View is the read model of a wallet returned to callers.
type View struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	Name      string          `json:"name"`
	IBAN      string          `json:"iban"`
	Currency  domain.Currency `json:"currency"`
	Balance   string          `json:"balance"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewView(w *domain.Wallet) *View {
	return &View{
		ID:        w.ID(),
		UserID:    w.UserID(),
		Name:      w.Name(),
		IBAN:      w.IBAN().String(),
		Currency:  w.Currency(),
		Balance:   w.Balance().Amount().StringFixed(domain.MoneyScale),
		IsActive:  w.IsActive(),
		CreatedAt: w.CreatedAt(),
		UpdatedAt: w.UpdatedAt(),
	}
}
