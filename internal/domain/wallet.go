package domain

import (
	"strings"
	"time"

	apperrors "ledgerpay/internal/errors"

	"github.com/shopspring/decimal"
)

// MaxWalletNameLength bounds the display name of a wallet.
const MaxWalletNameLength = 100

// Wallet holds a non-negative balance in a currency fixed at creation.
type Wallet struct {
	id            uint
	userID        uint
	name          string
	iban          IBAN
	currency      Currency
	balance       decimal.Decimal
	active        bool
	version       int64
	storedVersion int64
	createdAt     time.Time
	updatedAt     time.Time
}

// WalletState is the persisted shape of a wallet.
type WalletState struct {
	ID        uint
	UserID    uint
	Name      string
	IBAN      IBAN
	Currency  Currency
	Balance   decimal.Decimal
	IsActive  bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet opens an active wallet with a zero balance.
func NewWallet(userID uint, name string, currency Currency, iban IBAN) (*Wallet, error) {
	if userID == 0 {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "user_id", "user id must be positive")
	}
	name, err := validWalletName(name)
	if err != nil {
		return nil, err
	}
	if !currency.Valid() {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "currency", "unsupported currency "+string(currency))
	}
	if iban == "" {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "iban", "IBAN cannot be empty")
	}
	ts := now()
	return &Wallet{
		userID:    userID,
		name:      name,
		iban:      iban,
		currency:  currency,
		balance:   decimal.Zero,
		active:    true,
		createdAt: ts,
		updatedAt: ts,
	}, nil
}

// RestoreWallet rehydrates a wallet loaded from the store.
func RestoreWallet(s WalletState) *Wallet {
	return &Wallet{
		id:            s.ID,
		userID:        s.UserID,
		name:          s.Name,
		iban:          s.IBAN,
		currency:      s.Currency,
		balance:       s.Balance,
		active:        s.IsActive,
		version:       s.Version,
		storedVersion: s.Version,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

func (w *Wallet) ID() uint             { return w.id }
func (w *Wallet) UserID() uint         { return w.userID }
func (w *Wallet) Name() string         { return w.name }
func (w *Wallet) IBAN() IBAN           { return w.iban }
func (w *Wallet) Currency() Currency   { return w.currency }
func (w *Wallet) IsActive() bool       { return w.active }
func (w *Wallet) Version() int64       { return w.version }
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time { return w.updatedAt }
func (w *Wallet) Balance() Money       { return Money{amount: w.balance, currency: w.currency} }

// StoredVersion is the version last read from or written to the store. The
// store conditions updates on it.
func (w *Wallet) StoredVersion() int64 { return w.storedVersion }

// State returns a snapshot of the wallet.
func (w *Wallet) State() WalletState {
	return WalletState{
		ID:        w.id,
		UserID:    w.userID,
		Name:      w.name,
		IBAN:      w.iban,
		Currency:  w.currency,
		Balance:   w.balance,
		IsActive:  w.active,
		Version:   w.version,
		CreatedAt: w.createdAt,
		UpdatedAt: w.updatedAt,
	}
}

// MarkStored records that the store now holds the current state under id.
func (w *Wallet) MarkStored(id uint) {
	w.id = id
	w.storedVersion = w.version
}

// Credit increases the balance by amount.
func (w *Wallet) Credit(amount Money) error {
	if err := w.checkAmount(amount); err != nil {
		return err
	}
	w.balance = w.balance.Add(amount.amount)
	w.touch()
	return nil
}

// Debit decreases the balance by amount. The balance never drops below zero.
func (w *Wallet) Debit(amount Money) error {
	if err := w.checkAmount(amount); err != nil {
		return err
	}
	if !w.HasSufficientBalance(amount) {
		return apperrors.ErrInsufficientBalance
	}
	w.balance = w.balance.Sub(amount.amount)
	w.touch()
	return nil
}

// HasSufficientBalance reports whether amount could be debited right now.
func (w *Wallet) HasSufficientBalance(amount Money) bool {
	return amount.currency == w.currency && w.balance.GreaterThanOrEqual(amount.amount)
}

func (w *Wallet) Activate() {
	if w.active {
		return
	}
	w.active = true
	w.touch()
}

func (w *Wallet) Deactivate() {
	if !w.active {
		return
	}
	w.active = false
	w.touch()
}

// Rename changes the display name.
func (w *Wallet) Rename(name string) error {
	name, err := validWalletName(name)
	if err != nil {
		return err
	}
	if name == w.name {
		return nil
	}
	w.name = name
	w.touch()
	return nil
}

func (w *Wallet) checkAmount(amount Money) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if amount.currency != w.currency {
		return apperrors.ErrCurrencyMismatch
	}
	return nil
}

func (w *Wallet) touch() {
	w.updatedAt = now()
	w.version++
}

func validWalletName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "name", "wallet name is required")
	}
	if len([]rune(name)) > MaxWalletNameLength {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "name", "wallet name must not exceed 100 characters")
	}
	return name, nil
}

// AuditEntity, AuditID and AuditFields expose the wallet to audit capture.
func (w *Wallet) AuditEntity() string { return "Wallet" }
func (w *Wallet) AuditID() uint       { return w.id }

func (w *Wallet) AuditFields() map[string]any {
	return map[string]any{
		"UserId":    w.userID,
		"Name":      w.name,
		"Iban":      string(w.iban),
		"Currency":  string(w.currency),
		"Balance":   w.balance.StringFixed(MoneyScale),
		"IsActive":  w.active,
		"Version":   w.version,
		"UpdatedAt": w.updatedAt.Format(time.RFC3339Nano),
	}
}
