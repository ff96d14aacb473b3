package domain

import (
	"fmt"

	apperrors "ledgerpay/internal/errors"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount.
const MoneyScale = 2

// Money is an immutable non-negative amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney validates amount and currency. Amounts must be non-negative and
// carry at most MoneyScale fractional digits.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.Valid() {
		return Money{}, apperrors.NewField(apperrors.CodeInvalidArgument, "currency", "unsupported currency "+string(currency))
	}
	if amount.IsNegative() {
		return Money{}, apperrors.NewField(apperrors.CodeInvalidArgument, "amount", "amount cannot be negative")
	}
	if !amount.Equal(amount.Round(MoneyScale)) {
		return Money{}, apperrors.NewField(apperrors.CodeInvalidArgument, "amount", "amount has more than two decimal places")
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney parses a literal amount and panics on error. Intended for tests and
// constants.
func MustMoney(amount string, currency Currency) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	m, err := NewMoney(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }

// Add returns m+other. Both must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, apperrors.ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m-other. The result may not be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, apperrors.ErrCurrencyMismatch
	}
	if m.amount.LessThan(other.amount) {
		return Money{}, apperrors.ErrInsufficientBalance
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

func (m Money) IsGreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, apperrors.ErrCurrencyMismatch
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) IsLessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, apperrors.ErrCurrencyMismatch
	}
	return m.amount.LessThan(other.amount), nil
}

// Equal compares value and currency, ignoring trailing zeros.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(MoneyScale), m.currency)
}
