package domain

import (
	"strings"

	apperrors "ledgerpay/internal/errors"
)

// Currency is an ISO 4217 code supported by the ledger.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

var supportedCurrencies = map[Currency]struct{}{
	CurrencyTRY: {},
	CurrencyUSD: {},
	CurrencyEUR: {},
	CurrencyGBP: {},
}

// ParseCurrency normalizes code and checks that it is supported.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "currency", "unsupported currency "+code)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

func (c Currency) String() string {
	return string(c)
}
