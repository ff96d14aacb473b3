package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	apperrors "ledgerpay/internal/errors"
)

const (
	ibanMinLength = 15
	ibanMaxLength = 34

	// DefaultIBANCountry and BankCode define the layout of generated account
	// identifiers: country, two check digits, bank code, nine digit account.
	DefaultIBANCountry = "TR"
	BankCode           = "0001"
)

// IBAN is a validated international bank account number.
type IBAN string

// ParseIBAN strips spaces, upper-cases value and verifies length, layout and
// the ISO 13616 mod-97 check digits.
func ParseIBAN(value string) (IBAN, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	if s == "" {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "iban", "IBAN cannot be empty")
	}
	if len(s) < ibanMinLength || len(s) > ibanMaxLength {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "iban",
			fmt.Sprintf("IBAN must be between %d and %d characters", ibanMinLength, ibanMaxLength))
	}
	if !isLetter(s[0]) || !isLetter(s[1]) || !isDigit(s[2]) || !isDigit(s[3]) {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "iban", "IBAN must start with a country code and check digits")
	}
	for i := 4; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return "", apperrors.NewField(apperrors.CodeInvalidArgument, "iban", "IBAN must be alphanumeric")
		}
	}
	if mod97(s[4:]+s[:4]) != 1 {
		return "", apperrors.NewField(apperrors.CodeInvalidArgument, "iban", "IBAN check digits are invalid")
	}
	return IBAN(s), nil
}

// GenerateIBAN builds a new account identifier under BankCode with a random
// nine digit account number drawn from r, or crypto/rand when r is nil.
func GenerateIBAN(r io.Reader, country string) (IBAN, error) {
	if r == nil {
		r = rand.Reader
	}
	if country == "" {
		country = DefaultIBANCountry
	}
	n, err := rand.Int(r, big.NewInt(900_000_000))
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	bban := BankCode + fmt.Sprintf("%09d", n.Int64()+100_000_000)
	check := 98 - mod97(bban+strings.ToUpper(country)+"00")
	return ParseIBAN(fmt.Sprintf("%s%02d%s", strings.ToUpper(country), check, bban))
}

func (i IBAN) String() string {
	return string(i)
}

// mod97 computes the remainder of the numeric expansion of s (A=10 ... Z=35)
// divided by 97 without building the full number.
func mod97(s string) int {
	rem := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isDigit(c) {
			rem = (rem*10 + int(c-'0')) % 97
			continue
		}
		v := int(c-'A') + 10
		rem = (rem*100 + v) % 97
	}
	return rem
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
