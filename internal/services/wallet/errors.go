package wallet

import apperrors "ledgerpay/internal/errors"

// ErrIBANExhausted is returned when no free IBAN was drawn within the retry
// budget.
var ErrIBANExhausted = apperrors.New(apperrors.CodeUnclassified, "could not allocate a unique IBAN")
