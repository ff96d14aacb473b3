package wallet

// DefaultIBANAttempts bounds the draws made to find an unused IBAN.
const DefaultIBANAttempts = 5
