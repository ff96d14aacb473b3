package validation

const (
	// MaxTransactionAmount is the largest amount one request may move.
	MaxTransactionAmount = "1000000"

	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72

	MaxDescriptionLength   = 500
	MaxAccountNumberLength = 50
	MaxBankNameLength      = 100
	MaxWalletNameLength    = 100
	MaxFailureReasonLength = 500
)
