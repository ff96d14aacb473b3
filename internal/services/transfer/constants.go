package transfer

// DefaultReferenceAttempts bounds how many reference numbers are drawn before
// an operation gives up with REFERENCE_COLLISION.
const DefaultReferenceAttempts = 5

// Operation names used in logs and metrics.
const (
	OpDeposit          = "deposit"
	OpWithdraw         = "withdraw"
	OpInternalTransfer = "internal_transfer"
	OpExternalTransfer = "external_transfer"
	OpComplete         = "complete"
	OpSettle           = "settle"
	OpCancel           = "cancel"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)
