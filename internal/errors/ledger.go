package errors

var (
	ErrInvalidArgument = &DomainError{
		Code:    CodeInvalidArgument,
		Message: "invalid argument",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeInvalidArgument,
		Field:   "amount",
		Message: "amount must be greater than zero",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    CodeInsufficientBalance,
		Message: "insufficient wallet balance",
	}
	ErrWalletNotFound = &DomainError{
		Code:    CodeWalletNotFound,
		Message: "wallet not found",
	}
	ErrCurrencyMismatch = &DomainError{
		Code:    CodeCurrencyMismatch,
		Message: "currency does not match wallet currency",
	}
	ErrInvalidStateTransition = &DomainError{
		Code:    CodeInvalidStateTransition,
		Message: "transaction is not pending",
	}
	ErrConcurrencyConflict = &DomainError{
		Code:    CodeConcurrencyConflict,
		Message: "concurrency conflict. Please try again",
	}
	ErrReferenceCollision = &DomainError{
		Code:    CodeReferenceCollision,
		Message: "reference number already in use",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    CodeTransactionNotFound,
		Message: "transaction not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    CodeUserNotFound,
		Message: "user not found",
	}
	ErrDuplicateEmail = &DomainError{
		Code:    CodeDuplicateEmail,
		Message: "email already registered",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    CodeInvalidCredentials,
		Message: "invalid credentials",
	}
)
