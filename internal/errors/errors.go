// Package errors defines the coded domain errors shared by every layer of the
// ledger. Each failure carries a stable code plus a human readable message so
// callers can branch on the category without parsing text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies an error category.
type Code string

const (
	CodeInvalidArgument        Code = "INVALID_ARGUMENT"
	CodeWalletNotFound         Code = "WALLET_NOT_FOUND"
	CodeCurrencyMismatch       Code = "CURRENCY_MISMATCH"
	CodeInsufficientBalance    Code = "INSUFFICIENT_BALANCE"
	CodeInvalidStateTransition Code = "INVALID_STATE_TRANSITION"
	CodeConcurrencyConflict    Code = "CONCURRENCY_CONFLICT"
	CodeReferenceCollision     Code = "REFERENCE_COLLISION"
	CodeUserNotFound           Code = "USER_NOT_FOUND"
	CodeTransactionNotFound    Code = "TRANSACTION_NOT_FOUND"
	CodeDuplicateEmail         Code = "DUPLICATE_EMAIL"
	CodeInvalidCredentials     Code = "INVALID_CREDENTIALS"
	CodeUnclassified           Code = "UNCLASSIFIED"
)

// DomainError is a categorized failure. Field is set when the error is tied to
// a single input and Err keeps the underlying cause for logging.
type DomainError struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

// New returns a DomainError with the given code and message.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewField returns a DomainError bound to an input field.
func NewField(code Code, field, message string) *DomainError {
	return &DomainError{Code: code, Field: field, Message: message}
}

// Wrap returns a DomainError with code and message that keeps err as its cause.
func Wrap(code Code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports a match when target is a DomainError with the same code, so the
// package level sentinels work with errors.Is regardless of message or field.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code carried by err, or CodeUnclassified.
func CodeOf(err error) Code {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return CodeUnclassified
}

// Classify returns err as a DomainError. Errors that carry no code are wrapped
// as unclassified failures.
func Classify(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return de
	}
	return Wrap(CodeUnclassified, "unexpected failure", err)
}
