package handlers

import (
	stderrors "errors"

	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error code onto its HTTP status.
func StatusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case apperrors.CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case apperrors.CodeWalletNotFound, apperrors.CodeUserNotFound, apperrors.CodeTransactionNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeConcurrencyConflict, apperrors.CodeReferenceCollision, apperrors.CodeDuplicateEmail:
		return fiber.StatusConflict
	case apperrors.CodeCurrencyMismatch, apperrors.CodeInsufficientBalance, apperrors.CodeInvalidStateTransition:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as a coded error body. Unclassified failures never
// leak their message.
func respondError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return utils.Fail(c, fe.Code, "", "", fe.Message)
	}

	de := apperrors.Classify(err)
	status := StatusFor(de.Code)
	if status == fiber.StatusInternalServerError {
		return utils.Fail(c, status, string(apperrors.CodeUnclassified), "", "internal server error")
	}
	return utils.Fail(c, status, string(de.Code), de.Field, de.Message)
}

// ErrorHandler is the fiber error handler for errors escaping a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
