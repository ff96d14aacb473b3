package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperrors.Code
		want int
	}{
		{apperrors.CodeInvalidArgument, fiber.StatusBadRequest},
		{apperrors.CodeInvalidCredentials, fiber.StatusUnauthorized},
		{apperrors.CodeWalletNotFound, fiber.StatusNotFound},
		{apperrors.CodeTransactionNotFound, fiber.StatusNotFound},
		{apperrors.CodeUserNotFound, fiber.StatusNotFound},
		{apperrors.CodeConcurrencyConflict, fiber.StatusConflict},
		{apperrors.CodeReferenceCollision, fiber.StatusConflict},
		{apperrors.CodeDuplicateEmail, fiber.StatusConflict},
		{apperrors.CodeCurrencyMismatch, fiber.StatusUnprocessableEntity},
		{apperrors.CodeInsufficientBalance, fiber.StatusUnprocessableEntity},
		{apperrors.CodeInvalidStateTransition, fiber.StatusUnprocessableEntity},
		{apperrors.CodeUnclassified, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   utils.ErrorBody
	}{
		{
			name:       "field error",
			err:        apperrors.NewField(apperrors.CodeInvalidArgument, "amount", "must be greater than zero"),
			wantStatus: fiber.StatusBadRequest,
			wantBody:   utils.ErrorBody{Error: "must be greater than zero", Code: "INVALID_ARGUMENT", Field: "amount"},
		},
		{
			name:       "wrapped sentinel",
			err:        fmt.Errorf("load: %w", apperrors.ErrInsufficientBalance),
			wantStatus: fiber.StatusUnprocessableEntity,
			wantBody:   utils.ErrorBody{Error: "insufficient wallet balance", Code: "INSUFFICIENT_BALANCE"},
		},
		{
			name:       "unclassified hides details",
			err:        errors.New("pq: connection reset"),
			wantStatus: fiber.StatusInternalServerError,
			wantBody:   utils.ErrorBody{Error: "internal server error", Code: "UNCLASSIFIED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body utils.ErrorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
