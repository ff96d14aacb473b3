package user

import (
	"context"
	"testing"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/repositories/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validRequest() CreateUserRequest {
	return CreateUserRequest{
		Email:     "  Ada@Ledger.io ",
		Password:  "Secr3t!pass",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestUserService_Create(t *testing.T) {
	uow := memory.New()
	svc := NewService(uow, bcrypt.MinCost, zerolog.Nop())
	ctx := context.Background()

	view, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "ada@ledger.io", view.Email)
	assert.Equal(t, domain.RoleUser, view.Role)
	assert.True(t, view.IsActive)

	stored, err := uow.Users().GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pass", stored.PasswordHash())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash()), []byte("Secr3t!pass")))

	records := uow.AuditStates()
	require.Len(t, records, 1)
	assert.Equal(t, "User", records[0].EntityName)
	assert.NotContains(t, records[0].Changes, stored.PasswordHash())

	_, err = svc.Create(ctx, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	byEmail, err := svc.GetByEmail(ctx, "ADA@ledger.io")
	require.NoError(t, err)
	assert.Equal(t, view.ID, byEmail.ID)
}

func TestUserService_CreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateUserRequest)
	}{
		{name: "weak password", mutate: func(r *CreateUserRequest) { r.Password = "password" }},
		{name: "bad email", mutate: func(r *CreateUserRequest) { r.Email = "not-an-email" }},
		{name: "missing name", mutate: func(r *CreateUserRequest) { r.LastName = " " }},
		{name: "unknown role", mutate: func(r *CreateUserRequest) { r.Role = domain.Role("root") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := memory.New()
			svc := NewService(uow, bcrypt.MinCost, zerolog.Nop())
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
			assert.Empty(t, uow.AuditStates())
		})
	}
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	svc := NewService(memory.New(), bcrypt.MinCost, zerolog.Nop())
	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
