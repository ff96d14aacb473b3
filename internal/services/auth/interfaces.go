// Package auth registers users and issues the JWT pairs the HTTP layer
// authenticates with.
package auth

import (
	"context"

	"ledgerpay/internal/models"
	"ledgerpay/internal/services/user"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*user.View, error)
	// Login verifies the password and returns a fresh token pair. Unknown
	// emails, wrong passwords and inactive accounts fail the same way.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Refresh trades a refresh token for a new pair while the user's token
	// version still matches.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Authenticate parses an access token.
	Authenticate(accessToken string) (*models.UserClaims, error)
}
