package auth

import (
	"time"

	"ledgerpay/internal/services/user"
)

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type LoginResult struct {
	User   *user.View `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}
