package auth

import (
	"errors"
	"strconv"
	"time"

	"ledgerpay/internal/config"
	"ledgerpay/internal/domain"
	"ledgerpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and parses HS256 tokens for users.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      time.Now,
	}
}

// Issue generates an access token and a refresh token for u.
func (i *TokenIssuer) Issue(u *domain.User) (*TokenPair, error) {
	if len(i.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	now := i.clock()
	role := string(u.Role())

	access := i.claims(u, now, i.accessTTL)
	access.Permissions = models.GetDefaultPermissions(role)
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	refresh := i.claims(u, now, i.refreshTTL)
	refresh.Refresh = true
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    access.ExpiresAt.Time,
	}, nil
}

func (i *TokenIssuer) claims(u *domain.User, now time.Time, ttl time.Duration) models.UserClaims {
	return models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.issuer,
			Subject:   strconv.FormatUint(uint64(u.ID()), 10),
		},
		UserID:       u.ID(),
		Email:        u.Email(),
		Role:         string(u.Role()),
		TokenVersion: u.TokenVersion(),
	}
}

// Parse validates the signature, issuer and expiry of token.
func (i *TokenIssuer) Parse(token string) (*models.UserClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &models.UserClaims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*models.UserClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
