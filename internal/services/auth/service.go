package auth

import (
	"context"
	"errors"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/services/user"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	users    repositories.UserRepository
	accounts user.Service
	tokens   *TokenIssuer
	log      zerolog.Logger
}

func NewService(users repositories.UserRepository, accounts user.Service, tokens *TokenIssuer, log zerolog.Logger) Service {
	return &service{
		users:    users,
		accounts: accounts,
		tokens:   tokens,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Register always creates a regular user. Admins come from the seed command.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*user.View, error) {
	return s.accounts.Create(ctx, user.CreateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      domain.RoleUser,
	})
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.log.Info().Str("email", domain.NormalizeEmail(email)).Msg("login failed: unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		s.log.Info().Uint("user_id", u.ID()).Msg("login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !u.IsActive() {
		s.log.Info().Uint("user_id", u.ID()).Msg("login failed: inactive account")
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(u)
	if err != nil {
		s.log.Error().Err(err).Msg("error generating tokens")
		return nil, err
	}
	return &LoginResult{User: user.NewView(u), Tokens: pair}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil || !claims.Refresh {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive() || u.TokenVersion() != claims.TokenVersion {
		return nil, ErrInvalidToken
	}
	return s.tokens.Issue(u)
}

func (s *service) Authenticate(accessToken string) (*models.UserClaims, error) {
	claims, err := s.tokens.Parse(accessToken)
	if err != nil || claims.Refresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
