package user

import (
	"context"
	"fmt"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	uow  repositories.UnitOfWork
	cost int
	log  zerolog.Logger
}

// NewService creates a new user service. cost is the bcrypt cost; zero
// selects bcrypt.DefaultCost.
func NewService(uow repositories.UnitOfWork, cost int, log zerolog.Logger) Service {
	if uow == nil {
		panic("unit of work is required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &service{
		uow:  uow,
		cost: cost,
		log:  log.With().Str("service", "user").Logger(),
	}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*View, error) {
	if !validation.StrongPassword(req.Password) {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "password",
			fmt.Sprintf("password must be %d to %d characters and contain a special character",
				validation.MinPasswordLength, validation.MaxPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := domain.NewUser(req.Email, string(hash), req.FirstName, req.LastName, req.Phone, req.Role)
	if err != nil {
		return nil, err
	}
	err = s.uow.ExecuteInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("email", u.Email()).Msg("failed to create user")
		return nil, err
	}

	s.log.Info().Uint("user_id", u.ID()).Str("role", string(u.Role())).Msg("user created")
	return NewView(u), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*View, error) {
	u, err := s.uow.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(u), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*View, error) {
	u, err := s.uow.Users().GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return NewView(u), nil
}
