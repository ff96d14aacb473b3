package main

import (
	"context"
	"errors"
	"os"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/config"
	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/logger"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/services/user"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log := logger.New("ledgerpay-admin-seed", cfg.LogLevel, cfg.IsProduction())

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal().Msg("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	db, err := repositories.OpenDB(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Warn().Err(err).Msg("failed to close database connection")
		}
	}()

	users := user.NewService(repositories.NewUnitOfWork(db, log), bcrypt.DefaultCost, log)

	ctx := audit.WithActor(context.Background(), audit.Actor{Email: "admin_seed", IPAddress: "127.0.0.1"})
	admin, err := users.Create(ctx, user.CreateUserRequest{
		Email:     adminEmail,
		Password:  adminPassword,
		FirstName: "System",
		LastName:  "Admin",
		Phone:     adminPhone,
		Role:      domain.RoleAdmin,
	})
	if errors.Is(err, apperrors.ErrDuplicateEmail) {
		log.Info().Str("email", adminEmail).Msg("admin user already exists")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	log.Info().Uint("user_id", admin.ID).Str("email", admin.Email).Msg("admin account created")
}
