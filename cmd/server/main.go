// Package main is the entry point for the API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerpay/internal/config"
	"ledgerpay/internal/domain"
	"ledgerpay/internal/events"
	"ledgerpay/internal/handlers"
	"ledgerpay/internal/logger"
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/repositories/cache"
	"ledgerpay/internal/routes"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/services/transaction"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/services/user"
	"ledgerpay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log := logger.New("ledgerpay-api", cfg.LogLevel, cfg.IsProduction())

	db, err := repositories.OpenDB(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Warn().Err(err).Msg("failed to close database connection")
		}
	}()

	// Redis backs the wallet cache and idempotency keys; the API keeps
	// serving without it.
	redisClient := cache.NewRedisClient(cfg.Redis)
	if err := cache.Ping(context.Background(), redisClient); err != nil {
		log.Warn().Err(err).Msg("redis unavailable; caching and idempotency disabled")
		_ = redisClient.Close()
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Str("addr", cfg.Redis.Host+":"+cfg.Redis.Port).Msg("redis connected")
	}

	var publisher events.Publisher = events.NewNoopPublisher()
	if rmq, err := events.DialRabbitMQ(cfg.RabbitMQ, log); err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable; ledger events will not be published")
	} else {
		publisher = rmq
		log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("rabbitmq connected")
	}
	defer publisher.Close()

	listeners := []repositories.CommitListener{events.AuditListener(publisher, log)}
	var walletCache wallet.Cache
	var idempotency middleware.IdempotencyStore
	if redisClient != nil {
		wc := cache.NewWalletCache(cache.NewCacheService(redisClient, cache.WalletCacheTTL))
		walletCache = wc
		listeners = append(listeners, wc.InvalidationListener(log))
		idempotency = cache.NewIdempotencyStore(redisClient)
	}

	uow := repositories.NewUnitOfWork(db, log, listeners...)

	completion := transfer.CompleteSettledInternally
	if cfg.Ledger.CompleteExternal {
		completion = transfer.CompleteAll
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get database instance")
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.Database.Name),
	)
	metrics := transfer.NewPrometheusMetricsCollector(registry)

	users := user.NewService(uow, bcrypt.DefaultCost, log)
	deps := routes.Dependencies{
		Auth:     auth.NewService(uow.Users(), users, auth.NewTokenIssuer(cfg.JWT), log),
		Users:    users,
		UserRepo: uow.Users(),
		Wallets: wallet.NewService(uow, walletCache, log, wallet.Config{
			IBANCountry: cfg.Ledger.IBANCountry,
		}),
		Transfers: transfer.NewService(uow, domain.NewReferenceGenerator(), publisher, metrics, log, transfer.Config{
			Completion: completion,
		}),
		Transactions:   transaction.NewService(uow, log),
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.HTTP.IdempotencyTTL,
		Health:         handlers.NewHealthHandler(version, healthChecks(db, redisClient)),
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		AuthRateLimit:  5,
		Log:            log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		AppName:      "ledgerpay",
		ErrorHandler: handlers.ErrorHandler,
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(log))

	routes.SetupRoutes(app, deps)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.HTTP.Port).Str("env", cfg.Env).Msg("starting server")
	if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

func healthChecks(db *gorm.DB, redisClient *redis.Client) map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cache.Ping(ctx, redisClient)
		}
	}
	return checks
}
