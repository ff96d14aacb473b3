// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"net/http"
	"time"

	"ledgerpay/internal/handlers"
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/services/transaction"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/services/user"
	"ledgerpay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"
)

// Dependencies are the services the routes are served by.
type Dependencies struct {
	Auth         auth.Service
	Users        user.Service
	UserRepo     repositories.UserRepository
	Wallets      wallet.Service
	Transfers    transfer.Service
	Transactions transaction.Service

	// Idempotency is optional; without it money routes are not deduplicated.
	Idempotency    middleware.IdempotencyStore
	IdempotencyTTL time.Duration

	Health *handlers.HealthHandler
	// Metrics serves the Prometheus scrape endpoint when set.
	Metrics http.Handler
	// AuthRateLimit caps login and register calls per IP and minute. Zero
	// disables the limiter.
	AuthRateLimit int
	Log           zerolog.Logger
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Users)
	walletHandler := handlers.NewWalletHandler(deps.Wallets)
	transferHandler := handlers.NewTransferHandler(deps.Transfers, deps.Transactions, deps.Wallets)
	transactionHandler := handlers.NewTransactionHandler(deps.Transactions, deps.Wallets)
	authMiddleware := middleware.NewAuthMiddleware(deps.Auth, deps.UserRepo, deps.Log)

	if deps.Health != nil {
		app.Get("/health", deps.Health.HealthCheck)
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Public endpoints (no auth required)
	authRoutes := api.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authRoutes.Use(limiter.New(limiter.Config{
			Max:        deps.AuthRateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)

	api.Get("/users/me", authMiddleware.Handler, userHandler.Me)

	// Wallet routes
	wallets := api.Group("/wallets", authMiddleware.Handler)
	wallets.Post("/", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.CreateWallet)
	wallets.Get("/user/:userId", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetUserWallets)
	wallets.Get("/:id", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	wallets.Patch("/:id", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.RenameWallet)
	wallets.Post("/:id/deactivate", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.DeactivateWallet)
	wallets.Post("/:id/activate", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.ActivateWallet)

	// Transaction routes
	txs := api.Group("/transactions", authMiddleware.Handler)
	write := middleware.HasPermission(models.PermissionTransactionWrite)
	read := middleware.HasPermission(models.PermissionTransactionRead)

	money := func(h fiber.Handler) []fiber.Handler {
		chain := []fiber.Handler{write}
		if deps.Idempotency != nil {
			chain = append(chain, middleware.Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log))
		}
		return append(chain, h)
	}
	txs.Post("/deposit", money(transferHandler.Deposit)...)
	txs.Post("/withdraw", money(transferHandler.Withdraw)...)
	txs.Post("/internal-transfer", money(transferHandler.InternalTransfer)...)
	txs.Post("/external-transfer", money(transferHandler.ExternalTransfer)...)

	txs.Post("/:id/settle", middleware.AdminOnly, transferHandler.Settle)
	txs.Post("/:id/cancel", middleware.AdminOnly, transferHandler.Cancel)
	txs.Get("/history/:walletId", read, transactionHandler.History)
	txs.Get("/reference/:ref", read, transactionHandler.GetByReference)
	txs.Get("/:id/audit", middleware.HasPermission(models.PermissionAuditRead), transactionHandler.Audit)
}
