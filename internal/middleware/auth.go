// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization, and other request processing middleware
// that can be used with the fiber web framework.
package middleware

import (
	"strings"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	authService auth.Service
	users       repositories.UserRepository
	log         zerolog.Logger
}

func NewAuthMiddleware(authService auth.Service, users repositories.UserRepository, log zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		users:       users,
		log:         log.With().Str("component", "auth_middleware").Logger(),
	}
}

// Handler validates the bearer token, checks the token version against the
// stored user and makes the caller the audit actor of the request.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := m.authService.Authenticate(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug().Err(err).Str("ip", c.IP()).Msg("token rejected")
		return utils.Unauthorized(c, "invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil || !user.IsActive() {
		return utils.Unauthorized(c, "invalid token")
	}
	if user.TokenVersion() != claims.TokenVersion {
		m.log.Info().
			Uint("user_id", claims.UserID).
			Int("token_version", claims.TokenVersion).
			Int("current_version", user.TokenVersion()).
			Msg("token version mismatch")
		return utils.Unauthorized(c, "session expired")
	}

	utils.SetUserClaims(c, claims)

	userID := claims.UserID
	c.SetUserContext(audit.WithActor(c.UserContext(), audit.Actor{
		UserID:    &userID,
		Email:     claims.Email,
		IPAddress: c.IP(),
	}))
	return c.Next()
}

// AdminOnly verifies that the request has valid admin claims.
func AdminOnly(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if claims.Role != string(domain.RoleAdmin) {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
// Admins pass every check.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role == string(domain.RoleAdmin) || claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
