package utils

import (
	"errors"

	"ledgerpay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber locals key the auth middleware stores claims under.
const ClaimsKey = "claims"

var ErrNoClaims = errors.New("claims not found in context")

// SetUserClaims attaches the authenticated caller to the request.
func SetUserClaims(c *fiber.Ctx, claims *models.UserClaims) {
	c.Locals(ClaimsKey, claims)
	c.Locals("userID", claims.UserID)
}

// GetUserClaims returns the claims set by SetUserClaims.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals(ClaimsKey).(*models.UserClaims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}
