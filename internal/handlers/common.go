package handlers

import (
	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/utils"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into dst and validates its tags.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err)
	}
	return validation.Struct(dst)
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperrors.NewField(apperrors.CodeInvalidArgument, name, "must be a positive integer")
	}
	return uint(id), nil
}

// extractUserClaims returns the authenticated caller.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func isAdmin(claims *models.UserClaims) bool {
	return claims.Role == string(domain.RoleAdmin)
}
