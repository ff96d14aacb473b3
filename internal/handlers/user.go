package handlers

import (
	"ledgerpay/internal/services/user"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.userService.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, view)
}
