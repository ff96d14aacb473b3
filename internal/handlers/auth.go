package handlers

import (
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	created, err := h.authService.Register(c.UserContext(), auth.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, created)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, res)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	pair, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, pair)
}
