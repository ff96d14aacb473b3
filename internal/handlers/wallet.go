package handlers

import (
	"context"

	"ledgerpay/internal/domain"
	"ledgerpay/internal/services/wallet"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
	access        walletAccess
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		access:        walletAccess{wallets: walletService},
	}
}

// CreateWallet handles POST /api/wallets. The wallet belongs to the caller.
func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createWalletRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	view, err := h.walletService.CreateWallet(c.UserContext(), wallet.CreateWalletRequest{
		UserID:   claims.UserID,
		Name:     req.Name,
		Currency: domain.Currency(req.Currency),
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, view)
}

// GetUserWallets handles GET /api/wallets/user/:userId
func (h *WalletHandler) GetUserWallets(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if !isAdmin(claims) && userID != claims.UserID {
		return utils.Forbidden(c, "insufficient permissions")
	}
	views, err := h.walletService.GetUserWallets(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"wallets": views})
}

// GetWallet handles GET /api/wallets/:id
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.access.owned(c, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, view)
}

// RenameWallet handles PATCH /api/wallets/:id
func (h *WalletHandler) RenameWallet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req renameWalletRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, id); err != nil {
		return respondError(c, err)
	}
	view, err := h.walletService.Rename(c.UserContext(), id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, view)
}

// DeactivateWallet handles POST /api/wallets/:id/deactivate
func (h *WalletHandler) DeactivateWallet(c *fiber.Ctx) error {
	return h.toggle(c, h.walletService.Deactivate)
}

// ActivateWallet handles POST /api/wallets/:id/activate
func (h *WalletHandler) ActivateWallet(c *fiber.Ctx) error {
	return h.toggle(c, h.walletService.Activate)
}

func (h *WalletHandler) toggle(c *fiber.Ctx, apply func(context.Context, uint) (*wallet.View, error)) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, id); err != nil {
		return respondError(c, err)
	}
	view, err := apply(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, view)
}
