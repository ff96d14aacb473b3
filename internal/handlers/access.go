package handlers

import (
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// walletAccess resolves wallets on behalf of the caller. Wallets owned by
// someone else look missing to non admin callers.
type walletAccess struct {
	wallets wallet.Service
}

func (a walletAccess) owned(c *fiber.Ctx, id uint) (*wallet.View, error) {
	claims, err := extractUserClaims(c)
	if err != nil {
		return nil, err
	}
	view, err := a.wallets.GetWallet(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if !isAdmin(claims) && view.UserID != claims.UserID {
		return nil, apperrors.ErrWalletNotFound
	}
	return view, nil
}

// anyOwned reports nil when the caller owns at least one of ids.
func (a walletAccess) anyOwned(c *fiber.Ctx, ids ...*uint) error {
	err := error(apperrors.ErrTransactionNotFound)
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, ownErr := a.owned(c, *id); ownErr == nil {
			return nil
		} else if apperrors.CodeOf(ownErr) != apperrors.CodeWalletNotFound {
			err = ownErr
		}
	}
	return err
}
