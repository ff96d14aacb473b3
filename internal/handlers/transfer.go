package handlers

import (
	"ledgerpay/internal/domain"
	"ledgerpay/internal/services/transaction"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/services/wallet"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler exposes the money movement endpoints.
type TransferHandler struct {
	transfers    transfer.Service
	transactions transaction.Service
	access       walletAccess
}

func NewTransferHandler(transfers transfer.Service, transactions transaction.Service, wallets wallet.Service) *TransferHandler {
	return &TransferHandler{
		transfers:    transfers,
		transactions: transactions,
		access:       walletAccess{wallets: wallets},
	}
}

// Deposit handles POST /api/transactions/deposit. Callers top up their own
// wallets only.
func (h *TransferHandler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, req.ToWalletID); err != nil {
		return respondError(c, err)
	}
	res, err := h.transfers.Deposit(c.UserContext(), transfer.DepositRequest{
		ToWalletID:  req.ToWalletID,
		Amount:      req.Amount,
		Currency:    domain.Currency(req.Currency),
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, res)
}

// Withdraw handles POST /api/transactions/withdraw
func (h *TransferHandler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, req.FromWalletID); err != nil {
		return respondError(c, err)
	}
	res, err := h.transfers.Withdraw(c.UserContext(), transfer.WithdrawRequest{
		FromWalletID:  req.FromWalletID,
		Amount:        req.Amount,
		Currency:      domain.Currency(req.Currency),
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Description:   req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, res)
}

// InternalTransfer handles POST /api/transactions/internal-transfer. The
// destination may belong to anyone.
func (h *TransferHandler) InternalTransfer(c *fiber.Ctx) error {
	var req internalTransferRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, req.FromWalletID); err != nil {
		return respondError(c, err)
	}
	res, err := h.transfers.InternalTransfer(c.UserContext(), transfer.InternalTransferRequest{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
		Currency:     domain.Currency(req.Currency),
		Description:  req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	// The destination balance belongs to another user.
	res.ToWalletBalance = ""
	return utils.Created(c, res)
}

// ExternalTransfer handles POST /api/transactions/external-transfer
func (h *TransferHandler) ExternalTransfer(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, req.FromWalletID); err != nil {
		return respondError(c, err)
	}
	res, err := h.transfers.ExternalTransfer(c.UserContext(), transfer.ExternalTransferRequest{
		FromWalletID:  req.FromWalletID,
		Amount:        req.Amount,
		Currency:      domain.Currency(req.Currency),
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Description:   req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, res)
}

// Settle handles POST /api/transactions/:id/settle. Admin only.
func (h *TransferHandler) Settle(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req settleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	res, err := h.transfers.Settle(c.UserContext(), transfer.SettleRequest{
		TransactionID: id,
		Success:       req.Success,
		Reason:        req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, res)
}

// Cancel handles POST /api/transactions/:id/cancel. The route is admin only:
// a pending external debit may already be on its way to the bank.
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req cancelRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	tx, err := h.transactions.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.access.anyOwned(c, tx.FromWalletID()); err != nil {
		return respondError(c, err)
	}
	res, err := h.transfers.Cancel(c.UserContext(), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, res)
}
