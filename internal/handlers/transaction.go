package handlers

import (
	"encoding/json"
	"time"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/services/transaction"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/services/wallet"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const defaultHistoryLimit = 20

type TransactionHandler struct {
	transactions transaction.Service
	access       walletAccess
}

func NewTransactionHandler(transactions transaction.Service, wallets wallet.Service) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		access:       walletAccess{wallets: wallets},
	}
}

// History handles GET /api/transactions/history/:walletId
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	walletID, err := paramID(c, "walletId")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.access.owned(c, walletID); err != nil {
		return respondError(c, err)
	}

	pagination := utils.GetPagination(c, 1, defaultHistoryLimit)
	q, err := historyQuery(c, walletID, pagination)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.transactions.History(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}

	results := make([]*transfer.Result, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		results = append(results, transfer.NewResult(tx, nil, nil))
	}
	pagination.SetTotal(page.Total)
	return utils.Success(c, utils.NewPaginatedResponse(results, pagination))
}

func historyQuery(c *fiber.Ctx, walletID uint, p utils.Pagination) (transaction.HistoryQuery, error) {
	q := transaction.HistoryQuery{WalletID: walletID, Page: p.Page, Limit: p.Limit}

	var err error
	if q.From, err = queryTime(c, "from_date"); err != nil {
		return q, err
	}
	if q.To, err = queryTime(c, "to_date"); err != nil {
		return q, err
	}
	if q.MinAmount, err = queryDecimal(c, "min_amount"); err != nil {
		return q, err
	}
	if q.MaxAmount, err = queryDecimal(c, "max_amount"); err != nil {
		return q, err
	}
	if v := c.Query("type"); v != "" {
		t := domain.TransactionType(v)
		q.Type = &t
	}
	if v := c.Query("status"); v != "" {
		s := domain.TransactionStatus(v)
		q.Status = &s
	}
	return q, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates. A plain to_date
// covers the whole day.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, name, "must be RFC 3339 or YYYY-MM-DD")
	}
	if name == "to_date" {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func queryDecimal(c *fiber.Ctx, name string) (*decimal.Decimal, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, name, "must be a decimal number")
	}
	return &d, nil
}

// GetByReference handles GET /api/transactions/reference/:ref
func (h *TransactionHandler) GetByReference(c *fiber.Ctx) error {
	tx, err := h.transactions.GetByReference(c.UserContext(), c.Params("ref"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.access.anyOwned(c, tx.FromWalletID(), tx.ToWalletID()); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, transfer.NewResult(tx, nil, nil))
}

// Audit handles GET /api/transactions/:id/audit
func (h *TransactionHandler) Audit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	logs, err := h.transactions.Audit(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	entries := make([]auditEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, newAuditEntry(l))
	}
	return utils.Success(c, fiber.Map{"audit_logs": entries})
}

type auditEntry struct {
	ID         uint               `json:"id"`
	EntityName string             `json:"entity_name"`
	EntityID   uint               `json:"entity_id"`
	Action     domain.AuditAction `json:"action"`
	Changes    json.RawMessage    `json:"changes,omitempty"`
	UserID     *uint              `json:"user_id,omitempty"`
	UserEmail  string             `json:"user_email,omitempty"`
	IPAddress  string             `json:"ip_address,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

func newAuditEntry(l *domain.AuditLog) auditEntry {
	st := l.State()
	e := auditEntry{
		ID:         st.ID,
		EntityName: st.EntityName,
		EntityID:   st.EntityID,
		Action:     st.Action,
		UserID:     st.UserID,
		UserEmail:  st.UserEmail,
		IPAddress:  st.IPAddress,
		CreatedAt:  st.CreatedAt,
	}
	if st.Changes != "" && json.Valid([]byte(st.Changes)) {
		e.Changes = json.RawMessage(st.Changes)
	}
	return e
}
