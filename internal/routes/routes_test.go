package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ledgerpay/internal/config"
	"ledgerpay/internal/domain"
	"ledgerpay/internal/handlers"
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/repositories/cache"
	"ledgerpay/internal/repositories/memory"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/services/transaction"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/services/user"
	"ledgerpay/internal/services/wallet"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	app *fiber.App
	uow *memory.UnitOfWork
}

func newTestAPI(t *testing.T, idempotency middleware.IdempotencyStore) *testAPI {
	t.Helper()
	log := zerolog.Nop()
	uow := memory.New()
	issuer := auth.NewTokenIssuer(config.JWTConfig{
		Secret: "routes-secret", Issuer: "ledgerpay-test",
		AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})
	users := user.NewService(uow, bcrypt.MinCost, log)
	wallets := wallet.NewService(uow, nil, log, wallet.Config{})
	registry := prometheus.NewRegistry()
	metrics := transfer.NewPrometheusMetricsCollector(registry)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	SetupRoutes(app, Dependencies{
		Auth:           auth.NewService(uow.Users(), users, issuer, log),
		Users:          users,
		UserRepo:       uow.Users(),
		Wallets:        wallets,
		Transfers:      transfer.NewService(uow, domain.NewReferenceGenerator(), nil, metrics, log, transfer.Config{}),
		Transactions:   transaction.NewService(uow, log),
		Idempotency:    idempotency,
		IdempotencyTTL: time.Hour,
		Health: handlers.NewHealthHandler("test", map[string]handlers.Check{
			"store": func(context.Context) error { return nil },
		}),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Log:     log,
	})
	return &testAPI{app: app, uow: uow}
}

type response struct {
	status int
	header map[string]string
	body   []byte
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), string(r.body))
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any, headers ...string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{
		status: resp.StatusCode,
		header: map[string]string{middleware.HeaderIdempotencyHit: resp.Header.Get(middleware.HeaderIdempotencyHit)},
		body:   raw,
	}
}

// signUp registers and logs in a regular user.
func (a *testAPI) signUp(t *testing.T, email string) (uint, string) {
	t.Helper()
	resp := a.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": email, "password": "Passw0rd!x", "first_name": "Test", "last_name": "User",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	var created user.View
	resp.decode(t, &created)
	return created.ID, a.login(t, email, "Passw0rd!x")
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := a.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var res auth.LoginResult
	resp.decode(t, &res)
	return res.Tokens.AccessToken
}

func (a *testAPI) admin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Adm1n!pass"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := domain.NewUser("admin@ledger.io", string(hash), "Root", "Admin", "", domain.RoleAdmin)
	require.NoError(t, err)
	a.uow.SeedUser(u)
	return a.login(t, "admin@ledger.io", "Adm1n!pass")
}

func (a *testAPI) openWallet(t *testing.T, token string) uint {
	t.Helper()
	resp := a.do(t, fiber.MethodPost, "/api/wallets", token, fiber.Map{"name": "Main", "currency": "TRY"})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	var view wallet.View
	resp.decode(t, &view)
	return view.ID
}

func errorCode(t *testing.T, r response) string {
	t.Helper()
	var body struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	r.decode(t, &body)
	return body.Code
}

func TestAPI_MoneyMovementFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	_, alice := api.signUp(t, "alice@ledger.io")
	bobID, bob := api.signUp(t, "bob@ledger.io")
	a := api.openWallet(t, alice)
	b := api.openWallet(t, bob)

	resp := api.do(t, fiber.MethodPost, "/api/transactions/deposit", alice, fiber.Map{
		"to_wallet_id": a, "amount": "1000", "currency": "TRY", "description": "salary",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	var deposit transfer.Result
	resp.decode(t, &deposit)
	assert.Equal(t, domain.TransactionStatusCompleted, deposit.Status)
	assert.Equal(t, "1000.00", deposit.ToWalletBalance)

	resp = api.do(t, fiber.MethodPost, "/api/transactions/deposit", bob, fiber.Map{
		"to_wallet_id": a, "amount": "5", "currency": "TRY",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.status)

	resp = api.do(t, fiber.MethodPost, "/api/transactions/internal-transfer", alice, fiber.Map{
		"from_wallet_id": a, "to_wallet_id": b, "amount": "250", "currency": "TRY",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	var moved transfer.Result
	resp.decode(t, &moved)
	assert.Equal(t, "750.00", moved.FromWalletBalance)
	assert.Empty(t, moved.ToWalletBalance)

	resp = api.do(t, fiber.MethodPost, "/api/transactions/withdraw", alice, fiber.Map{
		"from_wallet_id": a, "amount": "2000", "currency": "TRY", "account_number": "12345678", "bank_name": "Ziraat",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, "INSUFFICIENT_BALANCE", errorCode(t, resp))

	resp = api.do(t, fiber.MethodPost, "/api/transactions/withdraw", alice, fiber.Map{
		"from_wallet_id": a, "amount": "100", "currency": "TRY", "account_number": "12345678", "bank_name": "Ziraat",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	var withdrawal transfer.Result
	resp.decode(t, &withdrawal)
	assert.Equal(t, domain.TransactionStatusPending, withdrawal.Status)
	assert.Equal(t, "650.00", withdrawal.FromWalletBalance)

	// The debit already left for the bank; only operations may reverse it.
	cancelPath := fmt.Sprintf("/api/transactions/%d/cancel", withdrawal.ID)
	resp = api.do(t, fiber.MethodPost, cancelPath, bob, fiber.Map{"reason": "nope"})
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	resp = api.do(t, fiber.MethodPost, cancelPath, alice, fiber.Map{"reason": "changed my mind"})
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	resp = api.do(t, fiber.MethodGet, fmt.Sprintf("/api/wallets/%d", a), alice, nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	var aliceWallet wallet.View
	resp.decode(t, &aliceWallet)
	assert.Equal(t, "650.00", aliceWallet.Balance)

	resp = api.do(t, fiber.MethodPost, cancelPath, api.admin(t), fiber.Map{"reason": "bank returned funds"})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var cancelled transfer.Result
	resp.decode(t, &cancelled)
	assert.Equal(t, domain.TransactionStatusCancelled, cancelled.Status)
	assert.Equal(t, "750.00", cancelled.FromWalletBalance)

	resp = api.do(t, fiber.MethodGet, fmt.Sprintf("/api/transactions/history/%d?limit=2", a), alice, nil)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var history struct {
		Data       []transfer.Result `json:"data"`
		Pagination struct {
			Total    int64 `json:"total"`
			LastPage int   `json:"last_page"`
		} `json:"pagination"`
	}
	resp.decode(t, &history)
	assert.EqualValues(t, 3, history.Pagination.Total)
	assert.Equal(t, 2, history.Pagination.LastPage)
	require.Len(t, history.Data, 2)
	assert.Equal(t, withdrawal.ID, history.Data[0].ID)

	resp = api.do(t, fiber.MethodGet, "/api/transactions/reference/"+deposit.ReferenceNumber, alice, nil)
	assert.Equal(t, fiber.StatusOK, resp.status)
	resp = api.do(t, fiber.MethodGet, "/api/transactions/reference/"+deposit.ReferenceNumber, bob, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
	resp = api.do(t, fiber.MethodGet, "/api/transactions/reference/"+moved.ReferenceNumber, bob, nil)
	assert.Equal(t, fiber.StatusOK, resp.status)

	resp = api.do(t, fiber.MethodGet, fmt.Sprintf("/api/wallets/user/%d", bobID), alice, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	resp = api.do(t, fiber.MethodGet, fmt.Sprintf("/api/wallets/%d", b), bob, nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	var bobWallet wallet.View
	resp.decode(t, &bobWallet)
	assert.Equal(t, "250.00", bobWallet.Balance)
}

func TestAPI_Settlement(t *testing.T) {
	api := newTestAPI(t, nil)
	_, alice := api.signUp(t, "alice@ledger.io")
	root := api.admin(t)
	a := api.openWallet(t, alice)

	resp := api.do(t, fiber.MethodPost, "/api/transactions/deposit", alice, fiber.Map{"to_wallet_id": a, "amount": "300", "currency": "TRY"})
	require.Equal(t, fiber.StatusCreated, resp.status)
	resp = api.do(t, fiber.MethodPost, "/api/transactions/external-transfer", alice, fiber.Map{
		"from_wallet_id": a, "amount": "120.5", "currency": "TRY", "account_number": "TR330006100519786457841326", "bank_name": "Garanti",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	var pending transfer.Result
	resp.decode(t, &pending)

	path := fmt.Sprintf("/api/transactions/%d/settle", pending.ID)
	resp = api.do(t, fiber.MethodPost, path, alice, fiber.Map{"success": true})
	assert.Equal(t, fiber.StatusForbidden, resp.status)

	resp = api.do(t, fiber.MethodPost, fmt.Sprintf("/api/transactions/%d/cancel", pending.ID), alice, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	st, ok := api.uow.WalletState(a)
	require.True(t, ok)
	assert.Equal(t, "179.50", st.Balance.StringFixed(2))

	resp = api.do(t, fiber.MethodPost, path, root, fiber.Map{"success": false})
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = api.do(t, fiber.MethodPost, path, root, fiber.Map{"success": true})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var settled transfer.Result
	resp.decode(t, &settled)
	assert.Equal(t, domain.TransactionStatusCompleted, settled.Status)
	assert.NotNil(t, settled.ProcessedAt)

	resp = api.do(t, fiber.MethodPost, path, root, fiber.Map{"success": true})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", errorCode(t, resp))

	resp = api.do(t, fiber.MethodGet, fmt.Sprintf("/api/transactions/%d/audit", pending.ID), alice, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	resp = api.do(t, fiber.MethodGet, fmt.Sprintf("/api/transactions/%d/audit", pending.ID), root, nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	var trail struct {
		AuditLogs []struct {
			Action    string `json:"action"`
			UserEmail string `json:"user_email"`
		} `json:"audit_logs"`
	}
	resp.decode(t, &trail)
	require.Len(t, trail.AuditLogs, 2)
	assert.Equal(t, "Created", trail.AuditLogs[0].Action)
	assert.Equal(t, "alice@ledger.io", trail.AuditLogs[0].UserEmail)
	assert.Equal(t, "admin@ledger.io", trail.AuditLogs[1].UserEmail)
}

func TestAPI_RejectsInvalidRequests(t *testing.T) {
	api := newTestAPI(t, nil)
	_, alice := api.signUp(t, "alice@ledger.io")
	a := api.openWallet(t, alice)

	tests := []struct {
		name      string
		path      string
		body      fiber.Map
		wantField string
	}{
		{name: "zero amount", path: "/api/transactions/deposit", body: fiber.Map{"to_wallet_id": a, "amount": "0", "currency": "TRY"}, wantField: "amount"},
		{name: "over the limit", path: "/api/transactions/deposit", body: fiber.Map{"to_wallet_id": a, "amount": "1000000.01", "currency": "TRY"}, wantField: "amount"},
		{name: "unknown currency", path: "/api/transactions/deposit", body: fiber.Map{"to_wallet_id": a, "amount": "1", "currency": "JPY"}, wantField: "currency"},
		{name: "self transfer", path: "/api/transactions/internal-transfer", body: fiber.Map{"from_wallet_id": a, "to_wallet_id": a, "amount": "1", "currency": "TRY"}, wantField: "to_wallet_id"},
		{name: "missing bank", path: "/api/transactions/withdraw", body: fiber.Map{"from_wallet_id": a, "amount": "1", "currency": "TRY", "account_number": "1"}, wantField: "bank_name"},
		{name: "wallet name too long", path: "/api/wallets", body: fiber.Map{"name": string(bytes.Repeat([]byte("n"), 101)), "currency": "TRY"}, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.do(t, fiber.MethodPost, tt.path, alice, tt.body)
			require.Equal(t, fiber.StatusBadRequest, resp.status, string(resp.body))
			var body struct {
				Code  string `json:"code"`
				Field string `json:"field"`
			}
			resp.decode(t, &body)
			assert.Equal(t, "INVALID_ARGUMENT", body.Code)
			assert.Equal(t, tt.wantField, body.Field)
		})
	}

	assert.Equal(t, 0, api.uow.TransactionCount())

	resp := api.do(t, fiber.MethodPost, "/api/transactions/deposit", "", fiber.Map{})
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
	resp = api.do(t, fiber.MethodGet, "/api/wallets/abc", alice, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestAPI_AuthEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	api.signUp(t, "alice@ledger.io")

	resp := api.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "alice@ledger.io", "password": "Passw0rd!x", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, fiber.StatusConflict, resp.status)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, resp))

	resp = api.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "alice@ledger.io", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)

	resp = api.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "alice@ledger.io", "password": "Passw0rd!x"})
	require.Equal(t, fiber.StatusOK, resp.status)
	var login auth.LoginResult
	resp.decode(t, &login)

	resp = api.do(t, fiber.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": login.Tokens.RefreshToken})
	require.Equal(t, fiber.StatusOK, resp.status)

	resp = api.do(t, fiber.MethodGet, "/api/users/me", login.Tokens.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	var me user.View
	resp.decode(t, &me)
	assert.Equal(t, "alice@ledger.io", me.Email)

	resp = api.do(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.status)
}

func TestAPI_IdempotentDeposit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	api := newTestAPI(t, cache.NewIdempotencyStore(client))
	_, alice := api.signUp(t, "alice@ledger.io")
	a := api.openWallet(t, alice)
	body := fiber.Map{"to_wallet_id": a, "amount": "40", "currency": "TRY"}

	first := api.do(t, fiber.MethodPost, "/api/transactions/deposit", alice, body, middleware.HeaderIdempotencyKey, "dep-1")
	require.Equal(t, fiber.StatusCreated, first.status)
	second := api.do(t, fiber.MethodPost, "/api/transactions/deposit", alice, body, middleware.HeaderIdempotencyKey, "dep-1")
	require.Equal(t, fiber.StatusCreated, second.status)
	assert.Equal(t, "true", second.header[middleware.HeaderIdempotencyHit])
	assert.JSONEq(t, string(first.body), string(second.body))

	assert.Equal(t, 1, api.uow.TransactionCount())
	st, ok := api.uow.WalletState(a)
	require.True(t, ok)
	assert.Equal(t, "40.00", st.Balance.StringFixed(2))
}

func TestAPI_MetricsExposition(t *testing.T) {
	api := newTestAPI(t, nil)
	_, alice := api.signUp(t, "alice@ledger.io")
	a := api.openWallet(t, alice)

	resp := api.do(t, fiber.MethodPost, "/api/transactions/deposit", alice, fiber.Map{
		"to_wallet_id": a, "amount": "40", "currency": "TRY",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	resp = api.do(t, fiber.MethodPost, "/api/transactions/withdraw", alice, fiber.Map{
		"from_wallet_id": a, "amount": "90", "currency": "TRY", "account_number": "12345678", "bank_name": "Ziraat",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.status)

	resp = api.do(t, fiber.MethodGet, "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	body := string(resp.body)
	assert.Contains(t, body, `ledger_operations_total{operation="deposit",result="success"} 1`)
	assert.Contains(t, body, `ledger_operation_errors_total{code="INSUFFICIENT_BALANCE",operation="withdraw"} 1`)
	assert.Contains(t, body, `ledger_transaction_volume_total{currency="TRY"} 40`)
	assert.Contains(t, body, "ledger_operation_duration_seconds_bucket")
}
