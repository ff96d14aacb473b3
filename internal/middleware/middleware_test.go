package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/config"
	"ledgerpay/internal/domain"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories/cache"
	"ledgerpay/internal/repositories/memory"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/services/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	uow  *memory.UnitOfWork
	auth auth.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	uow := memory.New()
	issuer := auth.NewTokenIssuer(config.JWTConfig{
		Secret: "middleware-secret", Issuer: "ledgerpay-test",
		AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})
	accounts := user.NewService(uow, bcrypt.MinCost, zerolog.Nop())
	return &authFixture{uow: uow, auth: auth.NewService(uow.Users(), accounts, issuer, zerolog.Nop())}
}

func (f *authFixture) login(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := domain.NewUser(email, string(hash), "Test", "User", "", role)
	require.NoError(t, err)
	f.uow.SeedUser(u)

	res, err := f.auth.Login(context.Background(), email, "Passw0rd!")
	require.NoError(t, err)
	return res.Tokens.AccessToken
}

func TestAuthMiddleware(t *testing.T) {
	f := newAuthFixture(t)
	token := f.login(t, "user@ledger.io", domain.RoleUser)
	adminToken := f.login(t, "admin@ledger.io", domain.RoleAdmin)
	mw := NewAuthMiddleware(f.auth, f.uow.Users(), zerolog.Nop())

	app := fiber.New()
	app.Get("/me", mw.Handler, func(c *fiber.Ctx) error {
		actor := audit.ActorFromContext(c.UserContext())
		return c.JSON(fiber.Map{"email": actor.Email, "user_id": *actor.UserID, "ip": actor.IPAddress})
	})
	app.Get("/settle", mw.Handler, HasPermission(models.PermissionTransactionSettle), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/admin", mw.Handler, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "no header", path: "/me", want: fiber.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", want: fiber.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer " + token, want: fiber.StatusOK},
		{name: "missing permission", path: "/settle", header: "Bearer " + token, want: fiber.StatusForbidden},
		{name: "admin has every permission", path: "/settle", header: "Bearer " + adminToken, want: fiber.StatusNoContent},
		{name: "user is not admin", path: "/admin", header: "Bearer " + token, want: fiber.StatusForbidden},
		{name: "admin route", path: "/admin", header: "Bearer " + adminToken, want: fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.want == fiber.StatusOK {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "user@ledger.io", body["email"])
				assert.NotEmpty(t, body["ip"])
			}
		})
	}
}

func newIdempotencyApp(t *testing.T) (*fiber.App, *miniredis.Miniredis, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	var calls int32
	app := fiber.New()
	app.Use(Idempotency(cache.NewIdempotencyStore(client), time.Hour, zerolog.Nop()))
	app.Post("/deposit", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})
	app.Post("/broken", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "boom"})
	})
	return app, mr, &calls
}

func post(t *testing.T, app *fiber.App, path, key string) (*httptestResponse, error) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	return &httptestResponse{status: resp.StatusCode, hit: resp.Header.Get(HeaderIdempotencyHit), body: string(body)}, err
}

type httptestResponse struct {
	status int
	hit    string
	body   string
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	app, _, calls := newIdempotencyApp(t)

	first, err := post(t, app, "/deposit", "abc-123")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, first.status)
	assert.Empty(t, first.hit)

	second, err := post(t, app, "/deposit", "abc-123")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, second.status)
	assert.Equal(t, "true", second.hit)
	assert.Equal(t, first.body, second.body)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	_, err = post(t, app, "/deposit", "")
	require.NoError(t, err)
	_, err = post(t, app, "/deposit", "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
}

func TestIdempotency_DoesNotStoreServerErrors(t *testing.T) {
	app, _, calls := newIdempotencyApp(t)

	for i := 0; i < 2; i++ {
		resp, err := post(t, app, "/broken", "retry-me")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.status)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestIdempotency_RejectsConcurrentDuplicate(t *testing.T) {
	app, mr, calls := newIdempotencyApp(t)
	require.NoError(t, mr.Set("idempotency:lock:busy", "1"))

	resp, err := post(t, app, "/deposit", "busy")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.status)
	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestIdempotency_FailsOpenWhenStoreIsDown(t *testing.T) {
	app, mr, calls := newIdempotencyApp(t)
	mr.Close()

	resp, err := post(t, app, "/deposit", "abc")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.status)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}
