package middleware

import (
	"context"
	"fmt"
	"time"

	"ledgerpay/internal/repositories/cache"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	maxIdempotencyKeyLength = 128
	idempotencyLockTTL      = 30 * time.Second
)

// IdempotencyStore is the storage the middleware replays responses from.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*cache.CachedResponse, error)
	Save(ctx context.Context, key string, resp cache.CachedResponse, ttl time.Duration) error
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency replays the stored response of a request retried with the same
// Idempotency-Key header. Keys are scoped to the authenticated user. Store
// failures let the request through; 5xx responses are not stored so the
// client may retry them.
func Idempotency(store IdempotencyStore, ttl time.Duration, log zerolog.Logger) fiber.Handler {
	log = log.With().Str("component", "idempotency").Logger()
	return func(c *fiber.Ctx) error {
		header := c.Get(HeaderIdempotencyKey)
		if header == "" {
			return c.Next()
		}
		if len(header) > maxIdempotencyKeyLength {
			return utils.BadRequest(c, "idempotency key too long")
		}

		key := header
		if claims, err := utils.GetUserClaims(c); err == nil {
			key = fmt.Sprintf("%d:%s", claims.UserID, header)
		}
		ctx := c.UserContext()

		cached, err := store.Get(ctx, key)
		if err != nil {
			log.Error().Err(err).Msg("idempotency lookup failed")
			return c.Next()
		}
		if cached != nil {
			log.Info().Str("key", header).Msg("idempotency cache hit")
			return replay(c, cached)
		}

		locked, err := store.Acquire(ctx, key, idempotencyLockTTL)
		if err != nil {
			log.Error().Err(err).Msg("idempotency lock failed")
			return c.Next()
		}
		if !locked {
			return utils.Fail(c, fiber.StatusConflict, "REQUEST_IN_PROGRESS", "", "a request with this idempotency key is in progress")
		}
		defer func() {
			if err := store.Release(context.Background(), key); err != nil {
				log.Warn().Err(err).Msg("idempotency unlock failed")
			}
		}()

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			return nil
		}
		resp := cache.CachedResponse{
			StatusCode:  status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Save(ctx, key, resp, ttl); err != nil {
			log.Error().Err(err).Msg("idempotency save failed")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, cached *cache.CachedResponse) error {
	c.Set(HeaderIdempotencyHit, "true")
	if cached.ContentType != "" {
		c.Set(fiber.HeaderContentType, cached.ContentType)
	}
	return c.Status(cached.StatusCode).Send(cached.Body)
}
