package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedResponse is the stored outcome of a request made with an
// Idempotency-Key header.
type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore keeps responses and in-flight locks per idempotency key.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func responseKey(key string) string { return "idempotency:" + key }
func lockKey(key string) string     { return "idempotency:lock:" + key }

// Get returns the stored response, or nil when the key has not completed yet.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, error) {
	val, err := s.client.Get(ctx, responseKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	var resp CachedResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return &resp, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	return s.client.Set(ctx, responseKey(key), data, ttl).Err()
}

// Acquire takes the in-flight lock for key. It reports false when another
// request with the same key is still running.
func (s *IdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock idempotency key: %w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, lockKey(key)).Err()
}
