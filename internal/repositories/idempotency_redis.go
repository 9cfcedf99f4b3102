package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyTTL = 24 * time.Hour

// RedisIdempotencyStore records processor event ids so at-least-once
// webhook deliveries are handled exactly once.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore creates a new RedisIdempotencyStore.
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

// SetIfAbsent claims a key, returning false if it was already claimed.
func (s *RedisIdempotencyStore) SetIfAbsent(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set idempotency key %s: %w", key, err)
	}
	return ok, nil
}

// Release drops a claim so the next delivery of the same key is treated as
// fresh.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key %s: %w", key, err)
	}
	return nil
}
