package cache

import (
	"context"
	"time"

	"github.com/pharma/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// IdempotencyStore deduplicates checkout requests by Idempotency-Key.
// A key is first claimed as pending, then bound to the transaction it
// produced; replays within the TTL see the recorded transaction instead
// of committing a second sale.
type IdempotencyStore interface {
	// MarkPending atomically claims the key with a TTL.
	// Returns false if the key was already claimed.
	MarkPending(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// StoreResult binds the claimed key to the committed transaction ID.
	StoreResult(ctx context.Context, key string, transactionID int64, ttl time.Duration) error
	// Result returns the transaction ID recorded for the key, if any.
	Result(ctx context.Context, key string) (int64, bool, error)
	// Release frees a claimed key after a failed commit so the client
	// can retry.
	Release(ctx context.Context, key string) error
	// Close releases background resources held by the store.
	Close() error
}

// NewIdempotencyStore builds the store selected by configuration
func NewIdempotencyStore(cfg *config.Config) IdempotencyStore {
	if cfg.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisIdempotencyStore(client)
	}
	return NewInMemoryIdempotencyStore()
}
