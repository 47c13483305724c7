package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"msuhthegreat/pricefinder/internal/product"
)

// RedisStore keeps the two generations under a key prefix, current in
// <prefix>:current and the baseline in <prefix>:previous. Rotation is a
// server-side RENAME, so the promotion is atomic.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store
func NewRedisStore(addr string, db int, prefix string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if prefix == "" {
		prefix = "pricefinder:snapshot"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) currentKey() string {
	return r.prefix + ":current"
}

func (r *RedisStore) previousKey() string {
	return r.prefix + ":previous"
}

// LoadPrevious reads the baseline snapshot; a missing key is the first-run
// state and yields an empty snapshot.
func (r *RedisStore) LoadPrevious(ctx context.Context) (product.Snapshot, error) {
	raw, err := r.client.Get(ctx, r.previousKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return product.Snapshot{}, nil
	}
	if err != nil {
		return product.Snapshot{}, fmt.Errorf("read baseline snapshot: %w", err)
	}

	var snap product.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return product.Snapshot{}, fmt.Errorf("parse baseline snapshot: %w", err)
	}
	return snap, nil
}

// PersistCurrent writes the snapshot to the current key with no expiry.
func (r *RedisStore) PersistCurrent(ctx context.Context, snap product.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.currentKey(), raw, 0).Err(); err != nil {
		return fmt.Errorf("write current snapshot: %w", err)
	}
	return nil
}

// Rotate renames the current key onto the baseline key.
func (r *RedisStore) Rotate(ctx context.Context) error {
	if err := r.client.Rename(ctx, r.currentKey(), r.previousKey()).Err(); err != nil {
		return fmt.Errorf("promote current snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
