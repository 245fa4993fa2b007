package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	errprocess "marketplace_service/pkg/err"
)

// ErrCacheMiss returned by a Store when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Store is the key-value contract the cache runs on. TTL enforcement
// belongs to the store; ttl 0 keeps the entry until an explicit delete.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ReadThrough caches derived query results keyed by query signature.
//
// Concurrent misses on the same key are NOT deduplicated: each caller
// runs computeFn and the last Put wins. That thundering herd is accepted
// behaviour, not a bug.
type ReadThrough[T any] struct {
	store Store
}

// NewReadThrough create a read-through cache over the given store
func NewReadThrough[T any](store Store) *ReadThrough[T] {
	return &ReadThrough[T]{store: store}
}

// GetOrCompute return the cached value when fresh, otherwise run
// computeFn, store the result with ttl and return it. Store errors are
// logged and treated as a miss; a failed Put never fails the read.
func (c *ReadThrough[T]) GetOrCompute(ctx context.Context, key string, ttl time.Duration, computeFn func(ctx context.Context) (T, error)) (T, error) {
	data, err := c.store.Get(ctx, key)
	if err == nil {
		var cached T
		decodeErr := json.Unmarshal(data, &cached)
		if decodeErr == nil {
			return cached, nil
		}
		// corrupt entry counts as a miss, drop it
		errprocess.Cache("decode "+key, decodeErr)
		_ = c.store.Del(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		errprocess.Cache("get "+key, err)
	}

	value, err := computeFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Put(ctx, key, value, ttl); err != nil {
		errprocess.Cache("put "+key, err)
	}

	return value, nil
}

// Put unconditional overwrite, used after a mutation that already knows
// the new value
func (c *ReadThrough[T]) Put(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	return c.store.Set(ctx, key, data, ttl)
}

// Invalidate remove the entry immediately regardless of TTL
func (c *ReadThrough[T]) Invalidate(ctx context.Context, key string) error {
	return c.store.Del(ctx, key)
}
