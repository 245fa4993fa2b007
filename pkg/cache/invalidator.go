package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	errprocess "marketplace_service/pkg/err"
)

// Invalidator applies mutation-triggered rules to cached entries.
// The policy is picked explicitly per call site; there is no automatic
// dependency tracking between keys.
type Invalidator struct {
	store Store
}

// NewInvalidator create an Invalidator over the given store
func NewInvalidator(store Store) *Invalidator {
	return &Invalidator{store: store}
}

// PrependBounded list-prepend-bounded policy, used on create.
// The new item goes to the front of the cached list, the list is cut to
// max entries (oldest dropped from the tail) and rewritten with a fresh
// TTL. A missing or corrupt entry starts a new single-item list.
func (i *Invalidator) PrependBounded(ctx context.Context, listKey string, item any, max int, ttl time.Duration) error {
	encoded, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item for %s: %w", listKey, err)
	}

	var list []json.RawMessage
	data, err := i.store.Get(ctx, listKey)
	if err == nil {
		if err := json.Unmarshal(data, &list); err != nil {
			errprocess.Cache("decode list "+listKey, err)
			list = nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		errprocess.Cache("get list "+listKey, err)
	}

	list = append([]json.RawMessage{encoded}, list...)
	if max > 0 && len(list) > max {
		list = list[:max]
	}

	rewritten, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal list for %s: %w", listKey, err)
	}
	return i.store.Set(ctx, listKey, rewritten, ttl)
}

// DeleteKeys key-delete policy, used on update/delete. Drops the entity
// key and every aggregate list key the caller names, forcing the next
// read to recompute.
func (i *Invalidator) DeleteKeys(ctx context.Context, keys ...string) error {
	var firstErr error
	for _, key := range keys {
		if err := i.store.Del(ctx, key); err != nil {
			errprocess.Cache("del "+key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
