package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// memStore in-memory Store used by the package tests. TTL handling
// mirrors the redis behaviour: ttl 0 never expires.
type memStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	failGet bool
	failSet bool
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]memEntry{}}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return nil, errors.New("store down")
	}
	e, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, ErrCacheMiss
	}
	return e.data, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return errors.New("store down")
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = memEntry{data: value, expiresAt: expiresAt}
	return nil
}

func (s *memStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
