package app

import (
	"context"
	"sync"
	"time"

	"marketplace_service/internal/card/domain"
	"marketplace_service/pkg/cache"

	"github.com/stretchr/testify/mock"
)

// MockCardRepository Mock CardRepository
type MockCardRepository struct {
	mock.Mock
}

// Insert mock insert card
func (m *MockCardRepository) Insert(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// FindByID mock find card by id
func (m *MockCardRepository) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

// Find mock list cards by query
func (m *MockCardRepository) Find(ctx context.Context, query domain.CardQuery) ([]domain.Card, error) {
	args := m.Called(ctx, query)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindFeatured mock list featured cards
func (m *MockCardRepository) FindFeatured(ctx context.Context) ([]domain.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

// Update mock update card
func (m *MockCardRepository) Update(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// Delete mock delete card
func (m *MockCardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordBus InvalidationBus fake recording published mutations
type recordBus struct {
	mu        sync.Mutex
	mutations []domain.CardMutation
}

func (b *recordBus) Publish(ctx context.Context, mutation domain.CardMutation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mutations = append(b.mutations, mutation)
	return nil
}

func (b *recordBus) published() []domain.CardMutation {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.CardMutation, len(b.mutations))
	copy(out, b.mutations)
	return out
}

// storeFake in-memory cache.Store for the package tests
type storeFake struct {
	mu      sync.Mutex
	entries map[string]storeEntry
}

type storeEntry struct {
	data      []byte
	expiresAt time.Time
}

func newStoreFake() *storeFake {
	return &storeFake{entries: map[string]storeEntry{}}
}

func (s *storeFake) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, cache.ErrCacheMiss
	}
	return e.data, nil
}

func (s *storeFake) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = storeEntry{data: value, expiresAt: expiresAt}
	return nil
}

func (s *storeFake) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
