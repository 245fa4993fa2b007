package app

import (
	"context"
	"time"

	"marketplace_service/internal/user/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// CreateUser mock create user
func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// UpdateUserStatus mock update user status
func (m *MockUserRepository) UpdateUserStatus(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// FindByUser mock find user by query
func (m *MockUserRepository) FindByUser(ctx context.Context, query *domain.UserQuery) (*domain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionRepository Mock RedisRepository[domain.UserSession]
type MockSessionRepository struct {
	mock.Mock
}

// Set mock set session
func (m *MockSessionRepository) Set(ctx context.Context, key string, value domain.UserSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get mock get session
func (m *MockSessionRepository) Get(ctx context.Context, key string) (domain.UserSession, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.UserSession), args.Error(1)
}

// Del mock delete session
func (m *MockSessionRepository) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// GetTTL mock session ttl
func (m *MockSessionRepository) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

// ExtendTTL mock extend session ttl
func (m *MockSessionRepository) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}
