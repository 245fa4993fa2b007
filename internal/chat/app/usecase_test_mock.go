package app

import (
	"context"

	"marketplace_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// Insert mock insert conversation
func (m *MockConversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

// FindByID mock find conversation by id
func (m *MockConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipants mock find conversation by participant pair
func (m *MockConversationRepository) FindByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByUser mock list conversations by user
func (m *MockConversationRepository) FindByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateSummary mock update conversation summary
func (m *MockConversationRepository) UpdateSummary(ctx context.Context, id, lastMessage string, lastMessageAt int64) error {
	args := m.Called(ctx, id, lastMessage, lastMessageAt)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert mock insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByConversation mock list messages
func (m *MockMessageRepository) FindByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventBridge Mock EventBridge
type MockEventBridge struct {
	mock.Mock
}

// Publish mock publish
func (m *MockEventBridge) Publish(channel string, event domain.ChatEvent) error {
	args := m.Called(channel, event)
	return args.Error(0)
}

// Subscribe mock subscribe
func (m *MockEventBridge) Subscribe(ctx context.Context, channel string, handler func(event domain.ChatEvent)) error {
	args := m.Called(ctx, channel, handler)
	return args.Error(0)
}
