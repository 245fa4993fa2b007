package app

import (
	"context"
	"errors"
	"testing"

	"marketplace_service/internal/chat/domain"
	"marketplace_service/internal/chat/repository"
	errprocess "marketplace_service/pkg/err"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestUseCase(convRepo *MockConversationRepository, msgRepo *MockMessageRepository, bridge *MockEventBridge) (*ConversationUseCase, *ConnRegistry) {
	registry := NewConnRegistry()
	var b repository.EventBridge
	if bridge != nil {
		b = bridge
	}
	uc := NewConversationUseCase(convRepo, msgRepo, NewFanout(registry), b, "instance-a")
	return uc, registry
}

func TestConversationUseCase_PostMessage(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000001"
	senderID := uuid.New().String()

	convRepo := new(MockConversationRepository)
	msgRepo := new(MockMessageRepository)
	bridge := new(MockEventBridge)

	conv := &domain.Conversation{ID: convID, Participant1: senderID, Participant2: "other"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)
	msgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	convRepo.On("UpdateSummary", ctx, convID, "hello", mock.Anything).Return(nil)
	bridge.On("Publish", repository.ConversationChannel(convID), mock.Anything).Return(nil)

	uc, registry := newTestUseCase(convRepo, msgRepo, bridge)
	subscriber := &recordConn{}
	registry.Subscribe(convID, subscriber)

	msg, err := uc.PostMessage(ctx, convID, senderID, "hello")

	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.CreatedAt)
	assert.Equal(t, "hello", msg.Text)

	got := subscriber.received()
	assert.Len(t, got, 1)
	assert.Equal(t, convID, got[0].ConversationID)
	assert.Equal(t, "hello", got[0].Message.Text)
	assert.Equal(t, "instance-a", got[0].Origin)

	convRepo.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
	bridge.AssertExpectations(t)
}

func TestConversationUseCase_PostMessage_NoSubscribers(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000002"

	convRepo := new(MockConversationRepository)
	msgRepo := new(MockMessageRepository)
	bridge := new(MockEventBridge)

	conv := &domain.Conversation{ID: convID, Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)
	msgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	convRepo.On("UpdateSummary", ctx, convID, "hi", mock.Anything).Return(nil)
	bridge.On("Publish", repository.ConversationChannel(convID), mock.Anything).Return(nil)

	uc, _ := newTestUseCase(convRepo, msgRepo, bridge)
	msg, err := uc.PostMessage(ctx, convID, "userA", "hi")

	assert.NoError(t, err, "posting into an empty room must still succeed")
	assert.NotZero(t, msg.CreatedAt)
}

func TestConversationUseCase_PostMessage_NotFound(t *testing.T) {
	ctx := context.Background()
	convRepo := new(MockConversationRepository)
	convRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	uc, _ := newTestUseCase(convRepo, new(MockMessageRepository), nil)
	_, err := uc.PostMessage(ctx, "missing", "userA", "hi")

	assert.ErrorIs(t, err, errprocess.ErrNotFound)
}

func TestConversationUseCase_PostMessage_Forbidden(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000003"

	convRepo := new(MockConversationRepository)
	conv := &domain.Conversation{ID: convID, Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)

	uc, _ := newTestUseCase(convRepo, new(MockMessageRepository), nil)
	_, err := uc.PostMessage(ctx, convID, "intruder", "hi")

	assert.ErrorIs(t, err, errprocess.ErrForbidden)
}

func TestConversationUseCase_PostMessage_InsertFailureAbortsBeforePublish(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000004"

	convRepo := new(MockConversationRepository)
	msgRepo := new(MockMessageRepository)
	bridge := new(MockEventBridge)

	conv := &domain.Conversation{ID: convID, Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)
	msgRepo.On("Insert", ctx, mock.Anything).Return(errors.New("write concern failed"))

	uc, registry := newTestUseCase(convRepo, msgRepo, bridge)
	subscriber := &recordConn{}
	registry.Subscribe(convID, subscriber)

	_, err := uc.PostMessage(ctx, convID, "userA", "hi")

	assert.Error(t, err)
	assert.Empty(t, subscriber.received(), "nothing may be published before persistence succeeds")
	bridge.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	convRepo.AssertNotCalled(t, "UpdateSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConversationUseCase_PostMessage_StaleSummaryStillDelivers(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000005"

	convRepo := new(MockConversationRepository)
	msgRepo := new(MockMessageRepository)
	bridge := new(MockEventBridge)

	conv := &domain.Conversation{ID: convID, Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)
	msgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	convRepo.On("UpdateSummary", ctx, convID, "hi", mock.Anything).Return(errors.New("summary write failed"))
	bridge.On("Publish", repository.ConversationChannel(convID), mock.Anything).Return(nil)

	uc, registry := newTestUseCase(convRepo, msgRepo, bridge)
	subscriber := &recordConn{}
	registry.Subscribe(convID, subscriber)

	msg, err := uc.PostMessage(ctx, convID, "userA", "hi")

	assert.NoError(t, err, "a stale summary is recoverable, the persisted message wins")
	assert.NotNil(t, msg)
	assert.Len(t, subscriber.received(), 1)
	bridge.AssertExpectations(t)
}

func TestConversationUseCase_StartConversation_ReturnsExistingPair(t *testing.T) {
	ctx := context.Background()
	convRepo := new(MockConversationRepository)

	existing := &domain.Conversation{ID: "c1", Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByParticipants", ctx, "userB", "userA").Return(existing, nil)

	uc, _ := newTestUseCase(convRepo, new(MockMessageRepository), nil)
	conv, err := uc.StartConversation(ctx, "userB", "userA")

	assert.NoError(t, err)
	assert.Equal(t, existing, conv)
	convRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestConversationUseCase_StartConversation_CreatesNewPair(t *testing.T) {
	ctx := context.Background()
	convRepo := new(MockConversationRepository)

	convRepo.On("FindByParticipants", ctx, "userA", "userB").Return(nil, nil)
	convRepo.On("Insert", ctx, mock.Anything).Return(nil)

	uc, _ := newTestUseCase(convRepo, new(MockMessageRepository), nil)
	conv, err := uc.StartConversation(ctx, "userA", "userB")

	assert.NoError(t, err)
	assert.Equal(t, "userA", conv.Participant1)
	assert.Equal(t, "userB", conv.Participant2)
	assert.NotZero(t, conv.CreatedAt)
}

func TestConversationUseCase_Subscribe_BridgeDropsOwnEvents(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000006"

	convRepo := new(MockConversationRepository)
	bridge := new(MockEventBridge)

	conv := &domain.Conversation{ID: convID, Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)

	var relay func(event domain.ChatEvent)
	bridge.On("Subscribe", mock.Anything, repository.ConversationChannel(convID), mock.Anything).
		Run(func(args mock.Arguments) {
			relay = args.Get(2).(func(event domain.ChatEvent))
		}).
		Return(nil)

	uc, _ := newTestUseCase(convRepo, new(MockMessageRepository), bridge)
	conn := &recordConn{}
	sub, stop, err := uc.Subscribe(ctx, convID, "userA", conn)
	assert.NoError(t, err)
	defer func() {
		sub.Close()
		stop()
	}()

	// own-origin events already arrived through the local fanout
	relay(domain.ChatEvent{ConversationID: convID, Origin: "instance-a", Message: domain.Message{Text: "local"}})
	assert.Empty(t, conn.received())

	relay(domain.ChatEvent{ConversationID: convID, Origin: "instance-b", Message: domain.Message{Text: "remote"}})
	got := conn.received()
	assert.Len(t, got, 1)
	assert.Equal(t, "remote", got[0].Message.Text)
}

func TestConversationUseCase_GetMessages_ChecksParticipant(t *testing.T) {
	ctx := context.Background()
	convID := "65f000000000000000000007"

	convRepo := new(MockConversationRepository)
	msgRepo := new(MockMessageRepository)

	conv := &domain.Conversation{ID: convID, Participant1: "userA", Participant2: "userB"}
	convRepo.On("FindByID", ctx, convID).Return(conv, nil)
	msgRepo.On("FindByConversation", ctx, convID).Return([]domain.Message{{ID: "m1", Text: "hi"}}, nil)

	uc, _ := newTestUseCase(convRepo, msgRepo, nil)

	msgs, err := uc.GetMessages(ctx, convID, "userA")
	assert.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = uc.GetMessages(ctx, convID, "stranger")
	assert.ErrorIs(t, err, errprocess.ErrForbidden)
}
