package app

import (
	"context"
	"sync"
	"time"

	"marketplace_service/internal/chat/domain"
	"marketplace_service/internal/chat/repository"
	errprocess "marketplace_service/pkg/err"
	"marketplace_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationUseCase orchestrates posting a message: participant
// checks, persistence, summary update, then best-effort delivery to
// local subscribers and the cross-instance bridge. Persistence is the
// durability boundary; delivery never fails the caller.
type ConversationUseCase struct {
	convRepo   repository.ConversationRepository
	msgRepo    repository.MessageRepository
	fanout     *Fanout
	bridge     repository.EventBridge
	instanceID string

	// serializes persist+summary+publish per conversation so a slow
	// earlier write cannot overwrite a later write's summary
	topicLocks sync.Map
}

// NewConversationUseCase create ConversationUseCase
func NewConversationUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	fanout *Fanout,
	bridge repository.EventBridge,
	instanceID string,
) *ConversationUseCase {
	return &ConversationUseCase{
		convRepo:   convRepo,
		msgRepo:    msgRepo,
		fanout:     fanout,
		bridge:     bridge,
		instanceID: instanceID,
	}
}

func (uc *ConversationUseCase) lockTopic(conversationID string) *sync.Mutex {
	mu, _ := uc.topicLocks.LoadOrStore(conversationID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// StartConversation get or create the conversation between two users.
// The participant pair is unique, a repeat call returns the existing
// conversation.
func (uc *ConversationUseCase) StartConversation(ctx context.Context, userID, otherID string) (*domain.Conversation, error) {
	existing, err := uc.convRepo.FindByParticipants(ctx, userID, otherID)
	if err != nil {
		return nil, errprocess.Persistence("find conversation", err)
	}
	if existing != nil {
		return existing, nil
	}

	conv := &domain.Conversation{
		Participant1: userID,
		Participant2: otherID,
		CreatedAt:    time.Now().Unix(),
	}
	if err := uc.convRepo.Insert(ctx, conv); err != nil {
		return nil, errprocess.Persistence("insert conversation", err)
	}
	return conv, nil
}

// GetConversations list the user's conversations, most recent first
func (uc *ConversationUseCase) GetConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	convs, err := uc.convRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errprocess.Persistence("list conversations", err)
	}
	return convs, nil
}

// GetMessages list a conversation's messages for a participant
func (uc *ConversationUseCase) GetMessages(ctx context.Context, conversationID, userID string) ([]domain.Message, error) {
	conv, err := uc.findParticipating(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	msgs, err := uc.msgRepo.FindByConversation(ctx, conv.ID)
	if err != nil {
		return nil, errprocess.Persistence("list messages", err)
	}
	return msgs, nil
}

// PostMessage persist a message and notify subscribers.
//
// Persist and summary update run under a per-conversation lock. A
// summary-update failure after the message persisted leaves a stale
// summary; that inconsistency is logged and the message still returned.
// Fan-out and bridge publish failures never reach the caller.
func (uc *ConversationUseCase) PostMessage(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error) {
	conv, err := uc.findParticipating(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	mu := uc.lockTopic(conv.ID)
	mu.Lock()
	defer mu.Unlock()

	msg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().Unix(),
	}
	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, errprocess.Persistence("insert message", err)
	}

	if err := uc.convRepo.UpdateSummary(ctx, conv.ID, msg.Text, msg.CreatedAt); err != nil {
		logger.Log.Error("conversation summary is stale",
			zap.String("conversation_id", conv.ID),
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
	}

	event := domain.ChatEvent{
		ConversationID: conv.ID,
		Origin:         uc.instanceID,
		Message:        *msg,
	}
	uc.fanout.Publish(conv.ID, event)
	if uc.bridge != nil {
		if err := uc.bridge.Publish(repository.ConversationChannel(conv.ID), event); err != nil {
			errprocess.Delivery(conv.ID, err)
		}
	}

	return msg, nil
}

// Subscribe register conn for a conversation's events after a
// participant check. The second subscription feeds remote-origin
// events from the bridge into the same connection until stop is
// cancelled; locally published events arrive through the fanout only.
func (uc *ConversationUseCase) Subscribe(ctx context.Context, conversationID, userID string, conn Conn) (*Subscription, context.CancelFunc, error) {
	conv, err := uc.findParticipating(ctx, conversationID, userID)
	if err != nil {
		return nil, nil, err
	}

	sub := uc.fanout.registry.Subscribe(conv.ID, conn)
	bridgeCtx, stop := context.WithCancel(context.Background())
	if uc.bridge != nil {
		err := uc.bridge.Subscribe(bridgeCtx, repository.ConversationChannel(conv.ID), func(event domain.ChatEvent) {
			if event.Origin == uc.instanceID {
				return
			}
			if werr := conn.WriteEvent(event); werr != nil {
				errprocess.Delivery(conv.ID, werr)
			}
		})
		if err != nil {
			errprocess.Delivery(conv.ID, err)
		}
	}
	return sub, stop, nil
}

func (uc *ConversationUseCase) findParticipating(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, errprocess.Persistence("find conversation", err)
	}
	if conv == nil {
		return nil, errprocess.NotFound("conversation")
	}
	if !conv.HasParticipant(userID) {
		return nil, errprocess.Forbidden("conversation")
	}
	return conv, nil
}
