package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace_service/internal/chat/domain"
	"marketplace_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// ConversationChannel redis channel carrying a conversation's events
// across instances
func ConversationChannel(conversationID string) string {
	return "chat:conv:" + conversationID
}

// EventBridge definition cross-instance event relay
type EventBridge interface {
	Publish(channel string, event domain.ChatEvent) error
	Subscribe(ctx context.Context, channel string, handler func(event domain.ChatEvent)) error
}

// RedisPubSub EventBridge over redis pub/sub. Each instance publishes
// its local events and feeds remote ones into its own registry.
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish serialize event and publish it to channel
func (r *RedisPubSub) Publish(channel string, event domain.ChatEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe listen on channel until ctx is cancelled, decoding each
// payload and handing it to handler
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.ChatEvent)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				var event domain.ChatEvent
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Log.Errorf("failed to unmarshal chat event:", err)
					continue
				}
				handler(event)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
				return
			}
		}
	}()
	return nil
}
