package app

import (
	"context"
	"encoding/json"

	"marketplace_service/internal/card/domain"
	"marketplace_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// InvalidationBus definition cross-instance card mutation relay
type InvalidationBus interface {
	Publish(ctx context.Context, mutation domain.CardMutation) error
}

// KafkaInvalidationBus relays card mutations over a kafka topic so
// every instance can drop its own stale cache entries. Consumption is
// per-instance (distinct group ids), each instance sees every
// mutation.
type KafkaInvalidationBus struct {
	writer     *kafka.Writer
	reader     *kafka.Reader
	instanceID string
}

// NewKafkaInvalidationBus create KafkaInvalidationBus
func NewKafkaInvalidationBus(writer *kafka.Writer, reader *kafka.Reader, instanceID string) *KafkaInvalidationBus {
	return &KafkaInvalidationBus{writer: writer, reader: reader, instanceID: instanceID}
}

// Publish stamp the mutation with this instance's id and write it out
func (b *KafkaInvalidationBus) Publish(ctx context.Context, mutation domain.CardMutation) error {
	mutation.Origin = b.instanceID
	data, err := json.Marshal(mutation)
	if err != nil {
		return err
	}
	return b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(mutation.CardID),
		Value: data,
	})
}

// Consume read mutations until ctx is cancelled, handing remote-origin
// ones to apply. Own-origin mutations were already applied locally.
func (b *KafkaInvalidationBus) Consume(ctx context.Context, apply func(mutation domain.CardMutation)) {
	for {
		m, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Warn("invalidation bus read failed", zap.Error(err))
			continue
		}
		if string(m.Key) == "ping" {
			// writer connectivity probe
			continue
		}

		var mutation domain.CardMutation
		if err := json.Unmarshal(m.Value, &mutation); err != nil {
			logger.Log.Warn("invalidation bus decode failed", zap.Error(err))
			continue
		}
		if mutation.Origin == b.instanceID {
			continue
		}
		apply(mutation)
	}
}

// Close release the writer and reader
func (b *KafkaInvalidationBus) Close() {
	if err := b.writer.Close(); err != nil {
		logger.Log.Warn("kafka writer close failed", zap.Error(err))
	}
	if err := b.reader.Close(); err != nil {
		logger.Log.Warn("kafka reader close failed", zap.Error(err))
	}
}
