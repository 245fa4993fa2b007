package app

import (
	"marketplace_service/internal/chat/domain"
	errprocess "marketplace_service/pkg/err"
)

// Fanout delivers one event to every current subscriber of a topic.
// Delivery is best-effort: a broken connection is logged, evicted from
// the registry and never aborts delivery to the rest. Per-connection
// order matches Publish-call order as long as the caller serializes
// publishes for the topic.
type Fanout struct {
	registry *ConnRegistry
}

// NewFanout create a Fanout over the given registry
func NewFanout(registry *ConnRegistry) *Fanout {
	return &Fanout{registry: registry}
}

// Publish write event to every subscriber of topic
func (f *Fanout) Publish(topic string, event domain.ChatEvent) {
	for id, conn := range f.registry.snapshot(topic) {
		if err := conn.WriteEvent(event); err != nil {
			errprocess.Delivery(topic, err)
			f.registry.remove(topic, id)
		}
	}
}
