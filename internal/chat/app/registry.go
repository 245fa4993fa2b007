package app

import (
	"sync"

	"marketplace_service/internal/chat/domain"
)

// Conn is the write side of a subscriber connection. The transport
// (websocket or SSE stream) adapts itself to this.
type Conn interface {
	WriteEvent(event domain.ChatEvent) error
}

// Subscription handle returned by Subscribe. Close is idempotent and
// safe to call from the transport's close signal and from eviction
// paths at the same time.
type Subscription struct {
	topic    string
	id       uint64
	registry *ConnRegistry
}

// Topic return the topic the subscription was taken on
func (s *Subscription) Topic() string { return s.topic }

// Close remove the connection from the registry. A second Close is a
// no-op.
func (s *Subscription) Close() {
	s.registry.remove(s.topic, s.id)
}

// ConnRegistry tracks live subscriber connections per conversation
// topic. It exclusively owns the per-topic connection sets; transports
// only hold Subscription handles.
type ConnRegistry struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string]map[uint64]Conn
}

// NewConnRegistry create an empty ConnRegistry
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{topics: map[string]map[uint64]Conn{}}
}

// Subscribe register conn under topic, creating the topic set lazily.
// Never fails.
func (r *ConnRegistry) Subscribe(topic string, conn Conn) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	set, ok := r.topics[topic]
	if !ok {
		set = map[uint64]Conn{}
		r.topics[topic] = set
	}
	set[id] = conn

	return &Subscription{topic: topic, id: id, registry: r}
}

// ConnectionsFor read-only snapshot of the topic's current
// connections. A fresh call always rescans current state.
func (r *ConnRegistry) ConnectionsFor(topic string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.topics[topic]
	conns := make([]Conn, 0, len(set))
	for _, conn := range set {
		conns = append(conns, conn)
	}
	return conns
}

// TopicCount number of topics with at least one live connection
func (r *ConnRegistry) TopicCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics)
}

// snapshot like ConnectionsFor but keyed by subscription id, used by
// the fanout to evict failing connections.
func (r *ConnRegistry) snapshot(topic string) map[uint64]Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.topics[topic]
	conns := make(map[uint64]Conn, len(set))
	for id, conn := range set {
		conns[id] = conn
	}
	return conns
}

// remove drop one connection; the topic entry goes away with its last
// connection so abandoned topics never accumulate.
func (r *ConnRegistry) remove(topic string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.topics[topic]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(r.topics, topic)
	}
}
