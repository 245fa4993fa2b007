package app

import (
	"errors"
	"os"
	"sync"
	"testing"

	"marketplace_service/internal/chat/domain"
	"marketplace_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// recordConn Conn fake that records delivered events
type recordConn struct {
	mu     sync.Mutex
	events []domain.ChatEvent
	fail   error
}

func (c *recordConn) WriteEvent(event domain.ChatEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.events = append(c.events, event)
	return nil
}

func (c *recordConn) received() []domain.ChatEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatEvent, len(c.events))
	copy(out, c.events)
	return out
}

func TestConnRegistry_SubscribeAndSnapshot(t *testing.T) {
	registry := NewConnRegistry()
	conn := &recordConn{}

	sub := registry.Subscribe("conv1", conn)
	assert.Equal(t, "conv1", sub.Topic())
	assert.Len(t, registry.ConnectionsFor("conv1"), 1)
	assert.Empty(t, registry.ConnectionsFor("conv2"))
}

func TestConnRegistry_UnsubscribeDropsEmptyTopic(t *testing.T) {
	registry := NewConnRegistry()

	sub1 := registry.Subscribe("conv1", &recordConn{})
	sub2 := registry.Subscribe("conv1", &recordConn{})
	assert.Equal(t, 1, registry.TopicCount())

	sub1.Close()
	assert.Len(t, registry.ConnectionsFor("conv1"), 1)
	assert.Equal(t, 1, registry.TopicCount())

	sub2.Close()
	assert.Empty(t, registry.ConnectionsFor("conv1"))
	assert.Equal(t, 0, registry.TopicCount(), "last unsubscribe must reclaim the topic entry")
}

func TestConnRegistry_CloseIsIdempotent(t *testing.T) {
	registry := NewConnRegistry()

	sub := registry.Subscribe("conv1", &recordConn{})
	keep := registry.Subscribe("conv1", &recordConn{})

	sub.Close()
	sub.Close()
	sub.Close()

	assert.Len(t, registry.ConnectionsFor("conv1"), 1)
	keep.Close()
}

func TestConnRegistry_SnapshotIsNotLive(t *testing.T) {
	registry := NewConnRegistry()
	registry.Subscribe("conv1", &recordConn{})

	snap := registry.ConnectionsFor("conv1")
	registry.Subscribe("conv1", &recordConn{})

	assert.Len(t, snap, 1, "an old snapshot must not grow")
	assert.Len(t, registry.ConnectionsFor("conv1"), 2, "a fresh call rescans current state")
}

func TestConnRegistry_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	registry := NewConnRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := registry.Subscribe("conv1", &recordConn{})
			registry.ConnectionsFor("conv1")
			sub.Close()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, registry.TopicCount())
}

var errBrokenPipe = errors.New("broken pipe")
