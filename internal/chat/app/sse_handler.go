package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace_service/internal/chat/domain"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// sseConn buffers fan-out events for one event stream. A full buffer
// means the client stopped reading; the write error gets the
// connection evicted instead of blocking the publisher.
type sseConn struct {
	events chan domain.ChatEvent
}

func newSSEConn(buffer int) *sseConn {
	return &sseConn{events: make(chan domain.ChatEvent, buffer)}
}

func (c *sseConn) WriteEvent(event domain.ChatEvent) error {
	select {
	case c.events <- event:
		return nil
	default:
		return errors.New("subscriber not draining events")
	}
}

// ChatSSEHandler streams a conversation's events over Server-Sent
// Events
type ChatSSEHandler struct {
	convUC *ConversationUseCase
}

// NewChatSSEHandler create ChatSSEHandler
func NewChatSSEHandler(convUC *ConversationUseCase) *ChatSSEHandler {
	return &ChatSSEHandler{convUC: convUC}
}

// Stream GET /conversations/:id/events
func (h *ChatSSEHandler) Stream(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	conversationID := c.Params("id")

	// subscribe before committing to the stream so NotFound/Forbidden
	// still map to plain HTTP errors
	conn := newSSEConn(64)
	sub, stop, err := h.convUC.Subscribe(c.Context(), conversationID, userID, conn)
	if err != nil {
		return fiberError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			sub.Close()
			stop()
		}()

		heartbeat := time.NewTicker(25 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event := <-conn.events:
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					// client went away, registry cleanup in the defer
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
