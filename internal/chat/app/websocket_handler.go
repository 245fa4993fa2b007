package app

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"marketplace_service/internal/chat/domain"
	"marketplace_service/pkg/logger"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler drives one websocket connection through the
// subscribe/unsubscribe/send_message actions
type ChatWebsocketHandler struct {
	convUC *ConversationUseCase
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(convUC *ConversationUseCase) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{convUC: convUC}
}

// wsConn serializes writes to the underlying websocket; the fanout and
// the request/response path write from different goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteEvent(event domain.ChatEvent) error {
	return c.writeJSON(domain.WSResponse{
		Action:  string(domain.NotifyMessage),
		Success: true,
		Payload: map[string]interface{}{
			"conversation_id": event.ConversationID,
			"message_id":      event.Message.ID,
			"sender_id":       event.Message.SenderID,
			"text":            event.Message.Text,
			"created_at":      event.Message.CreatedAt,
		},
	})
}

func (c *wsConn) writeJSON(resp domain.WSResponse) error {
	b, _ := json.Marshal(resp)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// wsSubscription one live conversation subscription owned by this
// websocket
type wsSubscription struct {
	sub  *Subscription
	stop context.CancelFunc
}

// HandleConnection is the websocket entry point
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	logger.Log.Info("websocket handle userID", zap.String("userID", userID), zap.String("ok", strconv.FormatBool(ok)))

	wc := &wsConn{conn: conn}
	subs := map[string]wsSubscription{}
	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		for _, s := range subs {
			s.sub.Close()
			s.stop()
		}
		logger.Log.Info("websocket close", zap.String("userID", userID))
		conn.Close()
		cancel()
	}()

	// fiber handles close/ping/pong internally; the handlers below just
	// surface them
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping message")); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Errorf("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			h.sendError(wc, "unknown message type")
			continue
		}
		h.textMessageAction(ctx, wc, userID, subs, message)
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, wc *wsConn, userID string, subs map[string]wsSubscription, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	case string(domain.SubscribeConversation):
		if _, ok := subs[req.ConversationID]; ok {
			resp.Success = true
			resp.Payload["conversation_id"] = req.ConversationID
			break
		}
		sub, stop, err := h.convUC.Subscribe(ctx, req.ConversationID, userID, wc)
		if err != nil {
			resp.Error = err.Error()
		} else {
			subs[req.ConversationID] = wsSubscription{sub: sub, stop: stop}
			resp.Success = true
			resp.Payload["conversation_id"] = req.ConversationID
		}

	case string(domain.UnsubscribeConversation):
		// unknown conversation id is a no-op, duplicate disconnect
		// signals are normal
		if s, ok := subs[req.ConversationID]; ok {
			s.sub.Close()
			s.stop()
			delete(subs, req.ConversationID)
		}
		resp.Success = true
		resp.Payload["conversation_id"] = req.ConversationID

	case string(domain.SendMessage):
		created, err := h.convUC.PostMessage(ctx, req.ConversationID, userID, req.Text)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message_id"] = created.ID
			resp.Payload["created_at"] = created.CreatedAt
		}

	default:
		h.sendError(wc, "unknown action")
		return
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ", zap.String("UserID", userID), zap.String("Action", req.Action), zap.String("err", resp.Error))
	}
	if err := wc.writeJSON(resp); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(wc *wsConn, errorMsg string) {
	if err := wc.writeJSON(domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{"error": errorMsg},
	}); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}
