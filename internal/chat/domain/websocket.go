package domain

// Action websocket request action
type Action string

const (
	// SubscribeConversation websocket action subscribe
	SubscribeConversation Action = "subscribe"
	// UnsubscribeConversation websocket action unsubscribe
	UnsubscribeConversation Action = "unsubscribe"
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// NotifyMessage websocket action notify_message
	NotifyMessage Action = "notify_message"
)

// WSRequest websocket Request
type WSRequest struct {
	Action         string `json:"action"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
