package domain

// Message one chat message. Immutable once created, there is no edit
// or delete path.
type Message struct {
	ID             string `bson:"id" json:"id"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`
	SenderID       string `bson:"sender_id" json:"sender_id"`
	Text           string `bson:"text" json:"text"`
	CreatedAt      int64  `bson:"created_at" json:"created_at"`
}

// ChatEvent the envelope fanned out to subscribers and relayed across
// instances over redis pub/sub. Origin carries the publishing instance
// id so a relay never redelivers an event to the instance it came from.
type ChatEvent struct {
	ConversationID string  `json:"conversation_id"`
	Origin         string  `json:"origin,omitempty"`
	Message        Message `json:"message"`
}
