package domain

// Conversation a two-party thread between marketplace users. The
// participant pair is unique: starting a chat with the same user again
// returns the existing conversation.
type Conversation struct {
	ID            string `bson:"_id,omitempty" json:"id"`
	Participant1  string `bson:"participant1" json:"participant1"`
	Participant2  string `bson:"participant2" json:"participant2"`
	LastMessage   string `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastMessageAt int64  `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	CreatedAt     int64  `bson:"created_at" json:"created_at"`
}

// HasParticipant report whether userID belongs to the conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participant1 == userID || c.Participant2 == userID
}
