package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat thread within a family.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single chat message. Messages carry no family id of their own;
// they are scoped through their conversation.
type Message struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	ReplyToID      *uuid.UUID `json:"reply_to_id,omitempty"`
	Body           string     `json:"body"`
	SentAt         time.Time  `json:"sent_at"`
}

// IsReply returns true if the message replies to another message.
func (m *Message) IsReply() bool {
	return m.ReplyToID != nil
}
