package domain

import (
	"context"
	"regexp"
	"time"
)

var rgxUUID = regexp.MustCompile("^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$")

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId" db:"conversation_id"`
	SenderID       string    `json:"senderId"       db:"sender_id"`
	Body           string    `json:"text"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"`
}

type MessageService interface {
	PopulateMessage(m MessageSent, sndr *User, conversationID int64) *Message
	SaveMessage(ctx context.Context, m *Message) error
}

type MessageRepository interface {
	GetAllForParticipant(ctx context.Context, usrID string) ([]*Message, error)
	InsertMessage(ctx context.Context, m *Message) error
	MarkMessagesRead(ctx context.Context, conversationID, lastReadMessageID int64, requesterID string) (int64, error)
}

// DTO

type MessageSent struct {
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}

func (m MessageSent) ValidateMessageSent() *ErrValidation {
	ev := NewErrValidation()
	ValidateMessageRecipientID(m.RecipientID, ev)
	ValidateMessageBody(m.Text, ev)
	if ev.HasErrors() {
		return ev
	}
	return nil
}

func ValidateMessageRecipientID(id string, ev *ErrValidation) {
	ev.Evaluate(rgxUUID.MatchString(id), "recipientId", "Invalid recipient ID")
}

func ValidateMessageBody(body string, ev *ErrValidation) {
	ev.Evaluate(body != "", "text", "must be provided")
	ev.Evaluate(len(body) <= 5120, "text", "must be a max of 5120 bytes (5KB) long")
}
