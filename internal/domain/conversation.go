package domain

import (
	"context"
	"time"
)

// Conversation is the stored row joined with the other participant's
// projection, relative to the user the query ran for.
type Conversation struct {
	ID            int64     `db:"id"`
	CreatedAt     time.Time `db:"created_at"`
	OtherUserID   string    `db:"other_user_id"`
	OtherUsername string    `db:"other_username"`
	OtherPhotoURL *string   `db:"other_photo_url"`
}

// ConversationView is the response shape for a single conversation. The
// misspelled lastMessgaeIdReadByRecipient key is load-bearing, the web
// client reads it verbatim.
type ConversationView struct {
	ID                           int64          `json:"id"`
	Messages                     []*MessageView `json:"messages"`
	LatestMessageText            *string        `json:"latestMessageText,omitempty"`
	OtherUser                    *OtherUserView `json:"otherUser"`
	UnreadMessages               int            `json:"unreadMessages"`
	LastMessageIDReadByRecipient *int64         `json:"lastMessgaeIdReadByRecipient"`
}

type MessageView struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	SenderID  string    `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
}

type OtherUserView struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	PhotoURL *string `json:"photoUrl"`
	Online   bool    `json:"online"`
}

// MarkConversationRead marks every message in the conversation with
// id <= LastReadMessageID, not sent by the requester, as read.
type MarkConversationRead struct {
	ConversationID    int64 `json:"conversationId"`
	LastReadMessageID int64 `json:"lastReadMessageId"`
}

type ConversationService interface {
	GetConversationViews(ctx context.Context) ([]*ConversationView, error)
	MarkConversationRead(ctx context.Context, cmd *MarkConversationRead) error
	FindOrCreateConversation(ctx context.Context, userA, userB string) (int64, error)
}

type ConversationRepository interface {
	GetConversations(ctx context.Context, usrID string) ([]*Conversation, error)
	GetParticipants(ctx context.Context, conversationID int64) ([]string, error)
	FindConversation(ctx context.Context, userA, userB string) (int64, error)
	CreateConversation(ctx context.Context, userA, userB string) (int64, error)
}

// PresenceRegistry is the only coupling the conversation read model has to
// the online-presence subsystem, a membership test by user id.
type PresenceRegistry interface {
	Online(ctx context.Context, userID string) (bool, error)
}
