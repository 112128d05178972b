package service

import (
	"context"

	"github.com/m-waqas88/messenger/internal/domain"
)

var _ domain.MessageService = (*MessageService)(nil)

type MessageService struct {
	messageRepository domain.MessageRepository
}

func NewMessageService(messageRepo domain.MessageRepository) *MessageService {
	return &MessageService{messageRepository: messageRepo}
}

// PopulateMessage builds the persistable message from the sent DTO, the id
// and creation time are assigned by the repository on save.
func (s *MessageService) PopulateMessage(m domain.MessageSent, sndr *domain.User, conversationID int64) *domain.Message {
	return &domain.Message{
		ConversationID: conversationID,
		SenderID:       sndr.ID,
		Body:           m.Text,
	}
}

func (s *MessageService) SaveMessage(ctx context.Context, m *domain.Message) error {
	return s.messageRepository.InsertMessage(ctx, m)
}
