package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/m-waqas88/messenger/internal/api/utility"
	"github.com/m-waqas88/messenger/internal/domain"
)

var _ domain.ConversationService = (*ConversationService)(nil)

type ConversationService struct {
	conversationRepository domain.ConversationRepository
	messageRepository      domain.MessageRepository
}

func NewConversationService(cr domain.ConversationRepository, mr domain.MessageRepository) *ConversationService {
	return &ConversationService{
		conversationRepository: cr,
		messageRepository:      mr,
	}
}

// GetConversationViews assembles the response shape for every conversation
// the authenticated user participates in: the full ordered message history,
// the latest message preview, the unread count, and the highest id among the
// user's own messages the other side has read. The list is sorted most
// recent activity first. Online flags are merged in by the facade.
func (s *ConversationService) GetConversationViews(ctx context.Context) ([]*domain.ConversationView, error) {
	usr := utility.ContextGetUser(ctx)
	convos, err := s.conversationRepository.GetConversations(ctx, usr.ID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messageRepository.GetAllForParticipant(ctx, usr.ID)
	if err != nil {
		return nil, err
	}
	byConvo := make(map[int64][]*domain.Message, len(convos))
	for _, m := range messages {
		byConvo[m.ConversationID] = append(byConvo[m.ConversationID], m)
	}
	views := make([]*domain.ConversationView, 0, len(convos))
	lastActivity := make(map[int64]time.Time, len(convos))
	for _, c := range convos {
		view := buildConversationView(c, byConvo[c.ID], usr.ID)
		views = append(views, view)
		lastActivity[view.ID] = c.CreatedAt
		if ms := byConvo[c.ID]; len(ms) > 0 {
			lastActivity[view.ID] = ms[len(ms)-1].CreatedAt
		}
	}
	slices.SortStableFunc(views, func(a, b *domain.ConversationView) int {
		return lastActivity[b.ID].Compare(lastActivity[a.ID])
	})
	return views, nil
}

func buildConversationView(c *domain.Conversation, ms []*domain.Message, usrID string) *domain.ConversationView {
	view := &domain.ConversationView{
		ID:       c.ID,
		Messages: make([]*domain.MessageView, 0, len(ms)),
		OtherUser: &domain.OtherUserView{
			ID:       c.OtherUserID,
			Username: c.OtherUsername,
			PhotoURL: c.OtherPhotoURL,
		},
	}
	for _, m := range ms {
		view.Messages = append(view.Messages, &domain.MessageView{
			ID:        m.ID,
			Text:      m.Body,
			SenderID:  m.SenderID,
			CreatedAt: m.CreatedAt,
		})
		if m.SenderID == usrID {
			if m.Read && (view.LastMessageIDReadByRecipient == nil || m.ID > *view.LastMessageIDReadByRecipient) {
				id := m.ID
				view.LastMessageIDReadByRecipient = &id
			}
		} else if !m.Read {
			view.UnreadMessages++
		}
	}
	// a conversation with no messages has no preview
	if len(ms) > 0 {
		view.LatestMessageText = &ms[len(ms)-1].Body
	}
	return view
}

// MarkConversationRead records that the authenticated user has read every
// message up to the given id. Only participants may submit receipts, and a
// user's own messages are never touched. Idempotent.
func (s *ConversationService) MarkConversationRead(ctx context.Context, cmd *domain.MarkConversationRead) error {
	usr := utility.ContextGetUser(ctx)
	participants, err := s.conversationRepository.GetParticipants(ctx, cmd.ConversationID)
	if err != nil {
		return err
	}
	if len(participants) == 0 {
		return domain.ErrRecordNotFound
	}
	if !slices.Contains(participants, usr.ID) {
		return domain.ErrNotParticipant
	}
	_, err = s.messageRepository.MarkMessagesRead(ctx, cmd.ConversationID, cmd.LastReadMessageID, usr.ID)
	return err
}

func (s *ConversationService) FindOrCreateConversation(ctx context.Context, userA, userB string) (int64, error) {
	conversationID, err := s.conversationRepository.FindConversation(ctx, userA, userB)
	if err == nil {
		return conversationID, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return 0, err
	}
	return s.conversationRepository.CreateConversation(ctx, userA, userB)
}
