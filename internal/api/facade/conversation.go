package facade

import (
	"context"

	"github.com/m-waqas88/messenger/internal/api/service"
	"github.com/m-waqas88/messenger/internal/domain"
)

type ConversationFacade struct {
	service   *service.Service
	txManager TXManager
	presence  domain.PresenceRegistry
}

func NewConversationFacade(service *service.Service, txMan TXManager, presence domain.PresenceRegistry) *ConversationFacade {
	return &ConversationFacade{
		service:   service,
		txManager: txMan,
		presence:  presence,
	}
}

// GetConversations returns the authenticated user's conversations, most
// recent activity first, with the other participant's online flag merged in
// from the presence registry.
func (f *ConversationFacade) GetConversations(ctx context.Context) ([]*domain.ConversationView, error) {
	views, err := f.service.GetConversationViews(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		online, err := f.presence.Online(ctx, v.OtherUser.ID)
		if err != nil {
			return nil, err
		}
		v.OtherUser.Online = online
	}
	return views, nil
}

func (f *ConversationFacade) MarkConversationRead(ctx context.Context, cmd *domain.MarkConversationRead) error {
	return f.txManager.RunInTX(ctx, func(ctx context.Context) error {
		return f.service.MarkConversationRead(ctx, cmd)
	})
}
