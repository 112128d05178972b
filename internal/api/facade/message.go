package facade

import (
	"context"
	"errors"

	"github.com/m-waqas88/messenger/internal/api/service"
	"github.com/m-waqas88/messenger/internal/api/utility"
	"github.com/m-waqas88/messenger/internal/domain"
)

type MessageFacade struct {
	service   *service.Service
	txManager TXManager
}

func NewMessageFacade(service *service.Service, txMan TXManager) *MessageFacade {
	return &MessageFacade{
		service:   service,
		txManager: txMan,
	}
}

// SendMessage stores a message for the recipient, creating the pair
// conversation on first contact. There is no push delivery, the recipient
// observes the message on their next conversations fetch.
func (f *MessageFacade) SendMessage(ctx context.Context, m domain.MessageSent) (*domain.Message, error) {
	u := utility.ContextGetUser(ctx)
	if ev := m.ValidateMessageSent(); ev != nil {
		return nil, ev
	}
	ev := domain.NewErrValidation()
	if m.RecipientID == u.ID {
		ev.AddError("recipientId", "cannot message yourself")
		return nil, ev
	}
	if _, err := f.service.GetByUniqueField(ctx, m.RecipientID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ev.AddError("recipientId", "not registered")
			return nil, ev
		}
		return nil, err
	}
	var msg *domain.Message
	if err := f.txManager.RunInTX(ctx, func(ctx context.Context) error {
		conversationID, err := f.service.FindOrCreateConversation(ctx, u.ID, m.RecipientID)
		if err != nil {
			return err
		}
		msg = f.service.PopulateMessage(m, u, conversationID)
		return f.service.SaveMessage(ctx, msg)
	}); err != nil {
		return nil, err
	}
	return msg, nil
}
