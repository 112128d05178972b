package facade

import "context"

// TXManager opens a transaction boundary around fn; repository calls made
// under the context fn receives join that same transaction.
type TXManager interface {
	RunInTX(ctx context.Context, fn func(ctx context.Context) error) error
}

// Facade composes the per-concern facades into the single surface the
// handlers call. Transaction boundaries live at this layer, services and
// repositories below it never begin one themselves.
type Facade struct {
	*UserFacade
	*TokenFacade
	*MessageFacade
	*ConversationFacade
}

func New(user *UserFacade, token *TokenFacade, message *MessageFacade, conversation *ConversationFacade) *Facade {
	return &Facade{
		UserFacade:         user,
		TokenFacade:        token,
		MessageFacade:      message,
		ConversationFacade: conversation,
	}
}
