package facade

import (
	"context"

	"github.com/m-waqas88/messenger/internal/api/service"
	"github.com/m-waqas88/messenger/internal/domain"
)

type TokenFacade struct {
	service   *service.Service
	txManager TXManager
}

func NewTokenFacade(service *service.Service, txMan TXManager) *TokenFacade {
	return &TokenFacade{
		service:   service,
		txManager: txMan,
	}
}

func (t *TokenFacade) GenerateAuthToken(ctx context.Context, u *domain.UserAuth) (string, error) {
	usrID, err := t.service.AuthenticateUser(ctx, u)
	if err != nil {
		return "", err
	}
	var token string
	if err = t.txManager.RunInTX(ctx, func(ctx context.Context) error {
		// idempotent if domain.ScopeAuthentication tokens do not exist for the user
		if err = t.service.DeleteAllForUser(ctx, usrID, domain.ScopeAuthentication); err != nil {
			return err
		}
		token, err = t.service.GenerateToken(ctx, usrID, domain.ScopeAuthentication)
		return err
	}); err != nil {
		return "", err
	}
	return token, nil
}

func (t *TokenFacade) VerifyAuthToken(ctx context.Context, token string) (*domain.User, error) {
	usr, err := t.service.GetForToken(ctx, domain.ScopeAuthentication, token)
	if err != nil {
		return nil, err
	}
	return usr, nil
}
