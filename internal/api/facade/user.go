package facade

import (
	"context"

	"github.com/m-waqas88/messenger/internal/api/service"
	"github.com/m-waqas88/messenger/internal/domain"
)

type UserFacade struct {
	service *service.Service
}

func NewUserFacade(service *service.Service) *UserFacade {
	return &UserFacade{service: service}
}

func (f *UserFacade) RegisterUser(ctx context.Context, u *domain.UserRegister) (*domain.User, error) {
	userID, err := f.service.UserService.RegisterUser(ctx, u)
	if err != nil {
		return nil, err
	}
	return f.service.GetByUniqueField(ctx, userID)
}
