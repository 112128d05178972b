package service

import (
	"github.com/m-waqas88/messenger/internal/domain"
)

type Service struct {
	domain.UserService
	domain.TokenService
	domain.MessageService
	domain.ConversationService
}

func New(us domain.UserService, ts domain.TokenService, ms domain.MessageService, cs domain.ConversationService) *Service {
	return &Service{
		UserService:         us,
		TokenService:        ts,
		MessageService:      ms,
		ConversationService: cs,
	}
}
