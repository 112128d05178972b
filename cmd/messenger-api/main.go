package main

import (
	"log/slog"
	"os"

	"github.com/m-waqas88/messenger/internal/api/facade"
	"github.com/m-waqas88/messenger/internal/api/presence"
	"github.com/m-waqas88/messenger/internal/api/repository"
	"github.com/m-waqas88/messenger/internal/api/server"
	"github.com/m-waqas88/messenger/internal/api/service"
	"github.com/m-waqas88/messenger/internal/api/utility"
	"github.com/m-waqas88/messenger/internal/common"
)

func main() {
	utility.ConfigureSlog(os.Stderr)
	cfg := utility.ParseFlags()
	// Base
	db := repository.OpenDB(cfg)
	if err := db.Migrate(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	bgTask := common.NewBackgroundTask()
	presenceRegistry := presence.OpenRegistry(cfg)
	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	// Services
	userService := service.NewUserService(userRepo)
	tokenService := service.NewTokenService(tokenRepo)
	messageService := service.NewMessageService(messageRepo)
	conversationService := service.NewConversationService(conversationRepo, messageRepo)
	// Service Group
	srv := service.New(userService, tokenService, messageService, conversationService)
	// Facades
	userFacade := facade.NewUserFacade(srv)
	tokenFacade := facade.NewTokenFacade(srv, db)
	messageFacade := facade.NewMessageFacade(srv, db)
	conversationFacade := facade.NewConversationFacade(srv, db, presenceRegistry)
	// Facade Group
	fac := facade.New(userFacade, tokenFacade, messageFacade, conversationFacade)
	// Server
	s := server.NewServer(cfg, bgTask, fac, presenceRegistry)
	s.Serve()
}
