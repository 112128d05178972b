package server

import (
	"net/http"

	"github.com/justinas/alice"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	// Middlewares
	authenticated := alice.New(s.requireAuthenticatedUser)
	// User Routes
	mux.HandleFunc("POST /v1/users", s.RegisterUserHandler)
	// Token Routes
	mux.HandleFunc("POST /v1/tokens/auth", s.GenerateAuthTokenHandler)
	// Conversation Routes
	mux.Handle("GET /v1/conversations", authenticated.ThenFunc(s.GetConversationsHandler))
	mux.Handle("PUT /v1/conversations/read", authenticated.ThenFunc(s.MarkConversationReadHandler))
	// Message Routes
	mux.Handle("POST /v1/messages", authenticated.ThenFunc(s.CreateMessageHandler))
	// Websocket Routes
	mux.Handle("/sub", authenticated.ThenFunc(s.WebsocketSubscribeHandler))

	base := alice.New(s.recoverPanic, s.rateLimit, s.authenticate)
	return base.Then(mux)
}
