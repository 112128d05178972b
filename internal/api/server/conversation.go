package server

import (
	"errors"
	"net/http"

	"github.com/m-waqas88/messenger/internal/domain"
)

func (s *Server) GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.Facade.GetConversations(r.Context())
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	// a bare array, the shipped web client does not expect an envelope here
	if err = s.writeJSON(w, c, http.StatusOK, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) MarkConversationReadHandler(w http.ResponseWriter, r *http.Request) {
	var cmd domain.MarkConversationRead
	// a malformed body surfaces as the generic failure, existing clients
	// never saw a 400 on this endpoint
	if err := s.readJSON(w, r, &cmd); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if err := s.Facade.MarkConversationRead(r.Context(), &cmd); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotParticipant):
			s.notParticipantResponse(w, r)
		default:
			s.serverErrorResponse(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
