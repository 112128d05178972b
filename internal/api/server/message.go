package server

import (
	"errors"
	"net/http"

	"github.com/m-waqas88/messenger/internal/domain"
)

func (s *Server) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	var ms domain.MessageSent
	if err := s.readJSON(w, r, &ms); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	msg, err := s.Facade.SendMessage(r.Context(), ms)
	if err != nil {
		var ev *domain.ErrValidation
		switch {
		case errors.As(err, &ev):
			s.failedValidationResponse(w, r, ev.Errors)
		default:
			s.serverErrorResponse(w, r, err)
		}
		return
	}
	if err = s.writeJSON(w, envelop{"message": msg}, http.StatusCreated, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
