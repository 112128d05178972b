package server

import (
	"errors"
	"net/http"

	"github.com/m-waqas88/messenger/internal/domain"
)

func (s *Server) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var userRegister domain.UserRegister
	if err := s.readJSON(w, r, &userRegister); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	user, err := s.Facade.RegisterUser(r.Context(), &userRegister)
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
	if err = s.writeJSON(w, envelop{"user": user}, http.StatusCreated, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
