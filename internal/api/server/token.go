package server

import (
	"errors"
	"net/http"

	"github.com/m-waqas88/messenger/internal/domain"
)

func (s *Server) GenerateAuthTokenHandler(w http.ResponseWriter, r *http.Request) {
	var usr domain.UserAuth
	if err := s.readJSON(w, r, &usr); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	token, err := s.Facade.GenerateAuthToken(r.Context(), &usr)
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
	if err = s.writeJSON(w, envelop{"token": token}, http.StatusOK, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
