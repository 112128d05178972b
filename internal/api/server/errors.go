package server

import (
	"log/slog"
	"net/http"
)

func (s *Server) logError(r *http.Request, err error) {
	slog.Error(err.Error(), "method", r.Method, "uri", r.URL.RequestURI())
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := s.writeJSON(w, envelop{"error": message}, status, nil); err != nil {
		s.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	s.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	s.errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (s *Server) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	s.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (s *Server) invalidCredentialResponse(w http.ResponseWriter, r *http.Request) {
	message := "invalid authentication credentials"
	s.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (s *Server) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	message := "invalid or missing authentication token"
	s.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (s *Server) notParticipantResponse(w http.ResponseWriter, r *http.Request) {
	message := "you are not a participant of this conversation"
	s.errorResponse(w, r, http.StatusForbidden, message)
}

func (s *Server) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	s.errorResponse(w, r, http.StatusTooManyRequests, message)
}

func (s *Server) redundantSubscriptionResponse(w http.ResponseWriter, r *http.Request) {
	message := "there is already an active subscription for this user"
	s.errorResponse(w, r, http.StatusConflict, message)
}
