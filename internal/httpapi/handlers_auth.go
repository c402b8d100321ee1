package httpapi

import (
	"net/http"

	"github.com/ratewise/platform/internal/app/services/auth"
	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/internal/middleware"
)

func (s *server) signup(w http.ResponseWriter, r *http.Request) {
	var payload signupRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	token, created, err := s.app.Auth.Signup(r.Context(), auth.SignupInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Address:  payload.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: created})
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	token, u, err := s.app.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (s *server) profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	u, err := s.app.Auth.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; the client discards its copy.
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
