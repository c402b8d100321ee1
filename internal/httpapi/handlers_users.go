package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/services/users"
)

func (s *server) createUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.app.Users.Create(r.Context(), users.CreateInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Address:  payload.Address,
		Role:     user.Role(payload.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := user.Filter{
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		Address:   q.Get("address"),
		Role:      user.Role(q.Get("role")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	listed, err := s.app.Users.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (s *server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.app.Users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *server) updateUser(w http.ResponseWriter, r *http.Request) {
	var payload updateUserRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	in := users.UpdateInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Address: payload.Address,
	}
	if payload.Role != nil {
		role := user.Role(*payload.Role)
		in.Role = &role
	}

	updated, err := s.app.Users.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var payload updatePasswordRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	err := s.app.Users.UpdatePassword(r.Context(), mux.Vars(r)["id"], payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) userStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.Users.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
