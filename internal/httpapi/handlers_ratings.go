package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/internal/middleware"
)

// callerID prefers an explicit userId from the payload and falls back
// to the authenticated identity.
func callerID(r *http.Request, fromPayload string) (string, error) {
	if fromPayload != "" {
		return fromPayload, nil
	}
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return "", apperr.Unauthorized("authentication required")
	}
	return identity.UserID, nil
}

func (s *server) createRating(w http.ResponseWriter, r *http.Request) {
	var payload createRatingRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	userID, err := callerID(r, payload.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.app.Ratings.Create(r.Context(), userID, payload.StoreID, payload.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) listRatings(w http.ResponseWriter, r *http.Request) {
	listed, err := s.app.Ratings.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (s *server) listRatingsByUser(w http.ResponseWriter, r *http.Request) {
	listed, err := s.app.Ratings.ListByUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (s *server) listRatingsByStore(w http.ResponseWriter, r *http.Request) {
	listed, err := s.app.Ratings.ListByStore(r.Context(), mux.Vars(r)["storeId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (s *server) getRating(w http.ResponseWriter, r *http.Request) {
	rt, err := s.app.Ratings.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *server) getRatingForUserAndStore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rt, err := s.app.Ratings.GetForUserAndStore(r.Context(), vars["userId"], vars["storeId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *server) updateRating(w http.ResponseWriter, r *http.Request) {
	var payload updateRatingRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	caller, err := callerID(r, payload.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.app.Ratings.Update(r.Context(), mux.Vars(r)["id"], caller, payload.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) deleteRating(w http.ResponseWriter, r *http.Request) {
	// The delete body is optional; absent or empty means "as myself".
	var payload deleteRatingRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		payload.UserID = ""
	}

	caller, err := callerID(r, payload.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.app.Ratings.Delete(r.Context(), mux.Vars(r)["id"], caller); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
