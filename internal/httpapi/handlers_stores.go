package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ratewise/platform/internal/app/domain/store"
	"github.com/ratewise/platform/internal/app/services/stores"
)

func (s *server) createStore(w http.ResponseWriter, r *http.Request) {
	var payload createStoreRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.app.Stores.Create(r.Context(), stores.CreateInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Address: payload.Address,
		OwnerID: payload.OwnerID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) listStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{
		Name:      q.Get("name"),
		Address:   q.Get("address"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	listed, err := s.app.Stores.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (s *server) getStore(w http.ResponseWriter, r *http.Request) {
	st, err := s.app.Stores.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) listStoresByOwner(w http.ResponseWriter, r *http.Request) {
	listed, err := s.app.Stores.ListByOwner(r.Context(), mux.Vars(r)["ownerId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (s *server) updateStore(w http.ResponseWriter, r *http.Request) {
	var payload updateStoreRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.app.Stores.Update(r.Context(), mux.Vars(r)["id"], stores.UpdateInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Address: payload.Address,
		OwnerID: payload.OwnerID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) deleteStore(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Stores.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) storeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.Stores.Stats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
