// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and mirrors the relational
// semantics of the postgres store (unique emails, unique (user, store)
// rating pairs, cascading deletes) so services behave identically under
// test and in local development.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/store"
	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/storage"
	apperr "github.com/ratewise/platform/internal/errors"
)

// Store is the in-memory backing store.
type Store struct {
	mu      sync.RWMutex
	users   map[string]user.User
	stores  map[string]store.Store
	ratings map[string]rating.Rating
}

var _ storage.Users = (*Store)(nil)
var _ storage.Stores = (*Store)(nil)
var _ storage.Ratings = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]user.User),
		stores:  make(map[string]store.Store),
		ratings: make(map[string]rating.Rating),
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Users implementation ---------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, apperr.Conflict("email already exists")
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	for id, other := range s.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return user.User{}, apperr.Conflict("email already exists")
		}
	}

	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

func (s *Store) ListUsers(_ context.Context, filter user.Filter) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []user.User
	for _, u := range s.users {
		if filter.Name != "" && !containsFold(u.Name, filter.Name) {
			continue
		}
		if filter.Email != "" && !containsFold(u.Email, filter.Email) {
			continue
		}
		if filter.Address != "" && !containsFold(u.Address, filter.Address) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		result = append(result, u)
	}

	sortUsers(result, filter.SortBy, filter.SortOrder)
	return result, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)

	// Cascade: owned stores (and their ratings), then authored ratings.
	for storeID, st := range s.stores {
		if st.OwnerID == id {
			delete(s.stores, storeID)
			s.deleteRatingsByStoreLocked(storeID)
		}
	}
	for ratingID, r := range s.ratings {
		if r.UserID == id {
			delete(s.ratings, ratingID)
		}
	}
	return nil
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) CountUsersByRole(_ context.Context, role user.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, u := range s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func sortUsers(users []user.User, sortBy, sortOrder string) {
	desc := !strings.EqualFold(sortOrder, "ASC")
	less := func(a, b user.User) bool {
		switch sortBy {
		case "name":
			return a.Name < b.Name
		case "email":
			return a.Email < b.Email
		case "address":
			return a.Address < b.Address
		case "role":
			return a.Role < b.Role
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		if desc {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}

// Stores implementation --------------------------------------------------------

func (s *Store) CreateStore(_ context.Context, st store.Store) (store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.stores {
		if strings.EqualFold(existing.Email, st.Email) {
			return store.Store{}, apperr.Conflict("store email already exists")
		}
	}

	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now
	st.Owner = nil
	st.Ratings = nil
	s.stores[st.ID] = st
	return st, nil
}

func (s *Store) UpdateStore(_ context.Context, st store.Store) (store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.stores[st.ID]
	if !ok {
		return store.Store{}, sql.ErrNoRows
	}
	for id, other := range s.stores {
		if id != st.ID && strings.EqualFold(other.Email, st.Email) {
			return store.Store{}, apperr.Conflict("store email already exists")
		}
	}

	st.CreatedAt = existing.CreatedAt
	st.UpdatedAt = time.Now().UTC()
	st.Owner = nil
	st.Ratings = nil
	s.stores[st.ID] = st
	return st, nil
}

func (s *Store) GetStore(_ context.Context, id string) (store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stores[id]
	if !ok {
		return store.Store{}, sql.ErrNoRows
	}
	return st, nil
}

func (s *Store) GetStoreByEmail(_ context.Context, email string) (store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.stores {
		if strings.EqualFold(st.Email, email) {
			return st, nil
		}
	}
	return store.Store{}, sql.ErrNoRows
}

func (s *Store) ListStores(_ context.Context, filter store.Filter) ([]store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []store.Store
	for _, st := range s.stores {
		if filter.Name != "" && !containsFold(st.Name, filter.Name) {
			continue
		}
		if filter.Address != "" && !containsFold(st.Address, filter.Address) {
			continue
		}
		result = append(result, st)
	}

	sortStores(result, filter.SortBy, filter.SortOrder)
	return result, nil
}

func (s *Store) ListStoresByOwner(_ context.Context, ownerID string) ([]store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []store.Store
	for _, st := range s.stores {
		if st.OwnerID == ownerID {
			result = append(result, st)
		}
	}
	sortStores(result, "", "")
	return result, nil
}

func (s *Store) DeleteStore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.stores, id)
	s.deleteRatingsByStoreLocked(id)
	return nil
}

func (s *Store) CountStores(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stores), nil
}

func sortStores(stores []store.Store, sortBy, sortOrder string) {
	desc := !strings.EqualFold(sortOrder, "ASC")
	less := func(a, b store.Store) bool {
		switch sortBy {
		case "name":
			return a.Name < b.Name
		case "email":
			return a.Email < b.Email
		case "address":
			return a.Address < b.Address
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(stores, func(i, j int) bool {
		if desc {
			return less(stores[j], stores[i])
		}
		return less(stores[i], stores[j])
	})
}

// Ratings implementation -------------------------------------------------------

func (s *Store) CreateRating(_ context.Context, r rating.Rating) (rating.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ratings {
		if existing.UserID == r.UserID && existing.StoreID == r.StoreID {
			return rating.Rating{}, apperr.Conflict("rating already exists for this user and store")
		}
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.User = nil
	s.ratings[r.ID] = r
	return r, nil
}

func (s *Store) UpdateRating(_ context.Context, r rating.Rating) (rating.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ratings[r.ID]
	if !ok {
		return rating.Rating{}, sql.ErrNoRows
	}

	r.UserID = existing.UserID
	r.StoreID = existing.StoreID
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	r.User = nil
	s.ratings[r.ID] = r
	return r, nil
}

func (s *Store) GetRating(_ context.Context, id string) (rating.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ratings[id]
	if !ok {
		return rating.Rating{}, sql.ErrNoRows
	}
	return r, nil
}

func (s *Store) GetRatingByUserAndStore(_ context.Context, userID, storeID string) (rating.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.ratings {
		if r.UserID == userID && r.StoreID == storeID {
			return r, nil
		}
	}
	return rating.Rating{}, sql.ErrNoRows
}

func (s *Store) ListRatings(_ context.Context) ([]rating.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]rating.Rating, 0, len(s.ratings))
	for _, r := range s.ratings {
		result = append(result, r)
	}
	sortRatings(result)
	return result, nil
}

func (s *Store) ListRatingsByUser(_ context.Context, userID string) ([]rating.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []rating.Rating
	for _, r := range s.ratings {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sortRatings(result)
	return result, nil
}

func (s *Store) ListRatingsByStore(_ context.Context, storeID string) ([]rating.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []rating.Rating
	for _, r := range s.ratings {
		if r.StoreID == storeID {
			result = append(result, r)
		}
	}
	sortRatings(result)
	return result, nil
}

func (s *Store) DeleteRating(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ratings[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.ratings, id)
	return nil
}

func (s *Store) CountRatings(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ratings), nil
}

func (s *Store) deleteRatingsByStoreLocked(storeID string) {
	for id, r := range s.ratings {
		if r.StoreID == storeID {
			delete(s.ratings, id)
		}
	}
}

func sortRatings(ratings []rating.Rating) {
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[j].CreatedAt.Before(ratings[i].CreatedAt)
	})
}
