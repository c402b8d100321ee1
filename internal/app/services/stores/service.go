// Package stores implements store listing management and the per-store
// rating aggregates.
package stores

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/store"
	"github.com/ratewise/platform/internal/app/storage"
	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/internal/validation"
	"github.com/ratewise/platform/pkg/logger"
)

// CreateInput is the store-creation payload.
type CreateInput struct {
	Name    string
	Email   string
	Address string
	OwnerID string
}

// UpdateInput carries a partial update. Nil fields stay unchanged.
type UpdateInput struct {
	Name    *string
	Email   *string
	Address *string
	OwnerID *string
}

// Service manages store listings.
type Service struct {
	stores  storage.Stores
	ratings storage.Ratings
	users   storage.Users
	log     *logger.Logger
}

// New creates the stores service. A nil logger gets a default one.
func New(stores storage.Stores, ratings storage.Ratings, users storage.Users, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("stores-service")
	}
	return &Service{stores: stores, ratings: ratings, users: users, log: log}
}

// Create registers a store listing after confirming the owner exists.
func (s *Service) Create(ctx context.Context, in CreateInput) (store.Store, error) {
	v := validation.Errors{}
	v.Required("name", in.Name)
	v.Length("name", in.Name, validation.NameMinLength, validation.NameMaxLength)
	v.Required("email", in.Email)
	v.Email("email", in.Email)
	v.Required("address", in.Address)
	v.MaxLength("address", in.Address, validation.AddressMaxLength)
	v.Required("ownerId", in.OwnerID)
	if err := v.Err(); err != nil {
		return store.Store{}, err
	}

	if _, err := s.users.GetUser(ctx, in.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Store{}, apperr.NotFound("owner %s not found", in.OwnerID)
		}
		return store.Store{}, err
	}

	if _, err := s.stores.GetStoreByEmail(ctx, in.Email); err == nil {
		return store.Store{}, apperr.Conflict("store email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.Store{}, err
	}

	created, err := s.stores.CreateStore(ctx, store.Store{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		OwnerID: in.OwnerID,
	})
	if err != nil {
		return store.Store{}, err
	}

	s.log.WithField("storeId", created.ID).WithField("ownerId", created.OwnerID).Info("store created")
	created.Annotate(nil)
	return created, nil
}

// List returns stores matching the filter, each annotated with its
// rating aggregates.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]store.Store, error) {
	result, err := s.stores.ListStores(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.annotateAll(ctx, result)
}

// Get returns one store with its owner, its ratings and the aggregates.
func (s *Service) Get(ctx context.Context, id string) (store.Store, error) {
	st, err := s.stores.GetStore(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Store{}, apperr.NotFound("store %s not found", id)
		}
		return store.Store{}, err
	}

	ratings, err := s.ratings.ListRatingsByStore(ctx, id)
	if err != nil {
		return store.Store{}, err
	}
	st.Ratings = ratings
	st.Annotate(ratings)

	if owner, err := s.users.GetUser(ctx, st.OwnerID); err == nil {
		st.Owner = &owner
	}
	return st, nil
}

// ListByOwner returns the stores owned by one user, with aggregates.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]store.Store, error) {
	result, err := s.stores.ListStoresByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.annotateAll(ctx, result)
}

// Update applies a partial update. Changing the email re-checks
// uniqueness; changing the owner re-checks existence.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (store.Store, error) {
	st, err := s.stores.GetStore(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Store{}, apperr.NotFound("store %s not found", id)
		}
		return store.Store{}, err
	}

	v := validation.Errors{}
	if in.Name != nil {
		v.Required("name", *in.Name)
		v.Length("name", *in.Name, validation.NameMinLength, validation.NameMaxLength)
		st.Name = *in.Name
	}
	if in.Email != nil {
		v.Email("email", *in.Email)
		st.Email = *in.Email
	}
	if in.Address != nil {
		v.Required("address", *in.Address)
		v.MaxLength("address", *in.Address, validation.AddressMaxLength)
		st.Address = *in.Address
	}
	if in.OwnerID != nil {
		v.Required("ownerId", *in.OwnerID)
		st.OwnerID = *in.OwnerID
	}
	if err := v.Err(); err != nil {
		return store.Store{}, err
	}

	if in.Email != nil {
		if other, err := s.stores.GetStoreByEmail(ctx, *in.Email); err == nil && other.ID != id {
			return store.Store{}, apperr.Conflict("store email already exists")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return store.Store{}, err
		}
	}
	if in.OwnerID != nil {
		if _, err := s.users.GetUser(ctx, *in.OwnerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.Store{}, apperr.NotFound("owner %s not found", *in.OwnerID)
			}
			return store.Store{}, err
		}
	}

	updated, err := s.stores.UpdateStore(ctx, st)
	if err != nil {
		return store.Store{}, err
	}

	ratings, err := s.ratings.ListRatingsByStore(ctx, id)
	if err != nil {
		return store.Store{}, err
	}
	updated.Annotate(ratings)
	return updated, nil
}

// Delete removes a store and its ratings.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.stores.DeleteStore(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("store %s not found", id)
		}
		return err
	}
	s.log.WithField("storeId", id).Info("store deleted")
	return nil
}

// Stats returns the aggregate document served to the store's owner.
func (s *Service) Stats(ctx context.Context, id string) (store.Stats, error) {
	if _, err := s.stores.GetStore(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Stats{}, apperr.NotFound("store %s not found", id)
		}
		return store.Stats{}, err
	}

	ratings, err := s.ratings.ListRatingsByStore(ctx, id)
	if err != nil {
		return store.Stats{}, err
	}

	return store.Stats{
		AverageRating:      rating.Average(ratings),
		TotalRatings:       len(ratings),
		RatingDistribution: rating.Distribution(ratings),
	}, nil
}

// TotalCount returns the number of stores on the platform.
func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.stores.CountStores(ctx)
}

func (s *Service) annotateAll(ctx context.Context, stores []store.Store) ([]store.Store, error) {
	for i := range stores {
		ratings, err := s.ratings.ListRatingsByStore(ctx, stores[i].ID)
		if err != nil {
			return nil, err
		}
		stores[i].Annotate(ratings)
	}
	return stores, nil
}
