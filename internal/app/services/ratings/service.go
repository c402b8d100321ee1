// Package ratings implements rating submission and the ownership rules
// around changing one. A user holds at most one rating per store;
// ratings can only be changed by their author, regardless of role.
package ratings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/storage"
	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/internal/validation"
	"github.com/ratewise/platform/pkg/logger"
)

// Service manages rating submissions.
type Service struct {
	ratings storage.Ratings
	stores  storage.Stores
	users   storage.Users
	log     *logger.Logger
}

// New creates the ratings service. A nil logger gets a default one.
func New(ratings storage.Ratings, stores storage.Stores, users storage.Users, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("ratings-service")
	}
	return &Service{ratings: ratings, stores: stores, users: users, log: log}
}

// Create submits a rating for a store. A second submission by the same
// user is rejected; the existing rating must be updated instead.
func (s *Service) Create(ctx context.Context, userID, storeID string, value int) (rating.Rating, error) {
	v := validation.Errors{}
	v.Required("userId", userID)
	v.Required("storeId", storeID)
	v.IntRange("rating", value, rating.MinValue, rating.MaxValue)
	if err := v.Err(); err != nil {
		return rating.Rating{}, err
	}

	if _, err := s.stores.GetStore(ctx, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rating.Rating{}, apperr.NotFound("store %s not found", storeID)
		}
		return rating.Rating{}, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rating.Rating{}, apperr.NotFound("user %s not found", userID)
		}
		return rating.Rating{}, err
	}

	if _, err := s.ratings.GetRatingByUserAndStore(ctx, userID, storeID); err == nil {
		return rating.Rating{}, apperr.Conflict("you have already rated this store, use update to modify your rating")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return rating.Rating{}, err
	}

	created, err := s.ratings.CreateRating(ctx, rating.Rating{
		UserID:  userID,
		StoreID: storeID,
		Value:   value,
	})
	if err != nil {
		return rating.Rating{}, err
	}

	s.log.WithField("ratingId", created.ID).WithField("storeId", storeID).Info("rating submitted")
	return created, nil
}

// List returns every rating, newest first.
func (s *Service) List(ctx context.Context) ([]rating.Rating, error) {
	return s.ratings.ListRatings(ctx)
}

// ListByUser returns one user's ratings.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]rating.Rating, error) {
	return s.ratings.ListRatingsByUser(ctx, userID)
}

// ListByStore returns a store's ratings with each rater attached.
func (s *Service) ListByStore(ctx context.Context, storeID string) ([]rating.Rating, error) {
	result, err := s.ratings.ListRatingsByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for i := range result {
		if u, err := s.users.GetUser(ctx, result[i].UserID); err == nil {
			result[i].User = &u
		}
	}
	return result, nil
}

// Get returns one rating.
func (s *Service) Get(ctx context.Context, id string) (rating.Rating, error) {
	r, err := s.ratings.GetRating(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rating.Rating{}, apperr.NotFound("rating %s not found", id)
		}
		return rating.Rating{}, err
	}
	return r, nil
}

// GetForUserAndStore returns the rating one user gave one store.
func (s *Service) GetForUserAndStore(ctx context.Context, userID, storeID string) (rating.Rating, error) {
	r, err := s.ratings.GetRatingByUserAndStore(ctx, userID, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rating.Rating{}, apperr.NotFound("rating not found for user %s and store %s", userID, storeID)
		}
		return rating.Rating{}, err
	}
	return r, nil
}

// Update changes a rating's value. Only the author may do this, whatever
// their role.
func (s *Service) Update(ctx context.Context, id, callerID string, value int) (rating.Rating, error) {
	v := validation.Errors{}
	v.IntRange("rating", value, rating.MinValue, rating.MaxValue)
	if err := v.Err(); err != nil {
		return rating.Rating{}, err
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return rating.Rating{}, err
	}
	if r.UserID != callerID {
		return rating.Rating{}, apperr.BadRequest("you can only update your own ratings")
	}

	r.Value = value
	return s.ratings.UpdateRating(ctx, r)
}

// Delete removes a rating. Only the author may do this.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.UserID != callerID {
		return apperr.BadRequest("you can only delete your own ratings")
	}

	if err := s.ratings.DeleteRating(ctx, id); err != nil {
		return err
	}
	s.log.WithField("ratingId", id).Info("rating deleted")
	return nil
}

// TotalCount returns the number of ratings on the platform.
func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.ratings.CountRatings(ctx)
}
