package storage

import (
	"context"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/store"
	"github.com/ratewise/platform/internal/app/domain/user"
)

// Users persists user accounts. Missing rows surface as sql.ErrNoRows;
// uniqueness violations surface as Conflict service errors.
type Users interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context, filter user.Filter) ([]user.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
	CountUsersByRole(ctx context.Context, role user.Role) (int, error)
}

// Stores persists store listings.
type Stores interface {
	CreateStore(ctx context.Context, s store.Store) (store.Store, error)
	UpdateStore(ctx context.Context, s store.Store) (store.Store, error)
	GetStore(ctx context.Context, id string) (store.Store, error)
	GetStoreByEmail(ctx context.Context, email string) (store.Store, error)
	ListStores(ctx context.Context, filter store.Filter) ([]store.Store, error)
	ListStoresByOwner(ctx context.Context, ownerID string) ([]store.Store, error)
	DeleteStore(ctx context.Context, id string) error
	CountStores(ctx context.Context) (int, error)
}

// Ratings persists rating submissions. The (user, store) pair is unique.
type Ratings interface {
	CreateRating(ctx context.Context, r rating.Rating) (rating.Rating, error)
	UpdateRating(ctx context.Context, r rating.Rating) (rating.Rating, error)
	GetRating(ctx context.Context, id string) (rating.Rating, error)
	GetRatingByUserAndStore(ctx context.Context, userID, storeID string) (rating.Rating, error)
	ListRatings(ctx context.Context) ([]rating.Rating, error)
	ListRatingsByUser(ctx context.Context, userID string) ([]rating.Rating, error)
	ListRatingsByStore(ctx context.Context, storeID string) ([]rating.Rating, error)
	DeleteRating(ctx context.Context, id string) error
	CountRatings(ctx context.Context) (int, error)
}
