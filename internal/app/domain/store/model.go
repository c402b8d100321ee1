package store

import (
	"time"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/user"
)

// Store is a rateable business listing owned by a user.
type Store struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Address   string    `json:"address" db:"address"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations and aggregates, attached on read. Never persisted.
	Owner         *user.User      `json:"owner,omitempty" db:"-"`
	Ratings       []rating.Rating `json:"ratings,omitempty" db:"-"`
	AverageRating float64         `json:"averageRating" db:"-"`
	TotalRatings  int             `json:"totalRatings" db:"-"`
}

// Annotate computes the derived aggregates from the given rating rows.
func (s *Store) Annotate(ratings []rating.Rating) {
	s.AverageRating = rating.Average(ratings)
	s.TotalRatings = len(ratings)
}

// Filter narrows and orders store listings. Name and Address are
// case-insensitive substring matches.
type Filter struct {
	Name      string
	Address   string
	SortBy    string
	SortOrder string
}

// Stats is the per-store aggregate document served to store owners.
type Stats struct {
	AverageRating      float64     `json:"averageRating"`
	TotalRatings       int         `json:"totalRatings"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}
