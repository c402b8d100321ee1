package rating

import (
	"math"
	"time"

	"github.com/ratewise/platform/internal/app/domain/user"
)

// MinValue and MaxValue bound the accepted star values.
const (
	MinValue = 1
	MaxValue = 5
)

// Rating is a single 1-5 star submission by a user for a store. The
// (UserID, StoreID) pair is unique; a second submission must go through
// update.
type Rating struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	StoreID   string    `json:"storeId" db:"store_id"`
	Value     int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// User is the rater identity, attached on reads that request it.
	User *user.User `json:"user,omitempty" db:"-"`
}

// Average computes the arithmetic mean of the given ratings rounded half-up
// to one decimal place. An empty slice yields 0.
func Average(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

// Distribution maps each star value 1..5 to its count. Absent values are
// present with count 0, so the values always sum to len(ratings).
func Distribution(ratings []Rating) map[int]int {
	dist := make(map[int]int, MaxValue)
	for v := MinValue; v <= MaxValue; v++ {
		dist[v] = 0
	}
	for _, r := range ratings {
		if r.Value >= MinValue && r.Value <= MaxValue {
			dist[r.Value]++
		}
	}
	return dist
}
