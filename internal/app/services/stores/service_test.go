package stores

import (
	"context"
	"testing"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/storage/memory"
	apperr "github.com/ratewise/platform/internal/errors"
)

type fixture struct {
	svc   *Service
	store *memory.Store
	owner user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()
	owner, err := mem.CreateUser(context.Background(), user.User{
		Name:  "Registered Store Owner Name",
		Email: "owner@example.com",
		Role:  user.RoleStoreOwner,
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return &fixture{svc: New(mem, mem, mem, nil), store: mem, owner: owner}
}

func (f *fixture) validInput() CreateInput {
	return CreateInput{
		Name:    "The Corner Grocery Emporium",
		Email:   "grocery@example.com",
		Address: "7 Market Lane",
		OwnerID: f.owner.ID,
	}
}

func TestCreateRequiresExistingOwner(t *testing.T) {
	f := newFixture(t)

	in := f.validInput()
	in.OwnerID = "ghost"
	if _, err := f.svc.Create(context.Background(), in); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for missing owner, got %v", err)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	in := f.validInput()
	in.Name = "Another Shop With Same Email"
	if _, err := f.svc.Create(ctx, in); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestNewStoreHasZeroAggregates(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), f.validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.AverageRating != 0 || created.TotalRatings != 0 {
		t.Fatalf("expected zero aggregates, got %v/%d", created.AverageRating, created.TotalRatings)
	}
}

func TestGetComputesAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, v := range []int{5, 5, 4} {
		rater, err := f.store.CreateUser(ctx, user.User{
			Name:  "Numbered Rating Author Name",
			Email: string(rune('a'+i)) + "-rater@example.com",
			Role:  user.RoleUser,
		})
		if err != nil {
			t.Fatalf("seed rater %d: %v", i, err)
		}
		if _, err := f.store.CreateRating(ctx, rating.Rating{UserID: rater.ID, StoreID: created.ID, Value: v}); err != nil {
			t.Fatalf("seed rating %d: %v", i, err)
		}
	}

	got, err := f.svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AverageRating != 4.7 {
		t.Fatalf("expected average 4.7, got %v", got.AverageRating)
	}
	if got.TotalRatings != 3 || len(got.Ratings) != 3 {
		t.Fatalf("expected 3 ratings, got %d/%d", got.TotalRatings, len(got.Ratings))
	}
	if got.Owner == nil || got.Owner.ID != f.owner.ID {
		t.Fatalf("owner not attached: %+v", got.Owner)
	}
}

func TestStatsDistribution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, v := range []int{1, 3, 3, 5} {
		rater, err := f.store.CreateUser(ctx, user.User{
			Name:  "Numbered Rating Author Name",
			Email: string(rune('a'+i)) + "-dist@example.com",
			Role:  user.RoleUser,
		})
		if err != nil {
			t.Fatalf("seed rater %d: %v", i, err)
		}
		if _, err := f.store.CreateRating(ctx, rating.Rating{UserID: rater.ID, StoreID: created.ID, Value: v}); err != nil {
			t.Fatalf("seed rating %d: %v", i, err)
		}
	}

	stats, err := f.svc.Stats(ctx, created.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalRatings != 4 {
		t.Fatalf("expected 4 ratings, got %d", stats.TotalRatings)
	}
	want := map[int]int{1: 1, 2: 0, 3: 2, 4: 0, 5: 1}
	sum := 0
	for v, count := range stats.RatingDistribution {
		if want[v] != count {
			t.Fatalf("distribution[%d] = %d, want %d", v, count, want[v])
		}
		sum += count
	}
	if sum != stats.TotalRatings {
		t.Fatalf("distribution sums to %d, want %d", sum, stats.TotalRatings)
	}
	if stats.AverageRating != 3.0 {
		t.Fatalf("expected average 3.0, got %v", stats.AverageRating)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := f.svc.Stats(ctx, created.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.AverageRating != 0 || stats.TotalRatings != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestUpdateOwnerMustExist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ghost := "ghost"
	if _, err := f.svc.Update(ctx, created.ID, UpdateInput{OwnerID: &ghost}); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for missing owner, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := f.store.CreateUser(ctx, user.User{
		Name:  "Second Store Owner Full Name",
		Email: "other-owner@example.com",
		Role:  user.RoleStoreOwner,
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	in := f.validInput()
	in.Email = "second-store@example.com"
	in.OwnerID = other.ID
	if _, err := f.svc.Create(ctx, in); err != nil {
		t.Fatalf("create second: %v", err)
	}

	mine, err := f.svc.ListByOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(mine) != 1 || mine[0].OwnerID != f.owner.ID {
		t.Fatalf("unexpected listing: %+v", mine)
	}
}

func TestDeleteMissing(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Delete(context.Background(), "nope"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
