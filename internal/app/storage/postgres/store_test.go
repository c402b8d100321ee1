package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/store"
	"github.com/ratewise/platform/internal/app/domain/user"
	apperr "github.com/ratewise/platform/internal/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "postgres")), mock
}

func TestCreateUserTranslatesUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := s.CreateUser(context.Background(), user.User{Name: "Duplicated Person Full Name", Email: "dup@example.com"})
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateRatingTranslatesUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO ratings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "ratings_user_id_store_id_key"})

	_, err := s.CreateRating(context.Background(), rating.Rating{UserID: "u1", StoreID: "s1", Value: 4})
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateMissingRowReturnsNoRows(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE stores").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateStore(context.Background(), store.Store{ID: "missing"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestOrderClauseWhitelist(t *testing.T) {
	allowed := []string{"name", "email"}

	if got := orderClause("name", "ASC", allowed); got != " ORDER BY name ASC" {
		t.Fatalf("unexpected clause: %q", got)
	}
	if got := orderClause("email; DROP TABLE users", "DESC", allowed); got != " ORDER BY created_at DESC" {
		t.Fatalf("unsafe column not rejected: %q", got)
	}
	if got := orderClause("", "sideways", allowed); got != " ORDER BY created_at DESC" {
		t.Fatalf("unexpected default clause: %q", got)
	}
}

// Integration coverage runs only against a real database.
func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	s := New(db)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, user.User{
		Name:         "Integration Test Person Name",
		Email:        "integration@example.com",
		PasswordHash: "x",
		Role:         user.RoleStoreOwner,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	defer s.DeleteUser(ctx, u.ID)

	st, err := s.CreateStore(ctx, store.Store{
		Name:    "Integration Test Store Name",
		Email:   "integration-store@example.com",
		OwnerID: u.ID,
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	r, err := s.CreateRating(ctx, rating.Rating{UserID: u.ID, StoreID: st.ID, Value: 5})
	if err != nil {
		t.Fatalf("create rating: %v", err)
	}

	if _, err := s.CreateRating(ctx, rating.Rating{UserID: u.ID, StoreID: st.ID, Value: 1}); !apperr.IsConflict(err) {
		t.Fatalf("expected duplicate rating conflict, got %v", err)
	}

	if err := s.DeleteStore(ctx, st.ID); err != nil {
		t.Fatalf("delete store: %v", err)
	}
	if _, err := s.GetRating(ctx, r.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("rating should cascade with store, got %v", err)
	}
}
