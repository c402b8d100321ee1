// Package postgres implements the storage interfaces on PostgreSQL
// through sqlx. Uniqueness and referential integrity are enforced by
// the schema; constraint violations are translated into conflict
// errors so callers see the same failures the memory store produces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ratewise/platform/internal/app/domain/rating"
	"github.com/ratewise/platform/internal/app/domain/store"
	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/storage"
	apperr "github.com/ratewise/platform/internal/errors"
)

const uniqueViolation = "23505"

// Store is the PostgreSQL backing store.
type Store struct {
	db *sqlx.DB
}

var _ storage.Users = (*Store)(nil)
var _ storage.Stores = (*Store)(nil)
var _ storage.Ratings = (*Store)(nil)

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// translateError maps unique constraint violations onto conflict errors.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return apperr.Conflict("email already exists")
		case "stores_email_key":
			return apperr.Conflict("store email already exists")
		case "ratings_user_id_store_id_key":
			return apperr.Conflict("rating already exists for this user and store")
		}
		return apperr.Conflict("resource already exists")
	}
	return err
}

// --- Users ---

const userColumns = "id, name, email, password_hash, address, role, created_at, updated_at"

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, address, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Address, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, translateError(err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	u.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2, password_hash = $3, address = $4, role = $5, updated_at = $6
		 WHERE id = $7`,
		u.Name, u.Email, u.PasswordHash, u.Address, u.Role, u.UpdatedAt, u.ID)
	if err != nil {
		return user.User{}, translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, sql.ErrNoRows
	}
	return s.GetUser(ctx, u.ID)
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, filter user.Filter) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var clauses []string
	var args []interface{}

	if filter.Name != "" {
		args = append(args, filter.Name)
		clauses = append(clauses, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		clauses = append(clauses, fmt.Sprintf("email ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Address != "" {
		args = append(args, filter.Address)
		clauses = append(clauses, fmt.Sprintf("address ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderClause(filter.SortBy, filter.SortOrder, []string{"name", "email", "address", "role"})

	users := []user.User{}
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM users`)
	return count, err
}

func (s *Store) CountUsersByRole(ctx context.Context, role user.Role) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM users WHERE role = $1`, role)
	return count, err
}

// --- Stores ---

const storeColumns = "id, name, email, address, owner_id, created_at, updated_at"

func (s *Store) CreateStore(ctx context.Context, st store.Store) (store.Store, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stores (id, name, email, address, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		st.ID, st.Name, st.Email, st.Address, st.OwnerID, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return store.Store{}, translateError(err)
	}
	st.Owner = nil
	st.Ratings = nil
	return st, nil
}

func (s *Store) UpdateStore(ctx context.Context, st store.Store) (store.Store, error) {
	st.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE stores SET name = $1, email = $2, address = $3, owner_id = $4, updated_at = $5
		 WHERE id = $6`,
		st.Name, st.Email, st.Address, st.OwnerID, st.UpdatedAt, st.ID)
	if err != nil {
		return store.Store{}, translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.Store{}, sql.ErrNoRows
	}
	return s.GetStore(ctx, st.ID)
}

func (s *Store) GetStore(ctx context.Context, id string) (store.Store, error) {
	var st store.Store
	err := s.db.GetContext(ctx, &st,
		`SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
	if err != nil {
		return store.Store{}, err
	}
	return st, nil
}

func (s *Store) GetStoreByEmail(ctx context.Context, email string) (store.Store, error) {
	var st store.Store
	err := s.db.GetContext(ctx, &st,
		`SELECT `+storeColumns+` FROM stores WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return store.Store{}, err
	}
	return st, nil
}

func (s *Store) ListStores(ctx context.Context, filter store.Filter) ([]store.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores`
	var clauses []string
	var args []interface{}

	if filter.Name != "" {
		args = append(args, filter.Name)
		clauses = append(clauses, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Address != "" {
		args = append(args, filter.Address)
		clauses = append(clauses, fmt.Sprintf("address ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderClause(filter.SortBy, filter.SortOrder, []string{"name", "email", "address"})

	stores := []store.Store{}
	if err := s.db.SelectContext(ctx, &stores, query, args...); err != nil {
		return nil, err
	}
	return stores, nil
}

func (s *Store) ListStoresByOwner(ctx context.Context, ownerID string) ([]store.Store, error) {
	stores := []store.Store{}
	err := s.db.SelectContext(ctx, &stores,
		`SELECT `+storeColumns+` FROM stores WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return stores, nil
}

func (s *Store) DeleteStore(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) CountStores(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM stores`)
	return count, err
}

// --- Ratings ---

const ratingColumns = "id, user_id, store_id, rating, created_at, updated_at"

func (s *Store) CreateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (id, user_id, store_id, rating, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.UserID, r.StoreID, r.Value, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return rating.Rating{}, translateError(err)
	}
	r.User = nil
	return r, nil
}

func (s *Store) UpdateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	r.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE ratings SET rating = $1, updated_at = $2 WHERE id = $3`,
		r.Value, r.UpdatedAt, r.ID)
	if err != nil {
		return rating.Rating{}, translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rating.Rating{}, sql.ErrNoRows
	}
	return s.GetRating(ctx, r.ID)
}

func (s *Store) GetRating(ctx context.Context, id string) (rating.Rating, error) {
	var r rating.Rating
	err := s.db.GetContext(ctx, &r,
		`SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id)
	if err != nil {
		return rating.Rating{}, err
	}
	return r, nil
}

func (s *Store) GetRatingByUserAndStore(ctx context.Context, userID, storeID string) (rating.Rating, error) {
	var r rating.Rating
	err := s.db.GetContext(ctx, &r,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = $1 AND store_id = $2`, userID, storeID)
	if err != nil {
		return rating.Rating{}, err
	}
	return r, nil
}

func (s *Store) ListRatings(ctx context.Context) ([]rating.Rating, error) {
	ratings := []rating.Rating{}
	err := s.db.SelectContext(ctx, &ratings,
		`SELECT `+ratingColumns+` FROM ratings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *Store) ListRatingsByUser(ctx context.Context, userID string) ([]rating.Rating, error) {
	ratings := []rating.Rating{}
	err := s.db.SelectContext(ctx, &ratings,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *Store) ListRatingsByStore(ctx context.Context, storeID string) ([]rating.Rating, error) {
	ratings := []rating.Rating{}
	err := s.db.SelectContext(ctx, &ratings,
		`SELECT `+ratingColumns+` FROM ratings WHERE store_id = $1 ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *Store) DeleteRating(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) CountRatings(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM ratings`)
	return count, err
}

// orderClause builds an ORDER BY from a whitelisted column, falling back
// to creation time when the requested column is not sortable.
func orderClause(sortBy, sortOrder string, allowed []string) string {
	column := "created_at"
	for _, a := range allowed {
		if strings.EqualFold(sortBy, a) {
			column = a
			break
		}
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "ASC") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}
