// Package users implements account management for administrators.
package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/services/auth"
	"github.com/ratewise/platform/internal/app/storage"
	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/internal/validation"
	"github.com/ratewise/platform/pkg/logger"
)

// CreateInput is the admin account-creation payload. An empty Role
// defaults to USER.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     user.Role
}

// UpdateInput carries a partial update. Nil fields stay unchanged.
type UpdateInput struct {
	Name    *string
	Email   *string
	Address *string
	Role    *user.Role
}

// Service manages user accounts.
type Service struct {
	users storage.Users
	log   *logger.Logger
}

// New creates the users service. A nil logger gets a default one.
func New(users storage.Users, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users-service")
	}
	return &Service{users: users, log: log}
}

// Create registers an account with an explicit role.
func (s *Service) Create(ctx context.Context, in CreateInput) (user.User, error) {
	if in.Role == "" {
		in.Role = user.RoleUser
	}

	v := validation.Errors{}
	v.Required("name", in.Name)
	v.Length("name", in.Name, validation.NameMinLength, validation.NameMaxLength)
	v.Required("email", in.Email)
	v.Email("email", in.Email)
	v.Password("password", in.Password)
	v.Required("address", in.Address)
	v.MaxLength("address", in.Address, validation.AddressMaxLength)
	v.OneOf("role", string(in.Role), string(user.RoleAdmin), string(user.RoleUser), string(user.RoleStoreOwner))
	if err := v.Err(); err != nil {
		return user.User{}, err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return user.User{}, apperr.Conflict("email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return user.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         in.Role,
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.WithField("userId", created.ID).WithField("role", string(created.Role)).Info("user created")
	return created, nil
}

// List returns accounts matching the filter.
func (s *Service) List(ctx context.Context, filter user.Filter) ([]user.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperr.BadRequest("unknown role %q", filter.Role)
	}
	return s.users.ListUsers(ctx, filter)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, apperr.NotFound("user %s not found", id)
		}
		return user.User{}, err
	}
	return u, nil
}

// Update applies a partial update. Changing the email re-checks
// uniqueness; a collision leaves the account untouched.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (user.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	v := validation.Errors{}
	if in.Name != nil {
		v.Required("name", *in.Name)
		v.Length("name", *in.Name, validation.NameMinLength, validation.NameMaxLength)
		u.Name = *in.Name
	}
	if in.Email != nil {
		v.Email("email", *in.Email)
		u.Email = *in.Email
	}
	if in.Address != nil {
		v.Required("address", *in.Address)
		v.MaxLength("address", *in.Address, validation.AddressMaxLength)
		u.Address = *in.Address
	}
	if in.Role != nil {
		v.OneOf("role", string(*in.Role), string(user.RoleAdmin), string(user.RoleUser), string(user.RoleStoreOwner))
		u.Role = *in.Role
	}
	if err := v.Err(); err != nil {
		return user.User{}, err
	}

	if in.Email != nil {
		if other, err := s.users.GetUserByEmail(ctx, *in.Email); err == nil && other.ID != id {
			return user.User{}, apperr.Conflict("email already exists")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return user.User{}, err
		}
	}

	return s.users.UpdateUser(ctx, u)
}

// UpdatePassword changes an account's password after checking the
// current one.
func (s *Service) UpdatePassword(ctx context.Context, id, current, next string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(u.PasswordHash, current) {
		return apperr.BadRequest("current password is incorrect")
	}

	v := validation.Errors{}
	v.Password("password", next)
	if err := v.Err(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return err
	}
	s.log.WithField("userId", id).Info("password updated")
	return nil
}

// Delete removes an account and everything it owns.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("user %s not found", id)
		}
		return err
	}
	s.log.WithField("userId", id).Info("user deleted")
	return nil
}

// Stats returns account counts by role.
func (s *Service) Stats(ctx context.Context) (user.Stats, error) {
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return user.Stats{}, err
	}
	admins, err := s.users.CountUsersByRole(ctx, user.RoleAdmin)
	if err != nil {
		return user.Stats{}, err
	}
	owners, err := s.users.CountUsersByRole(ctx, user.RoleStoreOwner)
	if err != nil {
		return user.Stats{}, err
	}
	return user.Stats{
		TotalUsers:       total,
		TotalAdmins:      admins,
		TotalStoreOwners: owners,
	}, nil
}
