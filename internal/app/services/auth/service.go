// Package auth implements signup, login and token verification.
// Tokens are stateless HS256 JWTs; verification re-reads the user so a
// deleted account or changed role takes effect immediately.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/storage"
	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/internal/validation"
	"github.com/ratewise/platform/pkg/logger"
)

// DefaultTokenTTL applies when the config does not set one.
const DefaultTokenTTL = 24 * time.Hour

const bcryptCost = 10

// Config carries the signing material for issued tokens.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   user.Role
}

// SignupInput is the self-registration payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// Service issues and verifies tokens and manages credentials.
type Service struct {
	users  storage.Users
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
}

// New creates the auth service. A nil logger gets a default one.
func New(users storage.Users, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth-service")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		users:  users,
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		log:    log,
	}
}

// Signup registers a new account with the USER role and returns a
// token for it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (string, user.User, error) {
	v := validation.Errors{}
	v.Required("name", in.Name)
	v.Length("name", in.Name, validation.NameMinLength, validation.NameMaxLength)
	v.Required("email", in.Email)
	v.Email("email", in.Email)
	v.Password("password", in.Password)
	v.Required("address", in.Address)
	v.MaxLength("address", in.Address, validation.AddressMaxLength)
	if err := v.Err(); err != nil {
		return "", user.User{}, err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return "", user.User{}, apperr.Conflict("email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Address:      in.Address,
		Role:         user.RoleUser,
	})
	if err != nil {
		return "", user.User{}, err
	}

	token, err := s.issueToken(created)
	if err != nil {
		return "", user.User{}, err
	}

	s.log.WithField("userId", created.ID).Info("user registered")
	return token, created, nil
}

// Login checks credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", user.User{}, apperr.Unauthorized("invalid credentials")
		}
		return "", user.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", user.User{}, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}

// Verify parses a token and confirms the account still exists. The
// returned identity carries the account's current role, not the one
// embedded in the token.
func (s *Service) Verify(ctx context.Context, tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.Unauthorized("invalid or expired token")
	}

	u, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return Identity{}, apperr.Unauthorized("invalid or expired token")
	}

	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// Profile returns the account behind an identity.
func (s *Service) Profile(ctx context.Context, userID string) (user.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, apperr.NotFound("user %s not found", userID)
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *Service) issueToken(u user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// HashPassword hashes a plaintext password for storage. Shared with
// the users service so admin-created accounts use the same cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
