package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/storage/memory"
	apperr "github.com/ratewise/platform/internal/errors"
)

func newService() *Service {
	return New(memory.New(), Config{Secret: "test-secret", TokenTTL: time.Hour}, nil)
}

var validSignup = SignupInput{
	Name:     "Johnathan Maxwell Abernathy",
	Email:    "john@example.com",
	Password: "Secure@pass1",
	Address:  "42 Long Street, Springfield",
}

func TestSignupAssignsUserRole(t *testing.T) {
	s := newService()

	token, u, err := s.Signup(context.Background(), validSignup)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if u.Role != user.RoleUser {
		t.Fatalf("expected role USER, got %s", u.Role)
	}
	if u.PasswordHash == validSignup.Password {
		t.Fatal("password stored in plaintext")
	}
}

func TestSignupValidation(t *testing.T) {
	s := newService()
	ctx := context.Background()

	cases := []struct {
		name  string
		mut   func(in *SignupInput)
		field string
	}{
		{"short name", func(in *SignupInput) { in.Name = "Too Short" }, "name"},
		{"bad email", func(in *SignupInput) { in.Email = "not-an-email" }, "email"},
		{"weak password", func(in *SignupInput) { in.Password = "weakpass" }, "password"},
		{"missing address", func(in *SignupInput) { in.Address = "" }, "address"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSignup
			tc.mut(&in)
			_, _, err := s.Signup(ctx, in)
			if !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var svcErr *apperr.ServiceError
			if !apperr.AsServiceError(err, &svcErr) {
				t.Fatalf("expected ServiceError, got %T", err)
			}
			if _, ok := svcErr.Details[tc.field]; !ok {
				t.Fatalf("expected message for field %q, got %v", tc.field, svcErr.Details)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newService()
	ctx := context.Background()

	if _, _, err := s.Signup(ctx, validSignup); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	in := validSignup
	in.Name = "Different Person Entirely Here"
	if _, _, err := s.Signup(ctx, in); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginAndVerify(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, created, err := s.Signup(ctx, validSignup)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, _, err := s.Login(ctx, validSignup.Email, validSignup.Password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	id, err := s.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != created.ID || id.Role != user.RoleUser {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := newService()
	ctx := context.Background()

	if _, _, err := s.Signup(ctx, validSignup); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := s.Login(ctx, validSignup.Email, "Wrong@pass123"); !isUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, _, err := s.Login(ctx, "nobody@example.com", validSignup.Password); !isUnauthorized(err) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := newService()

	if _, err := s.Verify(context.Background(), "not.a.token"); !isUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	issuer := New(store, Config{Secret: "one-secret"}, nil)
	verifier := New(store, Config{Secret: "other-secret"}, nil)

	token, _, err := issuer.Signup(ctx, validSignup)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := verifier.Verify(ctx, token); !isUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := New(store, Config{Secret: "test-secret"}, nil)

	token, created, err := s.Signup(ctx, validSignup)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := store.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Verify(ctx, token); !isUnauthorized(err) {
		t.Fatalf("expected unauthorized after delete, got %v", err)
	}
}

func TestVerifyUsesCurrentRole(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := New(store, Config{Secret: "test-secret"}, nil)

	token, created, err := s.Signup(ctx, validSignup)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	created.Role = user.RoleAdmin
	if _, err := store.UpdateUser(ctx, created); err != nil {
		t.Fatalf("promote: %v", err)
	}

	id, err := s.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Role != user.RoleAdmin {
		t.Fatalf("expected promoted role in identity, got %s", id.Role)
	}
}

func isUnauthorized(err error) bool {
	var svcErr *apperr.ServiceError
	return apperr.AsServiceError(err, &svcErr) && svcErr.Code == apperr.CodeUnauthorized
}

func TestTokenHasExpiry(t *testing.T) {
	s := newService()
	ctx := context.Background()

	token, _, err := s.Signup(ctx, validSignup)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %d parts", len(parts))
	}
}
