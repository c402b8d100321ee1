package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/services/auth"
	apperr "github.com/ratewise/platform/internal/errors"
)

type stubVerifier struct {
	identity auth.Identity
	err      error
}

func (s stubVerifier) Verify(context.Context, string) (auth.Identity, error) {
	return s.identity, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingHeader(t *testing.T) {
	h := Authenticate(stubVerifier{}, nil)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization")
}

func TestAuthenticateBadScheme(t *testing.T) {
	h := Authenticate(stubVerifier{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	h := Authenticate(stubVerifier{err: apperr.Unauthorized("invalid or expired token")}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	identity := auth.Identity{UserID: "u1", Email: "u@example.com", Role: user.RoleAdmin}

	var seen auth.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		seen = got
		w.WriteHeader(http.StatusOK)
	})

	h := Authenticate(stubVerifier{identity: identity}, nil)(inner)
	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, identity, seen)
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name    string
		role    user.Role
		allowed []user.Role
		want    int
	}{
		{"admin allowed", user.RoleAdmin, []user.Role{user.RoleAdmin}, http.StatusOK},
		{"user rejected", user.RoleUser, []user.Role{user.RoleAdmin}, http.StatusForbidden},
		{"owner in set", user.RoleStoreOwner, []user.Role{user.RoleAdmin, user.RoleStoreOwner}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := RequireRoles(tc.allowed...)(okHandler())
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			req = req.WithContext(WithIdentity(req.Context(), auth.Identity{UserID: "u1", Role: tc.role}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	h := RequireRoles(user.RoleAdmin)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiterThrottles(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	h := rl.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.RemoteAddr = "203.0.113.9:4711"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimiterKeysByCaller(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	h := rl.Handler(okHandler())

	a := httptest.NewRequest(http.MethodGet, "/stores", nil)
	a.RemoteAddr = "203.0.113.1:1000"
	b := httptest.NewRequest(http.MethodGet, "/stores", nil)
	b.RemoteAddr = "203.0.113.2:1000"

	recA := httptest.NewRecorder()
	h.ServeHTTP(recA, a)
	recB := httptest.NewRecorder()
	h.ServeHTTP(recB, b)

	assert.Equal(t, http.StatusOK, recA.Code)
	assert.Equal(t, http.StatusOK, recB.Code)
}
