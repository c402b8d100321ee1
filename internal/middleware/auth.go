package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/app/services/auth"
	apperr "github.com/ratewise/platform/internal/errors"
	"github.com/ratewise/platform/pkg/logger"
)

// Verifier validates a bearer token and resolves the caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// Authenticate extracts the Bearer token, verifies it and attaches the
// caller identity to the request context.
func Authenticate(verifier Verifier, log *logger.Logger) mux.MiddlewareFunc {
	if log == nil {
		log = logger.NewDefault("auth-middleware")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeServiceError(w, apperr.Unauthorized("missing Authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeServiceError(w, apperr.Unauthorized("invalid Authorization header format"))
				return
			}

			identity, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Warn("token verification failed")
				var svcErr *apperr.ServiceError
				if !apperr.AsServiceError(err, &svcErr) {
					svcErr = apperr.Unauthorized("invalid or expired token")
				}
				writeServiceError(w, svcErr)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// It assumes Authenticate ran earlier in the chain.
func RequireRoles(roles ...user.Role) mux.MiddlewareFunc {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeServiceError(w, apperr.Unauthorized("authentication required"))
				return
			}
			if len(allowed) > 0 {
				if _, ok := allowed[identity.Role]; !ok {
					writeServiceError(w, apperr.Forbidden("insufficient role"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
