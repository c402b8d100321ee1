// Package middleware provides the HTTP middleware chain: tracing,
// CORS, authentication, role checks, metrics and rate limiting.
package middleware

import (
	"context"

	"github.com/ratewise/platform/internal/app/services/auth"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	traceIDKey  contextKey = "traceID"
)

// WithIdentity attaches a verified caller to the context.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the verified caller, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// WithTraceID attaches a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFrom returns the request's trace ID, or "" when absent.
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}
