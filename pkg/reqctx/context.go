// Package reqctx carries per-request values through context.Context.
package reqctx

import (
	"context"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey int

const (
	keyToken ctxKey = iota
	keyPrincipal
	keyRequestID
)

// Principal is the authenticated caller as far as storage layers care.
type Principal struct {
	UserID string
	Role   string
}

// WithToken stores the raw bearer token of the request.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyToken, token)
}

// TokenFromContext returns the bearer token, or false if none was sent.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(keyToken).(string)
	return token, ok && token != ""
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

// PrincipalFromContext returns the caller, or false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(Principal)
	return p, ok && p.UserID != ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}
