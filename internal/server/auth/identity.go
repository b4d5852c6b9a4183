package auth

import "context"

// Identity is the authenticated principal taken from a verified access token.
type Identity struct {
	UserID int64
	Email  string
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity attached by the bearer guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// UserIDFromContext is a shortcut for handlers that only need the user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return 0, false
	}
	return id.UserID, true
}
