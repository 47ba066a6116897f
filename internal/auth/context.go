package auth

import (
	"context"
)

type contextKey string

const identityContextKey contextKey = "auth_identity"

// Identity describes the caller of an authenticated request.
type Identity struct {
	KeyID  string `json:"key_id"`
	UserID string `json:"user_id,omitempty"`
}

// ContextWithIdentity adds the caller identity to ctx.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the caller identity or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey).(*Identity)
	return id
}

// UserIDFromContext returns the owner id of the request, or "" when absent.
func UserIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.UserID
	}
	return ""
}

// KeyIDFromContext returns the key id of the request, or "" when absent.
func KeyIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.KeyID
	}
	return ""
}
