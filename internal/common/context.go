package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
	RoleKey     contextKey = "role"
)

// AuthContext is the request-scoped identity bound by the tenant guard after
// a token passed signature, expiry and the hard tenant check. It is threaded
// through the request context, never stored in shared state.
type AuthContext struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

// WithAuth binds the authenticated identity into ctx.
func WithAuth(ctx context.Context, auth AuthContext) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, auth.UserID)
	ctx = context.WithValue(ctx, TenantIDKey, auth.TenantID)
	return context.WithValue(ctx, RoleKey, auth.Role)
}

// GetAuthFromContext extracts the bound identity, if any.
func GetAuthFromContext(ctx context.Context) (AuthContext, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok {
		return AuthContext{}, false
	}
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	if !ok {
		return AuthContext{}, false
	}
	role, ok := ctx.Value(RoleKey).(string)
	if !ok {
		return AuthContext{}, false
	}
	return AuthContext{UserID: userID, TenantID: tenantID, Role: role}, true
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}
