// Package contexthelpers carries request-scoped identity through context.
package contexthelpers

import (
	"context"
)

type contextKey string

const (
	// IsAuthenticatedContextKey marks a request with an established session.
	IsAuthenticatedContextKey = contextKey("isAuthenticated")
	// AuthenticatedUserIDContextKey holds the signed-in user's id.
	AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")
	// CurrentPathContextKey holds the request path for logging.
	CurrentPathContextKey = contextKey("currentPath")
)

// Authenticate returns a context identifying the given user.
func Authenticate(ctx context.Context, userID int64) context.Context {
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	return context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
}

// SetCurrentPath records the request path in the context.
func SetCurrentPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, CurrentPathContextKey, path)
}

// IsAuthenticated reports whether the request has an established session.
func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}
	return isAuthenticated
}

// AuthenticatedUserID returns the signed-in user's id or zero.
func AuthenticatedUserID(ctx context.Context) int64 {
	userID, ok := ctx.Value(AuthenticatedUserIDContextKey).(int64)
	if !ok {
		return 0
	}
	return userID
}

// CurrentPath returns the request path recorded by the middleware.
func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}
	return currentPath
}
