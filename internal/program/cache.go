package program

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"
)

// legacyCacheKey predates multi-user support. It is still consulted on
// reads so data cached by old clients keeps working, but never written.
const legacyCacheKey = "recommendations"

// CacheKey is the per-user cache key for recommendation entries.
func CacheKey(userID int64) string {
	return fmt.Sprintf("recommendations_%d", userID)
}

// Cache is a keyed store with session lifetime. It is injected so tests can
// substitute an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// SessionCache stores cache entries in the scs session, giving them exactly
// the session's lifetime: cleared on logout and expiry, shared by every
// request of the same session.
type SessionCache struct {
	sessions *scs.SessionManager
}

// NewSessionCache creates a session-backed cache.
func NewSessionCache(sessions *scs.SessionManager) *SessionCache {
	return &SessionCache{sessions: sessions}
}

// Get returns the value stored under key in the current session.
func (c *SessionCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value := c.sessions.GetBytes(ctx, key)
	return value, value != nil
}

// Set stores the value under key in the current session.
func (c *SessionCache) Set(ctx context.Context, key string, value []byte) {
	c.sessions.Put(ctx, key, value)
}
