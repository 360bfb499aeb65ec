package ports

import (
	"context"
	"time"
)

// TokenStore persists bearer tokens keyed by session ID. Implementations:
// Redis in production, an in-process map as fallback when no Redis is
// configured and for tests.
//
// Get returns ("", nil) when no token is stored for the session — an
// absent token is a normal state (logged out), not an error.
type TokenStore interface {
	Set(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
