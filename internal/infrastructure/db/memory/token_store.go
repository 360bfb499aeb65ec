// Package memory provides an in-process TokenStore used when no Redis
// is configured (single-instance deployments, tests). Sessions do not
// survive a restart; a restarted portal simply asks users to log in
// again.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// TokenStore is a mutex-guarded map with per-entry expiry, checked
// lazily on read.
type TokenStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (t *TokenStore) Set(_ context.Context, sessionID, token string, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = t.now().Add(ttl)
	}
	t.entries[sessionID] = entry{token: token, expiresAt: expiresAt}
	return nil
}

func (t *TokenStore) Get(_ context.Context, sessionID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[sessionID]
	if !ok {
		return "", nil
	}
	if !e.expiresAt.IsZero() && t.now().After(e.expiresAt) {
		delete(t.entries, sessionID)
		return "", nil
	}
	return e.token, nil
}

func (t *TokenStore) Delete(_ context.Context, sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, sessionID)
	return nil
}
