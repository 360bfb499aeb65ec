package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore persists session bearer tokens in Redis.
// Key format: session:<session_id>, value is the raw token, expiring
// with the session TTL so abandoned sessions clean themselves up.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Set stores the token under the session ID for ttl.
func (t *TokenStore) Set(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	if err := t.client.Set(ctx, t.key(sessionID), token, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Get returns the stored token, or "" when the session is unknown or
// expired. A missing token is not an error.
func (t *TokenStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := t.client.Get(ctx, t.key(sessionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get: %w", err)
	}
	return token, nil
}

// Delete removes the stored token. Deleting an absent key is a no-op.
func (t *TokenStore) Delete(ctx context.Context, sessionID string) error {
	if err := t.client.Del(ctx, t.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (t *TokenStore) key(sessionID string) string {
	return "session:" + sessionID
}
