package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// SessionService implements bearer-token custody: it exchanges
// credentials for a backend token, parks the token in the store under a
// random session ID, and resolves cookies back into sessions.
type SessionService struct {
	auth   ports.AuthAPI
	store  ports.TokenStore
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSessionService(auth ports.AuthAPI, store ports.TokenStore, ttl time.Duration, logger zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{auth: auth, store: store, ttl: ttl, logger: logger}
}

// Login authenticates against the backend and opens a session. The error
// returned on failure is the backend's own message so the login form can
// show it verbatim.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	sid := newSessionID()
	if err := s.store.Set(ctx, sid, token, s.ttl); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}

	s.logger.Info().Str("session_id", sid).Str("email", email).Msg("session opened")
	return sid, nil
}

// Register forwards an account creation request to the backend.
func (s *SessionService) Register(ctx context.Context, email, password, role string) error {
	return s.auth.Register(ctx, email, password, role)
}

// Logout destroys the stored token. Deleting an unknown session is not
// an error.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	s.logger.Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}

// Resolve loads the session behind a cookie value. Any store failure or
// missing token yields a logged-out zero session rather than an error:
// the caller redirects to /login either way.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) domain.Session {
	if sessionID == "" {
		return domain.Session{}
	}

	token, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("token store lookup failed")
		return domain.Session{}
	}
	if token == "" {
		return domain.Session{}
	}

	return domain.Session{ID: sessionID, Token: token, Role: RoleFromToken(token)}
}

// RoleFromToken decodes the token's claims segment without verifying the
// signature and returns the role claim. Malformed base64, malformed
// JSON, a missing claim or a non-string value all yield "" — the decode
// error is swallowed, never surfaced. The role is UI gating only; the
// backend is the real authorization boundary.
func RoleFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// newSessionID returns a 32-hex-char random session ID.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%032x", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", b)
}
