package ports

import (
	"context"

	"github.com/carstock/admin-portal/internal/core/domain"
)

// SessionService owns bearer-token custody and role derivation.
//
// Login exchanges credentials for a backend token and stores it under a
// freshly minted session ID (the cookie value). Resolve turns a cookie
// value back into a session: a missing or empty token yields a zero
// session, never an error. The role is decoded from the token's claims
// segment without signature verification; any decode failure silently
// yields no role.
type SessionService interface {
	Login(ctx context.Context, email, password string) (sessionID string, err error)
	Register(ctx context.Context, email, password, role string) error
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, sessionID string) domain.Session
}
