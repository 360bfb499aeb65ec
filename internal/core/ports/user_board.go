package ports

import (
	"context"

	"github.com/carstock/admin-portal/internal/core/domain"
)

// UserBoardView is the render-ready snapshot of one session's user board.
type UserBoardView struct {
	Users   []domain.User
	Loading bool
	Error   string
	Notice  string
}

// UserBoard maintains the per-session user list. Deletion is optimistic
// on success: the entry is removed from the local list without a
// refetch, and the success notice self-clears after a fixed delay.
type UserBoard interface {
	Load(ctx context.Context, sess domain.Session) error
	View(sessionID string) UserBoardView
	Delete(ctx context.Context, sess domain.Session, userID string) error
	Refresh(ctx context.Context, sess domain.Session) error
	Drop(sessionID string)
}
