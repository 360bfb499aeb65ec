package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// noticeTTL is how long the delete success message stays visible.
const noticeTTL = 3 * time.Second

const (
	msgLoadUsersFailed  = "Failed to load users. Please try again."
	msgDeleteUserFailed = "Failed to delete user. Please try again."
	msgUserDeleted      = "User deleted successfully"
)

// UserBoardService keeps one user board per session: the fetched user
// list plus loading/error/success transient state. Deletion is
// optimistic on success — the entry is dropped from the local list
// without a refetch.
type UserBoardService struct {
	users  ports.UserAPI
	logger zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	boards map[string]*userBoard
}

type userBoard struct {
	mu          sync.Mutex
	users       []domain.User
	loading     bool
	errMsg      string
	notice      string
	noticeUntil time.Time
}

func NewUserBoardService(users ports.UserAPI, logger zerolog.Logger) *UserBoardService {
	return &UserBoardService{
		users:  users,
		logger: logger,
		now:    time.Now,
		boards: make(map[string]*userBoard),
	}
}

func (s *UserBoardService) board(sessionID string) *userBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[sessionID]
	if !ok {
		b = &userBoard{}
		s.boards[sessionID] = b
	}
	return b
}

// Load fetches the full user list. The loading flag is up for the
// duration of the fetch; a 403 failure is reported distinctly from a
// generic one.
func (s *UserBoardService) Load(ctx context.Context, sess domain.Session) error {
	b := s.board(sess.ID)
	b.mu.Lock()
	b.loading = true
	b.errMsg = ""
	b.mu.Unlock()

	users, err := s.users.List(ctx, sess.Token)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("load users failed")
		b.errMsg = loadErrorMessage(err, msgLoadUsersFailed)
		return err
	}
	b.users = users
	return nil
}

// Delete removes a user. On success the entry leaves the local list
// exactly once and a success notice is shown that self-clears after
// noticeTTL. On failure the error message replaces any stale notice.
// Re-deleting an already removed ID is left to the backend to reject.
func (s *UserBoardService) Delete(ctx context.Context, sess domain.Session, userID string) error {
	err := s.users.Delete(ctx, sess.Token, userID)

	b := s.board(sess.ID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("delete user failed")
		b.errMsg = loadErrorMessage(err, msgDeleteUserFailed)
		b.notice = ""
		return err
	}

	kept := b.users[:0]
	for _, u := range b.users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	b.users = kept
	b.errMsg = ""
	b.notice = msgUserDeleted
	b.noticeUntil = s.now().Add(noticeTTL)
	return nil
}

// Refresh clears the success notice and reloads the list.
func (s *UserBoardService) Refresh(ctx context.Context, sess domain.Session) error {
	b := s.board(sess.ID)
	b.mu.Lock()
	b.notice = ""
	b.mu.Unlock()
	return s.Load(ctx, sess)
}

// View renders the board. An expired success notice is dropped here, so
// the message clears itself without a background timer.
func (s *UserBoardService) View(sessionID string) ports.UserBoardView {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.notice != "" && s.now().After(b.noticeUntil) {
		b.notice = ""
	}

	users := make([]domain.User, len(b.users))
	copy(users, b.users)
	return ports.UserBoardView{
		Users:   users,
		Loading: b.loading,
		Error:   b.errMsg,
		Notice:  b.notice,
	}
}

// Drop discards the board. Called on logout.
func (s *UserBoardService) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, sessionID)
}
