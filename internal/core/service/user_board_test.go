package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carstock/admin-portal/internal/core/domain"
)

type stubUserAPI struct {
	users     []domain.User
	listErr   error
	deleteErr error
	deleted   []string
}

func (s *stubUserAPI) List(_ context.Context, _ string) ([]domain.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *stubUserAPI) Delete(_ context.Context, _, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func userFixtures() []domain.User {
	return []domain.User{
		{ID: "u1", Email: "admin@example.com", Role: domain.RoleAdmin},
		{ID: "u2", Email: "one@example.com", Role: domain.RoleUser},
		{ID: "u3", Email: "two@example.com", Role: domain.RoleUser},
	}
}

func TestUserBoard_Load(t *testing.T) {
	api := &stubUserAPI{users: userFixtures()}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := adminSession()

	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}
	v := svc.View(sess.ID)
	if len(v.Users) != 3 || v.Loading || v.Error != "" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

// A non-admin token reaches this screen only by URL guessing; the
// backend's 403 must surface as the admin-required message.
func TestUserBoard_LoadForbidden(t *testing.T) {
	api := &stubUserAPI{listErr: domain.ErrForbidden}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := userSession()

	if err := svc.Load(context.Background(), sess); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	v := svc.View(sess.ID)
	if v.Error != msgLoadUsersFailed+" "+msgAdminRequired {
		t.Fatalf("error = %q", v.Error)
	}
}

func TestUserBoard_DeleteOptimistic(t *testing.T) {
	api := &stubUserAPI{users: userFixtures()}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := adminSession()
	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := svc.Delete(context.Background(), sess, "u2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v := svc.View(sess.ID)
	if len(v.Users) != 2 {
		t.Fatalf("expected local removal without refetch, got %d users", len(v.Users))
	}
	for _, u := range v.Users {
		if u.ID == "u2" {
			t.Fatalf("u2 still present after delete")
		}
	}
	if v.Notice != msgUserDeleted {
		t.Fatalf("notice = %q", v.Notice)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "u2" {
		t.Fatalf("backend calls = %v", api.deleted)
	}
}

func TestUserBoard_DeleteFailureKeepsList(t *testing.T) {
	api := &stubUserAPI{users: userFixtures()}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := adminSession()
	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}

	api.deleteErr = errors.New("boom")
	if err := svc.Delete(context.Background(), sess, "u2"); err == nil {
		t.Fatalf("expected delete error")
	}
	v := svc.View(sess.ID)
	if len(v.Users) != 3 {
		t.Fatalf("failed delete must not shrink the list, got %d", len(v.Users))
	}
	if v.Error != msgDeleteUserFailed || v.Notice != "" {
		t.Fatalf("error=%q notice=%q", v.Error, v.Notice)
	}
}

func TestUserBoard_DeleteForbiddenMessage(t *testing.T) {
	api := &stubUserAPI{users: userFixtures(), deleteErr: domain.ErrForbidden}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := userSession()
	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := svc.Delete(context.Background(), sess, "u2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if v := svc.View(sess.ID); v.Error != msgDeleteUserFailed+" "+msgAdminRequired {
		t.Fatalf("error = %q", v.Error)
	}
}

// The success notice clears itself after its deadline; no timer, the
// expiry is checked at render time.
func TestUserBoard_NoticeSelfClears(t *testing.T) {
	api := &stubUserAPI{users: userFixtures()}
	svc := NewUserBoardService(api, zerolog.Nop())
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }
	sess := adminSession()
	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := svc.Delete(context.Background(), sess, "u3"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if v := svc.View(sess.ID); v.Notice != msgUserDeleted {
		t.Fatalf("notice must still be visible, got %q", v.Notice)
	}
	current = current.Add(noticeTTL - time.Millisecond)
	if v := svc.View(sess.ID); v.Notice != msgUserDeleted {
		t.Fatalf("notice must survive until the deadline, got %q", v.Notice)
	}
	current = current.Add(2 * time.Millisecond)
	if v := svc.View(sess.ID); v.Notice != "" {
		t.Fatalf("notice must clear after %s, got %q", noticeTTL, v.Notice)
	}
}

func TestUserBoard_RefreshClearsNotice(t *testing.T) {
	api := &stubUserAPI{users: userFixtures()}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := adminSession()
	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := svc.Delete(context.Background(), sess, "u2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := svc.Refresh(context.Background(), sess); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	v := svc.View(sess.ID)
	if v.Notice != "" {
		t.Fatalf("refresh must clear the notice, got %q", v.Notice)
	}
	if len(v.Users) != 3 {
		t.Fatalf("refresh must refetch the full list, got %d", len(v.Users))
	}
}

func TestUserBoard_Drop(t *testing.T) {
	api := &stubUserAPI{users: userFixtures()}
	svc := NewUserBoardService(api, zerolog.Nop())
	sess := adminSession()
	if err := svc.Load(context.Background(), sess); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.Drop(sess.ID)
	if v := svc.View(sess.ID); len(v.Users) != 0 {
		t.Fatalf("dropped board must start empty, got %d users", len(v.Users))
	}
}
