package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/infrastructure/backend"
)

func newAuthHandler(sessions *stubSessionService, cars *stubCarBoard, users *stubUserBoard) *AuthHandler {
	return NewAuthHandler(sessions, cars, users, "carstock_session", 24*time.Hour, false)
}

func sessionCookieFrom(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	resp := http.Response{Header: header}
	for _, ck := range resp.Cookies() {
		if ck.Name == "carstock_session" {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestLogin_Success(t *testing.T) {
	sessions := &stubSessionService{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			if email != "a@example.com" || password != "pw" {
				t.Fatalf("credentials not forwarded: %s %s", email, password)
			}
			return "sid-123", nil
		},
	}
	h := newAuthHandler(sessions, &stubCarBoard{}, &stubUserBoard{})

	body, ct := formBody(url.Values{"email": {"a@example.com"}, "password": {"pw"}})
	c, rec, _ := newContext(t, http.MethodPost, "/login", body, ct, domain.Session{})

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	assertRedirect(t, rec, "/cars")

	ck := sessionCookieFrom(t, rec.Header())
	if ck.Value != "sid-123" {
		t.Fatalf("cookie value = %q", ck.Value)
	}
	if !ck.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if ck.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("cookie max-age = %d", ck.MaxAge)
	}
}

// A backend rejection re-renders the form with the backend's own
// message, not the generic fallback.
func TestLogin_BackendRejection(t *testing.T) {
	sessions := &stubSessionService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", &backend.APIError{Op: "login", Status: http.StatusUnauthorized, Message: "Invalid credentials"}
		},
	}
	h := newAuthHandler(sessions, &stubCarBoard{}, &stubUserBoard{})

	body, ct := formBody(url.Values{"email": {"a@example.com"}, "password": {"bad"}})
	c, rec, renderer := newContext(t, http.MethodPost, "/login", body, ct, domain.Session{})

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized || renderer.name != "login.html" {
		t.Fatalf("expected 401 login render, got %d %q", rec.Code, renderer.name)
	}
	page := renderer.data.(loginPage)
	if page.Error != "Invalid credentials" {
		t.Fatalf("error = %q", page.Error)
	}
	if page.Email != "a@example.com" {
		t.Fatalf("email must stay sticky, got %q", page.Email)
	}
}

func TestLogin_TransportFailureUsesFallback(t *testing.T) {
	sessions := &stubSessionService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrBackend
		},
	}
	h := newAuthHandler(sessions, &stubCarBoard{}, &stubUserBoard{})

	body, ct := formBody(url.Values{"email": {"a@example.com"}, "password": {"pw"}})
	c, _, renderer := newContext(t, http.MethodPost, "/login", body, ct, domain.Session{})

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if page := renderer.data.(loginPage); page.Error != loginFailedFallback {
		t.Fatalf("error = %q", page.Error)
	}
}

func TestLogin_ValidationSkipsBackend(t *testing.T) {
	called := false
	sessions := &stubSessionService{
		loginFn: func(context.Context, string, string) (string, error) {
			called = true
			return "", nil
		},
	}
	h := newAuthHandler(sessions, &stubCarBoard{}, &stubUserBoard{})

	body, ct := formBody(url.Values{"email": {"not-an-email"}, "password": {"pw"}})
	c, rec, renderer := newContext(t, http.MethodPost, "/login", body, ct, domain.Session{})

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if called {
		t.Fatalf("invalid form must never reach the backend")
	}
	if rec.Code != http.StatusBadRequest || renderer.name != "login.html" {
		t.Fatalf("expected 400 login render, got %d %q", rec.Code, renderer.name)
	}
}

func TestLoginPage_RedirectsWhenLoggedIn(t *testing.T) {
	h := newAuthHandler(&stubSessionService{}, &stubCarBoard{}, &stubUserBoard{})
	sess := domain.Session{ID: "sid", Token: "tok", Role: domain.RoleUser}
	c, rec, _ := newContext(t, http.MethodGet, "/login", nil, "", sess)

	if err := h.LoginPage(c); err != nil {
		t.Fatalf("login page: %v", err)
	}
	assertRedirect(t, rec, "/cars")
}

func TestLoginPage_RegisteredNotice(t *testing.T) {
	h := newAuthHandler(&stubSessionService{}, &stubCarBoard{}, &stubUserBoard{})
	c, _, renderer := newContext(t, http.MethodGet, "/login?registered=1", nil, "", domain.Session{})

	if err := h.LoginPage(c); err != nil {
		t.Fatalf("login page: %v", err)
	}
	if page := renderer.data.(loginPage); page.Notice == "" {
		t.Fatalf("expected a post-registration notice")
	}
}

func TestLogout_DropsSessionAndBoards(t *testing.T) {
	sessions := &stubSessionService{}
	cars := &stubCarBoard{}
	users := &stubUserBoard{}
	h := newAuthHandler(sessions, cars, users)
	sess := domain.Session{ID: "sid-1", Token: "tok", Role: domain.RoleUser}
	c, rec, _ := newContext(t, http.MethodPost, "/logout", nil, "", sess)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	assertRedirect(t, rec, "/login")

	if len(sessions.loggedOut) != 1 || sessions.loggedOut[0] != "sid-1" {
		t.Fatalf("stored token not deleted: %v", sessions.loggedOut)
	}
	if len(cars.drops) != 1 || len(users.drops) != 1 {
		t.Fatalf("boards not dropped: cars=%v users=%v", cars.drops, users.drops)
	}
	ck := sessionCookieFrom(t, rec.Header())
	if ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("cookie must be expired: value=%q maxage=%d", ck.Value, ck.MaxAge)
	}
}

func TestRegister_Success(t *testing.T) {
	var gotRole string
	sessions := &stubSessionService{
		registerFn: func(_ context.Context, _, _, role string) error {
			gotRole = role
			return nil
		},
	}
	h := newAuthHandler(sessions, &stubCarBoard{}, &stubUserBoard{})

	body, ct := formBody(url.Values{"email": {"a@example.com"}, "password": {"secret1"}, "role": {"user"}})
	c, rec, _ := newContext(t, http.MethodPost, "/register", body, ct, domain.Session{})

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	assertRedirect(t, rec, "/login?registered=1")
	if gotRole != "user" {
		t.Fatalf("role = %q", gotRole)
	}
}

func TestRegister_BackendErrorRerenders(t *testing.T) {
	sessions := &stubSessionService{
		registerFn: func(context.Context, string, string, string) error {
			return &backend.APIError{Op: "register", Status: http.StatusConflict, Message: "Email already registered"}
		},
	}
	h := newAuthHandler(sessions, &stubCarBoard{}, &stubUserBoard{})

	body, ct := formBody(url.Values{"email": {"a@example.com"}, "password": {"secret1"}})
	c, rec, renderer := newContext(t, http.MethodPost, "/register", body, ct, domain.Session{})

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusBadRequest || renderer.name != "register.html" {
		t.Fatalf("expected 400 register render, got %d %q", rec.Code, renderer.name)
	}
	if page := renderer.data.(registerPage); page.Error != "Email already registered" {
		t.Fatalf("error = %q", page.Error)
	}
}
