package handler

// Shared fixtures for the handler tests: a recording renderer instead
// of the template engine, and stub boards behind the ports interfaces.

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	mw "github.com/carstock/admin-portal/internal/api/middleware"
	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

type fakeRenderer struct {
	name string
	data any
}

func (r *fakeRenderer) Render(_ io.Writer, name string, data any, _ echo.Context) error {
	r.name = name
	r.data = data
	return nil
}

type stubSessionService struct {
	loginFn    func(ctx context.Context, email, password string) (string, error)
	registerFn func(ctx context.Context, email, password, role string) error
	loggedOut  []string
}

func (s *stubSessionService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessionService) Register(ctx context.Context, email, password, role string) error {
	return s.registerFn(ctx, email, password, role)
}

func (s *stubSessionService) Logout(_ context.Context, sid string) error {
	s.loggedOut = append(s.loggedOut, sid)
	return nil
}

func (s *stubSessionService) Resolve(context.Context, string) domain.Session {
	return domain.Session{}
}

type stubCarBoard struct {
	loaded   bool
	view     ports.CarBoardView
	loads    []string // "sortBy|order" per call
	searches []string
	pages    []int
	navs     []string
	category string
	edits    []string
	resets   int
	drops    []string
	deletes  []string

	submitErr  error
	submitForm ports.CarForm
	submitImg  *ports.ImageUpload
	submits    int

	refreshURL string
	refreshErr error
}

func (b *stubCarBoard) Load(_ context.Context, _ domain.Session, sortBy, order string) error {
	b.loads = append(b.loads, sortBy+"|"+order)
	b.loaded = true
	return nil
}
func (b *stubCarBoard) Loaded(string) bool               { return b.loaded }
func (b *stubCarBoard) View(string) ports.CarBoardView   { return b.view }
func (b *stubCarBoard) SetSearch(_, search string)       { b.searches = append(b.searches, search) }
func (b *stubCarBoard) SetCategory(_, category string)   { b.category = category }
func (b *stubCarBoard) SetPage(_ string, page int)       { b.pages = append(b.pages, page) }
func (b *stubCarBoard) NextPage(string)                  { b.navs = append(b.navs, "next") }
func (b *stubCarBoard) PrevPage(string)                  { b.navs = append(b.navs, "prev") }
func (b *stubCarBoard) Edit(_, carID string)             { b.edits = append(b.edits, carID) }
func (b *stubCarBoard) ResetForm(string)                 { b.resets++ }
func (b *stubCarBoard) Drop(sessionID string)            { b.drops = append(b.drops, sessionID) }

func (b *stubCarBoard) Submit(_ context.Context, _ domain.Session, form ports.CarForm, image *ports.ImageUpload) error {
	b.submits++
	b.submitForm = form
	b.submitImg = image
	return b.submitErr
}

func (b *stubCarBoard) Delete(_ context.Context, _ domain.Session, carID string) error {
	b.deletes = append(b.deletes, carID)
	return nil
}

func (b *stubCarBoard) RefreshImage(context.Context, domain.Session, string) (string, error) {
	return b.refreshURL, b.refreshErr
}

type stubUserBoard struct {
	view      ports.UserBoardView
	loads     int
	refreshes int
	deletes   []string
	drops     []string
}

func (b *stubUserBoard) Load(context.Context, domain.Session) error { b.loads++; return nil }
func (b *stubUserBoard) View(string) ports.UserBoardView            { return b.view }
func (b *stubUserBoard) Refresh(context.Context, domain.Session) error {
	b.refreshes++
	return nil
}
func (b *stubUserBoard) Delete(_ context.Context, _ domain.Session, id string) error {
	b.deletes = append(b.deletes, id)
	return nil
}
func (b *stubUserBoard) Drop(sessionID string) { b.drops = append(b.drops, sessionID) }

// newContext builds an echo context with the validator and a recording
// renderer wired in, plus the given session injected the way the
// Resolve middleware would.
func newContext(t *testing.T, method, target string, body io.Reader, contentType string, sess domain.Session) (echo.Context, *httptest.ResponseRecorder, *fakeRenderer) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	renderer := &fakeRenderer{}
	e.Renderer = renderer

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(mw.SessionKey, sess)
	return c, rec, renderer
}

func formBody(values url.Values) (io.Reader, string) {
	return strings.NewReader(values.Encode()), echo.MIMEApplicationForm
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("location = %q, want %q", got, location)
	}
}
