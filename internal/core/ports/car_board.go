package ports

import (
	"context"
	"io"

	"github.com/carstock/admin-portal/internal/core/domain"
)

// CarForm holds the car form values as submitted. EditingID is empty for
// a create and carries the car ID while editing.
type CarForm struct {
	EditingID string
	Brand     string
	Model     string
	Year      int
	Mileage   float64
	Price     float64
}

// ImageUpload is an optional image attached to a car form submission.
type ImageUpload struct {
	Filename string
	File     io.Reader
}

// CarBoardView is the render-ready snapshot of one session's car board:
// the current page window over the filtered collection plus everything
// the template needs to draw the filters, pager and form.
type CarBoardView struct {
	Cars       []domain.Car
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Search     string
	Category   string
	SortBy     string
	Order      string
	Categories []string
	ByBrand    map[string][]domain.Car
	Form       CarForm
	Editing    bool
	Error      string
	Notice     string
}

// CarBoard maintains the per-session car collection and its derived
// views. All state mutators are keyed by session ID; methods taking a
// domain.Session also need the bearer token for backend calls.
//
// Load replaces the full collection (no incremental patching — every
// mutation triggers a reload) and recomputes the derived views.
// SetSearch and SetCategory reset the page to 1 when the value changes.
type CarBoard interface {
	Load(ctx context.Context, sess domain.Session, sortBy, order string) error
	Loaded(sessionID string) bool
	View(sessionID string) CarBoardView
	SetSearch(sessionID, search string)
	SetCategory(sessionID, category string)
	SetPage(sessionID string, page int)
	NextPage(sessionID string)
	PrevPage(sessionID string)
	Edit(sessionID, carID string)
	ResetForm(sessionID string)
	Submit(ctx context.Context, sess domain.Session, form CarForm, image *ImageUpload) error
	Delete(ctx context.Context, sess domain.Session, carID string) error
	RefreshImage(ctx context.Context, sess domain.Session, carID string) (string, error)
	Drop(sessionID string)
}
