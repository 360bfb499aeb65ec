package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carstock/admin-portal/internal/api/metrics"
	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// DefaultPageSize is the fixed page window over the filtered car list.
const DefaultPageSize = 6

// User-facing messages. The admin message mirrors the backend's 403.
const (
	msgLoadCarsFailed = "Failed to load cars. Please try again."
	msgSaveCarFailed  = "Failed to save car. Please try again."
	msgDeleteFailed   = "Failed to delete car. Please try again."
	msgAdminRequired  = "Admin access required."
	msgCarSaved       = "Car saved successfully"
	msgCarDeleted     = "Car deleted successfully"
)

// CarBoardService keeps one car board per session. A board owns the full
// fetched car snapshot plus the ephemeral view state (search, category,
// page, form). Boards are created lazily on first use and dropped on
// logout.
type CarBoardService struct {
	cars     ports.CarAPI
	upload   ports.UploadAPI
	pageSize int
	logger   zerolog.Logger

	mu     sync.Mutex
	boards map[string]*carBoard
}

// carBoard is the state machine behind one session's car screen.
// The browser original was single-threaded; here a mutex serializes the
// handler goroutine against in-flight image refresh completions.
type carBoard struct {
	mu sync.Mutex

	loaded bool
	cars   []domain.Car

	// generation is bumped on every snapshot replace. Refresh tasks
	// carry the generation they were scheduled under and drop their
	// result when it no longer matches, so a slow refresh can never
	// write into a since-replaced collection.
	generation    uint64
	cancelRefresh context.CancelFunc

	search   string
	category string
	page     int
	sortBy   string
	order    string

	form    ports.CarForm
	editing bool
	errMsg  string
	notice  string
}

func NewCarBoardService(cars ports.CarAPI, upload ports.UploadAPI, pageSize int, logger zerolog.Logger) *CarBoardService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CarBoardService{
		cars:     cars,
		upload:   upload,
		pageSize: pageSize,
		logger:   logger,
		boards:   make(map[string]*carBoard),
	}
}

func (s *CarBoardService) board(sessionID string) *carBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[sessionID]
	if !ok {
		b = &carBoard{page: 1}
		s.boards[sessionID] = b
	}
	return b
}

// Load replaces the board's full snapshot with a fresh fetch and
// schedules an image-URL refresh for every car carrying a signed URL.
// Pending refreshes from the previous snapshot are cancelled first.
func (s *CarBoardService) Load(ctx context.Context, sess domain.Session, sortBy, order string) error {
	b := s.board(sess.ID)
	b.mu.Lock()
	defer b.mu.Unlock()
	return s.load(ctx, b, sess, sortBy, order)
}

// load does the actual snapshot replace. Callers hold b.mu.
func (s *CarBoardService) load(ctx context.Context, b *carBoard, sess domain.Session, sortBy, order string) error {
	if b.cancelRefresh != nil {
		b.cancelRefresh()
		b.cancelRefresh = nil
	}

	cars, err := s.cars.List(ctx, sess.Token, ports.ListCarsQuery{SortBy: sortBy, Order: order})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("load cars failed")
		b.errMsg = loadErrorMessage(err, msgLoadCarsFailed)
		return err
	}

	b.cars = cars
	b.loaded = true
	b.generation++
	b.sortBy = sortBy
	b.order = order
	b.errMsg = ""
	if b.page < 1 {
		b.page = 1
	}
	b.clampPage(s.pageSize)

	s.scheduleRefreshes(b, sess)
	return nil
}

// scheduleRefreshes launches one fire-and-forget refresh task per car
// whose URL matches the signed-URL pattern. Tasks for different cars are
// independent and unordered. Callers hold b.mu.
func (s *CarBoardService) scheduleRefreshes(b *carBoard, sess domain.Session) {
	var stale []string
	for _, car := range b.cars {
		if car.ID != "" && IsSignedURL(car.ImageURL) {
			stale = append(stale, car.ID)
		}
	}
	if len(stale) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancelRefresh = cancel
	gen := b.generation

	for _, id := range stale {
		go s.refreshTask(ctx, b, sess, id, gen)
	}
}

// refreshTask reissues one car's signed URL and writes it back into the
// snapshot, unless the snapshot was replaced in the meantime. On refresh
// failure the URL is cleared so the UI falls back to its placeholder.
func (s *CarBoardService) refreshTask(ctx context.Context, b *carBoard, sess domain.Session, carID string, gen uint64) {
	b.mu.Lock()
	car := b.findCar(carID)
	if car == nil || b.generation != gen {
		b.mu.Unlock()
		return
	}
	key := StorageKey(car.ImageURL)
	b.mu.Unlock()

	fresh, err := s.upload.RefreshURL(ctx, sess.Token, key)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generation != gen {
		return
	}
	car = b.findCar(carID)
	if car == nil {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("car_id", carID).Msg("image refresh failed")
			metrics.ImageRefreshTotal.WithLabelValues("error").Inc()
			car.ImageURL = ""
		}
		return
	}
	car.ImageURL = fresh
	metrics.ImageRefreshTotal.WithLabelValues("ok").Inc()
}

// RefreshImage synchronously reissues one car's image URL. Backs the
// JSON endpoint the browser calls when an <img> fails to load.
func (s *CarBoardService) RefreshImage(ctx context.Context, sess domain.Session, carID string) (string, error) {
	b := s.board(sess.ID)
	b.mu.Lock()
	car := b.findCar(carID)
	if car == nil {
		b.mu.Unlock()
		return "", domain.ErrNotFound
	}
	key := StorageKey(car.ImageURL)
	gen := b.generation
	b.mu.Unlock()

	fresh, err := s.upload.RefreshURL(ctx, sess.Token, key)

	b.mu.Lock()
	defer b.mu.Unlock()
	if car = b.findCar(carID); car != nil && b.generation == gen {
		if err != nil {
			car.ImageURL = ""
		} else {
			car.ImageURL = fresh
		}
	}
	if err != nil {
		metrics.ImageRefreshTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.ImageRefreshTotal.WithLabelValues("ok").Inc()
	return fresh, nil
}

// Submit validates nothing itself — the handler has already run the form
// through the validator. It enforces the role rule (editing requires
// admin, creating does not), uploads the image first when one is
// attached, then creates or updates and reloads the snapshot.
func (s *CarBoardService) Submit(ctx context.Context, sess domain.Session, form ports.CarForm, image *ports.ImageUpload) error {
	b := s.board(sess.ID)
	b.mu.Lock()
	defer b.mu.Unlock()

	if form.EditingID != "" && !sess.IsAdmin() {
		b.errMsg = msgAdminRequired
		return domain.ErrForbidden
	}

	payload := ports.CarPayload{
		Brand:   form.Brand,
		Model:   form.Model,
		Year:    form.Year,
		Mileage: form.Mileage,
		Price:   form.Price,
	}
	if form.EditingID != "" {
		// Editing without a new image keeps the current one.
		if car := b.findCar(form.EditingID); car != nil {
			payload.ImageURL = car.ImageURL
		}
	}

	if image != nil {
		// Two-step, non-atomic: an upload success followed by a save
		// failure orphans the stored image. Accepted limitation.
		imageURL, err := s.upload.Upload(ctx, sess.Token, image.Filename, image.File)
		if err != nil {
			s.logger.Error().Err(err).Msg("image upload failed")
			b.errMsg = loadErrorMessage(err, msgSaveCarFailed)
			return err
		}
		payload.ImageURL = imageURL
	}

	var err error
	if form.EditingID != "" {
		_, err = s.cars.Update(ctx, sess.Token, form.EditingID, payload)
	} else {
		_, err = s.cars.Create(ctx, sess.Token, payload)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("editing_id", form.EditingID).Msg("save car failed")
		b.errMsg = loadErrorMessage(err, msgSaveCarFailed)
		return err
	}

	b.form = ports.CarForm{}
	b.editing = false
	b.notice = msgCarSaved

	if err := s.load(ctx, b, sess, b.sortBy, b.order); err != nil {
		return err
	}
	return nil
}

// Delete removes a car (admin only) and reloads the snapshot.
func (s *CarBoardService) Delete(ctx context.Context, sess domain.Session, carID string) error {
	b := s.board(sess.ID)
	b.mu.Lock()
	defer b.mu.Unlock()

	if !sess.IsAdmin() {
		b.errMsg = msgAdminRequired
		return domain.ErrForbidden
	}

	if err := s.cars.Delete(ctx, sess.Token, carID); err != nil {
		s.logger.Error().Err(err).Str("car_id", carID).Msg("delete car failed")
		b.errMsg = loadErrorMessage(err, msgDeleteFailed)
		return err
	}

	b.notice = msgCarDeleted
	return s.load(ctx, b, sess, b.sortBy, b.order)
}

// Loaded reports whether the board holds a fetched snapshot.
func (s *CarBoardService) Loaded(sessionID string) bool {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// SetSearch updates the substring filter. A changed value resets the
// page to 1 so the window cannot land out of range.
func (s *CarBoardService) SetSearch(sessionID, search string) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.search == search {
		return
	}
	b.search = search
	b.page = 1
}

// SetCategory restricts the list to one brand. Changing it resets the
// page to 1.
func (s *CarBoardService) SetCategory(sessionID, category string) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.category == category {
		return
	}
	b.category = category
	b.page = 1
}

// SetPage jumps to a page, clamped to the valid range for the current
// filtered list.
func (s *CarBoardService) SetPage(sessionID string, page int) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if page < 1 {
		page = 1
	}
	b.page = page
	b.clampPage(s.pageSize)
}

// NextPage advances one page. No-op once the window already covers the
// end of the filtered list.
func (s *CarBoardService) NextPage(sessionID string) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page*s.pageSize >= len(b.filtered()) {
		return
	}
	b.page++
}

// PrevPage goes back one page, never below 1.
func (s *CarBoardService) PrevPage(sessionID string) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page > 1 {
		b.page--
	}
}

// Edit loads a car from the snapshot into the form.
func (s *CarBoardService) Edit(sessionID, carID string) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	car := b.findCar(carID)
	if car == nil {
		return
	}
	b.form = ports.CarForm{
		EditingID: car.ID,
		Brand:     car.Brand,
		Model:     car.Model,
		Year:      car.Year,
		Mileage:   car.Mileage,
		Price:     car.Price,
	}
	b.editing = true
}

// ResetForm clears the form and leaves edit mode.
func (s *CarBoardService) ResetForm(sessionID string) {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = ports.CarForm{}
	b.editing = false
}

// View renders the board into an immutable snapshot for the template.
// Transient messages are consumed by the read.
func (s *CarBoardService) View(sessionID string) ports.CarBoardView {
	b := s.board(sessionID)
	b.mu.Lock()
	defer b.mu.Unlock()

	filtered := b.filtered()
	total := len(filtered)
	totalPages := (total + s.pageSize - 1) / s.pageSize

	start := (b.page - 1) * s.pageSize
	if start > total {
		start = total
	}
	end := start + s.pageSize
	if end > total {
		end = total
	}
	window := make([]domain.Car, end-start)
	copy(window, filtered[start:end])

	v := ports.CarBoardView{
		Cars:       window,
		Total:      total,
		Page:       b.page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
		Search:     b.search,
		Category:   b.category,
		SortBy:     b.sortBy,
		Order:      b.order,
		Categories: b.categories(),
		ByBrand:    b.byBrand(),
		Form:       b.form,
		Editing:    b.editing,
		Error:      b.errMsg,
		Notice:     b.notice,
	}
	b.errMsg = ""
	b.notice = ""
	return v
}

// Drop discards the board and cancels its pending refreshes. Called on
// logout.
func (s *CarBoardService) Drop(sessionID string) {
	s.mu.Lock()
	b, ok := s.boards[sessionID]
	delete(s.boards, sessionID)
	s.mu.Unlock()
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelRefresh != nil {
		b.cancelRefresh()
		b.cancelRefresh = nil
	}
}

// --- snapshot helpers (callers hold b.mu) ---

func (b *carBoard) findCar(id string) *domain.Car {
	for i := range b.cars {
		if b.cars[i].ID == id {
			return &b.cars[i]
		}
	}
	return nil
}

// filtered applies the case-insensitive substring filter on brand or
// model, then the brand category restriction.
func (b *carBoard) filtered() []domain.Car {
	out := make([]domain.Car, 0, len(b.cars))
	needle := strings.ToLower(b.search)
	for _, car := range b.cars {
		if needle != "" &&
			!strings.Contains(strings.ToLower(car.Brand), needle) &&
			!strings.Contains(strings.ToLower(car.Model), needle) {
			continue
		}
		if b.category != "" && car.Brand != b.category {
			continue
		}
		out = append(out, car)
	}
	return out
}

// categories lists the distinct brands of the full snapshot, sorted.
func (b *carBoard) categories() []string {
	seen := make(map[string]struct{}, len(b.cars))
	var out []string
	for _, car := range b.cars {
		if _, ok := seen[car.Brand]; ok {
			continue
		}
		seen[car.Brand] = struct{}{}
		out = append(out, car.Brand)
	}
	sort.Strings(out)
	return out
}

// byBrand groups the full snapshot by brand for category browsing.
func (b *carBoard) byBrand() map[string][]domain.Car {
	out := make(map[string][]domain.Car)
	for _, car := range b.cars {
		out[car.Brand] = append(out[car.Brand], car)
	}
	return out
}

func (b *carBoard) clampPage(pageSize int) {
	total := len(b.filtered())
	maxPage := (total + pageSize - 1) / pageSize
	if maxPage < 1 {
		maxPage = 1
	}
	if b.page > maxPage {
		b.page = maxPage
	}
}

// loadErrorMessage keeps the 403 distinction visible to the user and
// falls back to a generic retry message for everything else.
func loadErrorMessage(err error, generic string) string {
	if errors.Is(err, domain.ErrForbidden) {
		return generic + " " + msgAdminRequired
	}
	return generic
}
