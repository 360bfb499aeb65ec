package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	mw "github.com/carstock/admin-portal/internal/api/middleware"
	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// CarHandler drives the car board: the main list view with its filters
// and pager, the entry form, and the image refresh hook.
type CarHandler struct {
	board ports.CarBoard
}

func NewCarHandler(board ports.CarBoard) *CarHandler {
	return &CarHandler{board: board}
}

type carsPage struct {
	Session   domain.Session
	View      ports.CarBoardView
	FormError string
	Form      ports.CarForm
}

// List renders the car board. Query parameters mutate the view state
// before rendering: search and category reset the page when they
// change, sort triggers a fresh fetch, page/nav move the window.
func (h *CarHandler) List(c echo.Context) error {
	sess := mw.Session(c)
	qp := c.QueryParams()

	if qp.Has("sort") {
		sortBy, order := splitSort(qp.Get("sort"))
		_ = h.board.Load(c.Request().Context(), sess, sortBy, order)
	} else if !h.board.Loaded(sess.ID) {
		_ = h.board.Load(c.Request().Context(), sess, "", "")
	}

	if qp.Has("search") {
		h.board.SetSearch(sess.ID, qp.Get("search"))
	}
	if qp.Has("category") {
		h.board.SetCategory(sess.ID, qp.Get("category"))
	}
	switch qp.Get("nav") {
	case "next":
		h.board.NextPage(sess.ID)
	case "prev":
		h.board.PrevPage(sess.ID)
	}
	if qp.Has("page") {
		if page, err := strconv.Atoi(qp.Get("page")); err == nil {
			h.board.SetPage(sess.ID, page)
		}
	}

	view := h.board.View(sess.ID)
	return c.Render(http.StatusOK, "cars.html", carsPage{Session: sess, View: view, Form: view.Form})
}

// Submit handles the car form: validation first (no network on a
// validation failure), then create or update through the board.
func (h *CarHandler) Submit(c echo.Context) error {
	sess := mw.Session(c)

	var form carForm
	if err := c.Bind(&form); err != nil {
		return h.renderFormError(c, sess, ports.CarForm{}, "invalid form values")
	}
	boardForm := ports.CarForm{
		EditingID: form.EditingID,
		Brand:     form.Brand,
		Model:     form.Model,
		Year:      form.Year,
		Mileage:   form.Mileage,
		Price:     form.Price,
	}
	if err := c.Validate(&form); err != nil {
		return h.renderFormError(c, sess, boardForm, err.Error())
	}

	image, err := h.formImage(c)
	if err != nil {
		return h.renderFormError(c, sess, boardForm, "could not read the attached image")
	}

	// The board records the user-facing message on failure; the
	// redirect surfaces it on the next render either way.
	_ = h.board.Submit(c.Request().Context(), sess, boardForm, image)
	return c.Redirect(http.StatusSeeOther, "/cars")
}

// Edit loads a listing into the form.
func (h *CarHandler) Edit(c echo.Context) error {
	h.board.Edit(mw.Session(c).ID, c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/cars")
}

// ResetForm clears the form and leaves edit mode.
func (h *CarHandler) ResetForm(c echo.Context) error {
	h.board.ResetForm(mw.Session(c).ID)
	return c.Redirect(http.StatusSeeOther, "/cars")
}

// Delete removes a listing. The board enforces the admin-only rule.
func (h *CarHandler) Delete(c echo.Context) error {
	sess := mw.Session(c)
	_ = h.board.Delete(c.Request().Context(), sess, c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/cars")
}

// RefreshImage reissues one car's signed image URL.
//
// @Summary      Refresh a car's signed image URL
// @Tags         cars
// @Produce      json
// @Param        id   path      string  true  "Car ID"
// @Success      200  {object}  imageRefreshResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/cars/{id}/image/refresh [post]
func (h *CarHandler) RefreshImage(c echo.Context) error {
	sess := mw.Session(c)
	fresh, err := h.board.RefreshImage(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "car not found"})
		}
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "image refresh failed"})
	}
	return c.JSON(http.StatusOK, imageRefreshResponse{ImageURL: fresh})
}

// renderFormError re-renders the board with a sticky form and the
// validation message. Nothing was sent to the backend.
func (h *CarHandler) renderFormError(c echo.Context, sess domain.Session, form ports.CarForm, msg string) error {
	view := h.board.View(sess.ID)
	return c.Render(http.StatusBadRequest, "cars.html", carsPage{
		Session:   sess,
		View:      view,
		Form:      form,
		FormError: msg,
	})
}

// formImage extracts the optional image part. A missing file is a valid
// submission without image, not an error.
func (h *CarHandler) formImage(c echo.Context) (*ports.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	// Closed by the multipart reader when the request body is released.
	return &ports.ImageUpload{Filename: fh.Filename, File: f}, nil
}

// splitSort parses the select value "field-order" (e.g. "price-asc").
func splitSort(v string) (sortBy, order string) {
	if v == "" {
		return "", ""
	}
	parts := strings.SplitN(v, "-", 2)
	sortBy = parts[0]
	if len(parts) == 2 {
		order = parts[1]
	}
	return sortBy, order
}
