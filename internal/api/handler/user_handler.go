package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/carstock/admin-portal/internal/api/middleware"
	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// UserHandler drives the admin-only user screen.
type UserHandler struct {
	board ports.UserBoard
}

func NewUserHandler(board ports.UserBoard) *UserHandler {
	return &UserHandler{board: board}
}

type usersPage struct {
	Session domain.Session
	View    ports.UserBoardView
}

// List fetches and renders the user list. Load failures render the
// page with the recorded error message rather than failing the request.
func (h *UserHandler) List(c echo.Context) error {
	sess := mw.Session(c)
	_ = h.board.Load(c.Request().Context(), sess)
	return c.Render(http.StatusOK, "users.html", usersPage{Session: sess, View: h.board.View(sess.ID)})
}

// Delete removes a user. The browser asks for confirmation before
// posting; the confirmed field is how that reaches us — without it the
// request is ignored.
func (h *UserHandler) Delete(c echo.Context) error {
	if c.FormValue("confirmed") != "true" {
		return c.Redirect(http.StatusSeeOther, "/users")
	}
	sess := mw.Session(c)
	_ = h.board.Delete(c.Request().Context(), sess, c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/users")
}

// Refresh clears the success notice and reloads the list.
func (h *UserHandler) Refresh(c echo.Context) error {
	sess := mw.Session(c)
	_ = h.board.Refresh(c.Request().Context(), sess)
	return c.Redirect(http.StatusSeeOther, "/users")
}
