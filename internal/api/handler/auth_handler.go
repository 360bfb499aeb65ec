package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carstock/admin-portal/internal/api/metrics"
	mw "github.com/carstock/admin-portal/internal/api/middleware"
	"github.com/carstock/admin-portal/internal/core/ports"
	"github.com/carstock/admin-portal/internal/infrastructure/backend"
)

const loginFailedFallback = "Login failed. Please check your credentials."

// AuthHandler serves the login/register pages and owns the session
// cookie lifecycle.
type AuthHandler struct {
	sessions   ports.SessionService
	carBoard   ports.CarBoard
	userBoard  ports.UserBoard
	cookieName string
	cookieTTL  time.Duration
	secure     bool
}

func NewAuthHandler(sessions ports.SessionService, carBoard ports.CarBoard, userBoard ports.UserBoard, cookieName string, cookieTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		carBoard:   carBoard,
		userBoard:  userBoard,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		secure:     secure,
	}
}

type loginPage struct {
	Error  string
	Notice string
	Email  string
}

type registerPage struct {
	Error string
	Email string
	Role  string
}

// LoginPage renders the login form. An already authenticated visitor is
// sent straight to the car list.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if mw.Session(c).LoggedIn() {
		return c.Redirect(http.StatusSeeOther, "/cars")
	}
	page := loginPage{}
	if c.QueryParam("registered") == "1" {
		page.Notice = "Account created. You can log in now."
	}
	return c.Render(http.StatusOK, "login.html", page)
}

// Login authenticates against the backend and opens the session.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", loginPage{Error: "invalid form submission"})
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", loginPage{Error: err.Error(), Email: form.Email})
	}

	sid, err := h.sessions.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		msg := backend.UserMessage(err, loginFailedFallback)
		return c.Render(http.StatusUnauthorized, "login.html", loginPage{Error: msg, Email: form.Email})
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	c.SetCookie(h.sessionCookie(sid, h.cookieTTL))
	return c.Redirect(http.StatusSeeOther, "/cars")
}

// Logout drops the stored token and the session's boards, expires the
// cookie, and lands back on the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := mw.Session(c)
	if sess.ID != "" {
		_ = h.sessions.Logout(c.Request().Context(), sess.ID)
		h.carBoard.Drop(sess.ID)
		h.userBoard.Drop(sess.ID)
	}
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.Redirect(http.StatusSeeOther, "/login")
}

// RegisterPage renders the account creation form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", registerPage{})
}

// Register forwards account creation to the backend and bounces to the
// login page on success.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", registerPage{Error: "invalid form submission"})
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", registerPage{Error: err.Error(), Email: form.Email, Role: form.Role})
	}

	if err := h.sessions.Register(c.Request().Context(), form.Email, form.Password, form.Role); err != nil {
		msg := backend.UserMessage(err, "Registration failed. Please try again.")
		return c.Render(http.StatusBadRequest, "register.html", registerPage{Error: msg, Email: form.Email, Role: form.Role})
	}
	return c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
