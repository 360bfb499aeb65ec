package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carstock/admin-portal/internal/api/metrics"
	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// SessionKey is the echo context key the resolved session lives under.
const SessionKey = "session"

// Resolve loads the session behind the browser cookie into the request
// context. It never blocks a request by itself; the guards below do.
func Resolve(sessions ports.SessionService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if ck, err := c.Cookie(cookieName); err == nil {
				sid = ck.Value
			}
			c.Set(SessionKey, sessions.Resolve(c.Request().Context(), sid))
			return next(c)
		}
	}
}

// Session returns the session injected by Resolve. A request that never
// went through Resolve yields a logged-out zero session.
func Session(c echo.Context) domain.Session {
	sess, _ := c.Get(SessionKey).(domain.Session)
	return sess
}

// RequireAuth blocks unauthenticated navigation. Page requests redirect
// to the login view; /api requests get a 401 instead.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !Session(c).LoggedIn() {
			metrics.GuardRedirectsTotal.WithLabelValues("auth").Inc()
			if isAPIRequest(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// RequireAdmin blocks non-admin navigation. Page requests redirect to
// the default authenticated view (the car list); /api requests get 403.
// The role check is UI gating only — the backend re-checks every call.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := Session(c)
		if !sess.LoggedIn() || !sess.IsAdmin() {
			metrics.GuardRedirectsTotal.WithLabelValues("admin").Inc()
			if isAPIRequest(c) {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return c.Redirect(http.StatusSeeOther, "/cars")
		}
		return next(c)
	}
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
