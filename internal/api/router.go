package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/carstock/admin-portal/docs"
	"github.com/carstock/admin-portal/internal/api/handler"
	"github.com/carstock/admin-portal/internal/api/middleware"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// RouterConfig carries everything NewRouter needs beyond the services.
type RouterConfig struct {
	CookieName string
	SessionTTL time.Duration
	BackendURL string
	// SecureCookies should be true behind HTTPS (production).
	SecureCookies bool
	// Redis is nil when the in-memory token store is in use.
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, sessions ports.SessionService, carBoard ports.CarBoard, userBoard ports.UserBoard, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = NewRenderer()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("carportal"))
	e.Use(middleware.Resolve(sessions, cfg.CookieName))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(sessions, carBoard, userBoard, cfg.CookieName, cfg.SessionTTL, cfg.SecureCookies)
	carHandler := handler.NewCarHandler(carBoard)
	userHandler := handler.NewUserHandler(userBoard)

	// --- Auth routes (no guard) ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)

	// --- Authenticated pages ---
	cars := e.Group("/cars", middleware.RequireAuth)
	cars.GET("", carHandler.List)
	cars.POST("", carHandler.Submit)
	cars.POST("/:id/edit", carHandler.Edit)
	cars.POST("/:id/delete", carHandler.Delete)
	cars.POST("/form/reset", carHandler.ResetForm)

	// --- Admin-only pages ---
	users := e.Group("/users", middleware.RequireAuth, middleware.RequireAdmin)
	users.GET("", userHandler.List)
	users.POST("/:id/delete", userHandler.Delete)
	users.POST("/refresh", userHandler.Refresh)

	// --- JSON endpoints ---
	apiGroup := e.Group("/api", middleware.RequireAuth)
	apiGroup.POST("/cars/:id/image/refresh", carHandler.RefreshImage)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Redis, cfg.BackendURL)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Default and wildcard navigation ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/cars")
	})
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/cars")
	})

	return e
}
