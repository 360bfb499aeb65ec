// Carstock admin portal: a server-rendered front-end for the car
// inventory backend API. The portal holds each browser's bearer token
// in a cookie-bound session and proxies all data operations to the
// backend.
//
//	@title			Carstock Admin Portal API
//	@version		1.0
//	@description	JSON endpoints of the car inventory admin portal.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/carstock/admin-portal/internal/api"
	"github.com/carstock/admin-portal/internal/core/ports"
	"github.com/carstock/admin-portal/internal/core/service"
	"github.com/carstock/admin-portal/internal/infrastructure/backend"
	"github.com/carstock/admin-portal/internal/infrastructure/db/memory"
	"github.com/carstock/admin-portal/internal/infrastructure/db/redis"
	"github.com/carstock/admin-portal/internal/pkg/config"
	"github.com/carstock/admin-portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session persistence: Redis when configured, process memory
	// otherwise.
	var (
		tokenStore ports.TokenStore
		rdb        *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		var err error
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
		}
		defer rdb.Close()
		tokenStore = redis.NewTokenStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions stored in redis")
	} else {
		tokenStore = memory.NewTokenStore()
		log.Warn().Msg("REDIS_ADDR not set, sessions stored in process memory")
	}

	// Backend API clients.
	client := backend.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.Timeout)*time.Second, log)
	authAPI := backend.NewAuthClient(client)
	carAPI := backend.NewCarClient(client)
	userAPI := backend.NewUserClient(client)
	uploadAPI := backend.NewUploadClient(client)

	// Services.
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessions := service.NewSessionService(authAPI, tokenStore, sessionTTL, log)
	carBoard := service.NewCarBoardService(carAPI, uploadAPI, service.DefaultPageSize, log)
	userBoard := service.NewUserBoardService(userAPI, log)

	e := api.NewRouter(api.RouterConfig{
		CookieName:    cfg.Session.CookieName,
		SessionTTL:    sessionTTL,
		BackendURL:    cfg.Backend.BaseURL,
		SecureCookies: cfg.Env == "production",
		Redis:         rdb,
	}, sessions, carBoard, userBoard, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.BaseURL).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("stopped")
}
