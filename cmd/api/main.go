package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
	dbpkg "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/db"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/locker"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/logging"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/metrics"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	db := dbpkg.NewDB(cfg, log)
	metrics.Register()

	bookingLocker, closeLocker := newLocker(cfg, log)
	defer closeLocker()

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    log,
		Locker: bookingLocker,
		Audit:  auditDispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("redis_lock", cfg.UsesRedisLock()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	// requests are done, so nothing dispatches any more
	auditDispatcher.Close(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newLocker picks the redis lock when REDIS_ADDR is set, so several API
// instances serialise commits together; otherwise commits are serialised
// inside this process only.
func newLocker(cfg *config.Config, log *zerolog.Logger) (locker.Locker, func()) {
	if !cfg.UsesRedisLock() {
		log.Warn().Msg("REDIS_ADDR not set; booking lock is local to this instance")
		return locker.NewLocalLocker(cfg.BookingLockWait), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to reach redis")
	}

	return locker.NewRedisLocker(client, cfg.BookingLockTTL, cfg.BookingLockWait, log), func() {
		_ = client.Close()
	}
}
