package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/devshop"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{Component: logger.ComponentDevAPI})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.FromConfig(cfg.App, logger.ComponentDevAPI, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionManager, closeSessions := newSessionManager(ctx, cfg, logg)
	defer closeSessions()

	shop := devshop.New(cfg.DevAPI.Password)
	if cfg.DevAPI.Seed {
		if err := shop.Seed(); err != nil {
			logg.Error(ctx, "failed to seed dev shop", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	addr := ":" + cfg.DevAPI.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"session_backend": cfg.DevAPI.SessionBackend,
		"seeded":          cfg.DevAPI.Seed,
	})
	logg.Info(logCtx, "starting dev api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, shop, sessionManager, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "dev api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "dev api shutdown failed", err)
		}
		logg.Info(logCtx, "dev api server stopped")
	}
}

func newSessionManager(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*session.Manager, func()) {
	if cfg.DevAPI.SessionBackend != config.StorageDriverRedis {
		manager, err := session.NewMemoryManager(cfg.DevAPI.SessionTTL)
		if err != nil {
			logg.Error(ctx, "failed to create session manager", err)
			os.Exit(1)
		}
		return manager, func() {}
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	manager, err := session.NewManager(redisClient, cfg.DevAPI.SessionTTL)
	if err != nil {
		_ = redisClient.Close()
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}
	return manager, func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}
}
