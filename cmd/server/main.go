package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/api/routes"
	"github.com/SoulMinT05/threadsnet/internal/config"
	"github.com/SoulMinT05/threadsnet/internal/core/engagement"
	"github.com/SoulMinT05/threadsnet/internal/core/feeds"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/reposts"
	"github.com/SoulMinT05/threadsnet/internal/core/users"
	"github.com/SoulMinT05/threadsnet/internal/db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	// Initialize repositories and services
	userRepo := users.NewCachedRepository(stores.Users, cfg.UserCacheSize, cfg.UserCacheTTL)

	services := routes.Services{
		Posts:      posts.NewPostService(stores.Posts, userRepo, logger),
		Engagement: engagement.NewEngagementService(stores.Posts, userRepo, logger),
		Reposts:    reposts.NewRepostService(stores.Posts, logger),
		Feeds:      feeds.NewFeedService(stores.Posts, userRepo, logger),
	}
	authMiddleware := middleware.NewJWTAuthMiddleware(cfg.JWTSecret, logger)

	server := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: routes.NewRouter(services, authMiddleware, routes.RouterOptions{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestLogging: true,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("threadsnet starting",
			"port", cfg.HTTPPort,
			"store", cfg.StoreDriver,
			"env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
