// Command repair-reposts reconciles numberViewsRepost with the reposts that
// are actually stored. Safe to run repeatedly; counters are only raised.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SoulMinT05/threadsnet/internal/config"
	"github.com/SoulMinT05/threadsnet/internal/core/reposts"
	"github.com/SoulMinT05/threadsnet/internal/db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("repair failed", "error", err)
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
		_ = stores.Close()
	}()

	logger.Info("repairing repost counters", "store", cfg.StoreDriver)

	adjusted, err := reposts.NewRepostService(stores.Posts, logger).RepairRepostCounters(ctx)
	if err != nil {
		return err
	}

	logger.Info("repair complete", "posts_adjusted", adjusted)
	return nil
}
