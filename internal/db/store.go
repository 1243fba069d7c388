// Package db opens the post and user stores selected by configuration
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/SoulMinT05/threadsnet/internal/config"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/users"
	"github.com/SoulMinT05/threadsnet/internal/db/badgerdb"
	"github.com/SoulMinT05/threadsnet/internal/db/migrations"
	"github.com/SoulMinT05/threadsnet/internal/db/mongodb"
	"github.com/SoulMinT05/threadsnet/internal/db/postgres"
)

// Stores bundles the repositories backed by one driver
type Stores struct {
	Posts posts.Repository
	Users users.Repository
	close func() error
}

// Close releases the underlying connection or database handle
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the store named by cfg.StoreDriver
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverBadger:
		return openBadger(cfg, logger)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("connected to postgres, migrations applied")

	return &Stores{
		Posts: postgres.NewPostRepository(db),
		Users: postgres.NewUserRepository(db),
		close: db.Close,
	}, nil
}

func openBadger(cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	db, err := badgerdb.Open(cfg.BadgerPath)
	if err != nil {
		return nil, err
	}
	logger.Info("opened badger store", "path", cfg.BadgerPath)

	return &Stores{
		Posts: badgerdb.NewPostRepository(db),
		Users: badgerdb.NewUserRepository(db),
		close: db.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}

	database := client.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Info("connected to mongo",
		"database", cfg.MongoDatabase,
		"transactions", cfg.MongoTransactions)

	return &Stores{
		Posts: mongodb.NewPostRepository(database, cfg.MongoTransactions),
		Users: mongodb.NewUserRepository(database),
		close: func() error { return client.Disconnect(context.Background()) },
	}, nil
}
