package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/rokartur/xcstrings-editor-sub000/internal/adapter/memory"
	"github.com/rokartur/xcstrings-editor-sub000/internal/adapter/postgres"
	"github.com/rokartur/xcstrings-editor-sub000/internal/adapter/sqlite"
	"github.com/rokartur/xcstrings-editor-sub000/internal/config"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
)

// openStorage connects the configured backend, applying migrations where
// the backend has a schema. The returned func releases the connection.
func openStorage(ctx context.Context, cfg config.StorageConfig, clock clockwork.Clock, logger *slog.Logger) (store.Storage, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, catalogs are lost on restart")
		return memory.NewKVStore(), func() {}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite storage opened", slog.String("path", cfg.SQLite.Path))
		return sqlite.NewKVStore(db, clock), func() { _ = db.Close() }, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("postgres storage connected",
			slog.Int("max_conns", int(cfg.Postgres.MaxConns)),
		)
		return postgres.NewKVStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
