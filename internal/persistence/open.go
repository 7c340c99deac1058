package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/config"
)

// Backend is an opened store plus the function that releases it.
type Backend struct {
	Store Store
	Close func()
}

// Open builds the store selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	var (
		store   Store
		closeFn = func() {}
	)

	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		logger.Warn("using in-memory store; records will not survive a restart")
		store = NewMemoryStore()
	case config.StoreBackendSQLite:
		sqlite, err := OpenSQLite(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		store = sqlite
		closeFn = func() { _ = sqlite.Close() }
	case config.StoreBackendRedis:
		r := NewRedis(cfg.Redis, logger)
		store = NewRedisStore(r.Client)
		closeFn = r.Close
	case config.StoreBackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		store = NewPostgresStore(pg.PoolHandle())
		closeFn = pg.Close
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	return &Backend{Store: WithPrefix(store, cfg.Store.KeyPrefix), Close: closeFn}, nil
}
