package kv

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/config"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/db"
)

// Open builds the driver selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return NewMemoryStore(), nil

	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)

	case config.DriverRedis:
		store := NewRedisStore(cfg.RedisAddr, logger)
		if err := store.WaitReady(ctx, 10, 5*time.Second); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.DriverPostgres:
		pool, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
