package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/balkashynov/flowstate/internal/config"
)

// Open connects the backend selected by cfg.Driver and wraps it in the
// snapshot cache when CacheSize is positive.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		kv, err = OpenSQLite(cfg.SQLitePath)
	case config.DriverPostgres:
		kv, err = OpenPostgres(cfg.PostgresDSN)
	case config.DriverRedis:
		kv, err = OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case config.DriverMongo:
		kv, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		kv = NewMemory()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("store opened", zap.String("driver", cfg.Driver), zap.Int("cache_size", cfg.CacheSize))

	if cfg.CacheSize <= 0 {
		return kv, nil
	}
	cached, err := NewCached(kv, cfg.CacheSize)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	return cached, nil
}
