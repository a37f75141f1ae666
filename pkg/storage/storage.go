// Package storage is the client's durable key/value store, the Go counterpart of browser
// local storage. Values are opaque bytes; callers own serialization.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/redis"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a synchronous key/value store. Every Set is written through immediately.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, redisCfg config.RedisConfig, logg *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverSQLite, "":
		client, err := db.New(ctx, cfg.Path, logg)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLite(ctx, client, cfg.AutoMigrate)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return store, nil
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, redisCfg, logg)
		if err != nil {
			return nil, err
		}
		return NewRedis(client), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
