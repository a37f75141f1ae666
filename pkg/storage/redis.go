package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StorageKey(name string) string
	Close() error
}

// Redis keeps entries under namespaced keys so several clients can share one server.
type Redis struct {
	kv redisKV
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{kv: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.kv.Get(ctx, r.kv.StorageKey(key))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return []byte(value), nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.kv.Set(ctx, r.kv.StorageKey(key), value, 0); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.kv.Del(ctx, r.kv.StorageKey(key)); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.kv.Close()
}
