package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the contract every driver must satisfy.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "cart")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "cart", []byte(`[{"product_id":1,"quantity":2}]`)))
	got, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.JSONEq(t, `[{"product_id":1,"quantity":2}]`, string(got))

	require.NoError(t, store.Set(ctx, "cart", []byte(`[]`)))
	got, err = store.Get(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, store.Delete(ctx, "cart"))
	_, err = store.Get(ctx, "cart")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "missing"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	exerciseStore(t, store)
	require.Equal(t, 4, store.Writes())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, config.StorageConfig{
		Driver:      config.StorageDriverSQLite,
		Path:        filepath.Join(t.TempDir(), "storefront.db"),
		AutoMigrate: true,
	}, config.RedisConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		Driver:      config.StorageDriverSQLite,
		Path:        filepath.Join(t.TempDir(), "storefront.db"),
		AutoMigrate: true,
	}

	first, err := New(ctx, cfg, config.RedisConfig{}, nil)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "cart", []byte(`[1]`)))
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, config.RedisConfig{}, nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, `[1]`, string(got))
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "etcd"}, config.RedisConfig{}, nil)
	require.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	kv := &fakeRedisKV{data: map[string]string{}}
	exerciseStore(t, &Redis{kv: kv})
	require.False(t, kv.closed)
	_, stored := kv.data["sf:storage:cart"]
	require.False(t, stored)
}

func TestRedisStoreWrapsErrors(t *testing.T) {
	kv := &fakeRedisKV{data: map[string]string{}, err: errors.New("connection reset")}
	store := &Redis{kv: kv}
	_, err := store.Get(context.Background(), "cart")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Error(t, store.Set(context.Background(), "cart", []byte("x")))
}

type fakeRedisKV struct {
	data   map[string]string
	err    error
	closed bool
}

func (f *fakeRedisKV) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	value, ok := f.data[key]
	if !ok {
		return "", redis.ErrNil
	}
	return value, nil
}

func (f *fakeRedisKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = string(value.([]byte))
	return nil
}

func (f *fakeRedisKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedisKV) StorageKey(name string) string {
	return (&redis.Client{}).StorageKey(name)
}

func (f *fakeRedisKV) Close() error {
	f.closed = true
	return nil
}
