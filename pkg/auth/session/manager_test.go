package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func TestManagerOpenAndRevoke(t *testing.T) {
	store := newMockStore()
	manager, err := newManager(store, store, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	ctx := context.Background()
	accessID := NewAccessID()
	if err := manager.Open(ctx, accessID, 2); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := store.data[store.AccessSessionKey(accessID)]; got != "2" {
		t.Fatalf("expected user id stored, got %q", got)
	}
	if store.ttls[store.AccessSessionKey(accessID)] != time.Hour {
		t.Fatalf("expected session ttl applied")
	}

	ok, err := manager.HasSession(ctx, accessID)
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, accessID)
	if err != nil || ok {
		t.Fatalf("expected revoked session, got ok=%v err=%v", ok, err)
	}
}

func TestManagerRejectsBlankIDs(t *testing.T) {
	manager, err := NewMemoryManager(time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := manager.Open(context.Background(), " ", 1); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if ok, _ := manager.HasSession(context.Background(), ""); ok {
		t.Fatal("blank access id must not be active")
	}
	if _, err := NewMemoryManager(0); err == nil {
		t.Fatal("expected ttl validation error")
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryStore(func() time.Time { return now })
	manager, err := newManager(store, store, time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	ctx := context.Background()
	if err := manager.Open(ctx, "a", 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, "a"); !ok {
		t.Fatal("expected session active before ttl")
	}
	now = now.Add(2 * time.Minute)
	if ok, _ := manager.HasSession(ctx, "a"); ok {
		t.Fatal("expected session expired after ttl")
	}
}
