package app_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"bmitrack/internal/domain"
)

// mockStore is a map-backed KeyValueStore whose calls can be overridden.
type mockStore struct {
	mu    sync.Mutex
	items map[string][]byte

	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[string][]byte)}
}

func (m *mockStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockStore) SetItem(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
