package resultcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagquery/internal/db"
	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
)

type mockSearcher struct {
	res   result.Result
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ query.Query) (result.Result, error) {
	m.calls++
	return m.res, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memStore is a map-backed store for round trips.
type memStore struct {
	data map[string][]byte
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func newTestCachedSearcher(t *testing.T, inner *mockSearcher, s store, opts Options) *CachedSearcher {
	t.Helper()
	return New(inner, s, opts, nil, zap.NewNop())
}
