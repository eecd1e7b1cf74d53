package plancache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/db"
	"github.com/comidalab/buscaplato/internal/usecase/compile"
)

type mockPlanner struct {
	suggestion *compile.Suggestion
	err        error
	calls      int
}

func (m *mockPlanner) Name() string { return "mock" }

func (m *mockPlanner) Plan(_ context.Context, _ compile.PlanRequest) (*compile.Suggestion, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.suggestion, nil
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

func newTestCachedPlanner(t *testing.T, inner *mockPlanner) (*CachedPlanner, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cp := New(inner, ms, "", 0, nil, zap.NewNop())
	return cp, ms
}
