package resultcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/boost"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
)

type mockSearcher struct {
	hits    []hit.Hit
	err     error
	calls   int
	pingErr error
}

func (m *mockSearcher) Ping(_ context.Context) error { return m.pingErr }

func (m *mockSearcher) Execute(_ context.Context, _ string, _ *boost.Document) ([]hit.Hit, error) {
	m.calls++
	return m.hits, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn   func(ctx context.Context, key string) ([]byte, error)
	setFn   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	data    map[string][]byte
	lastTTL time.Duration
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func newTestSearcher(t *testing.T, inner *mockSearcher) (*CachedSearcher, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cs := New(inner, ms, time.Minute, nil, zap.NewNop())
	return cs, ms
}

func testDoc(t *testing.T, text string) *boost.Document {
	t.Helper()
	q, err := query.New(text, 0, 20)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return boost.Build(&q)
}

func testHit(t *testing.T, id string) hit.Hit {
	t.Helper()
	h, err := hit.New(id, hit.Fields{
		ThreadID:  "10",
		Title:     "Thread " + id,
		Date:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UserID:    3,
		Fragments: []string{"<strong>a</strong>", "b"},
		Score:     2.5,
	})
	if err != nil {
		t.Fatalf("hit.New: %v", err)
	}
	return h
}
