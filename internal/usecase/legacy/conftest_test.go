package legacy

import (
	"context"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

type mockStore struct {
	rows  []db.Row
	err   error
	calls int
	last  db.Statement
}

func (m *mockStore) Ping(_ context.Context) error { return nil }

func (m *mockStore) QueryRows(_ context.Context, stmt db.Statement) ([]db.Row, error) {
	m.calls++
	m.last = stmt
	return m.rows, m.err
}

type sourceFunc func(ctx context.Context, m *Model) error

func (f sourceFunc) Contribute(ctx context.Context, m *Model) error { return f(ctx, m) }
