package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/boost"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
)

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexSearcher executes a boosted query document against a named index
// and returns rank-ordered hits.
type IndexSearcher interface {
	Pinger
	Execute(ctx context.Context, index string, doc *boost.Document) ([]hit.Hit, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
}

// Statement is a rendered SQL statement with its arguments in binding order.
type Statement struct {
	SQL  string
	Args []any
}

// Row is one record of a relational search query.
type Row struct {
	PrimaryID    int64
	Title        string
	Summary      string
	Format       string
	CategoryID   int64
	DateInserted time.Time
	UserID       int64
	RecordType   string
	Relevance    float64
}

// RowQuerier executes a search statement against the relational store.
type RowQuerier interface {
	Pinger
	QueryRows(ctx context.Context, stmt Statement) ([]Row, error)
}
