// Package sqlstore executes legacy search statements through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
)

// Compile-time check: Store implements db.RowQuerier.
var _ db.RowQuerier = (*Store)(nil)

// Supported drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

const backendLabel = "legacy"

// Config holds connection parameters for the relational store.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	Timeout      time.Duration
}

// Store runs read-only search statements.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// Open validates the driver and opens a connection pool. No connection is
// made until the first query or Ping.
func Open(cfg Config) (*Store, error) {
	switch cfg.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Store{db: conn, timeout: cfg.Timeout}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close() //nolint:wrapcheck // passthrough
}

// QueryRows executes stmt and scans every row. Named :SearchN placeholders
// are rewritten to positional ones for the driver.
func (s *Store) QueryRows(ctx context.Context, stmt db.Statement) ([]db.Row, error) {
	query, args, err := positional(stmt)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.query(ctx, query, args)
	metrics.BackendRequestDuration.WithLabelValues(backendLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(backendLabel, "error").Inc()
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	metrics.BackendRequestsTotal.WithLabelValues(backendLabel, "ok").Inc()
	return rows, nil
}

func (s *Store) query(ctx context.Context, query string, args []any) ([]db.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}

	var out []db.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}
		row, err := toRow(cols, vals)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err() //nolint:wrapcheck // wrapped by caller
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
