package legacy

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/db/sqlstore"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/link"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
)

func seedForum(t *testing.T, path string) {
	t.Helper()
	conn, err := sql.Open(sqlstore.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = conn.Close() }()

	for _, q := range []string{
		`CREATE TABLE GDN_Discussion (DiscussionID INTEGER PRIMARY KEY, Name TEXT, Body TEXT, Format TEXT,
			CategoryID INTEGER, DateInserted TEXT, InsertUserID INTEGER)`,
		`CREATE TABLE GDN_Comment (CommentID INTEGER PRIMARY KEY, DiscussionID INTEGER, Body TEXT, Format TEXT,
			DateInserted TEXT, InsertUserID INTEGER)`,
		`INSERT INTO GDN_Discussion VALUES (1, 'Hello World', 'first post about gophers', 'text', 2, '2024-01-01 10:00:00', 5)`,
		`INSERT INTO GDN_Discussion VALUES (2, 'Other', '<p>unrelated</p>', 'html', 2, '2024-02-01 10:00:00', 6)`,
		`INSERT INTO GDN_Comment VALUES (10, 1, 'gophers

everywhere', 'text', '2024-03-01 10:00:00', 7)`,
	} {
		if _, err := conn.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestSearch_SQLiteLikeEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forum.db")
	seedForum(t, path)

	store, err := sqlstore.Open(sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: path, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("sqlstore.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	m := New(store, link.New("https://forum.example/"),
		mode.Config{DefaultMode: mode.MatchBoolean, StorageEngineOverride: "innodb"}, nil,
		DiscussionSource{TablePrefix: "GDN_"}, CommentSource{TablePrefix: "GDN_"})

	got, err := m.Search(context.Background(), "gophers", 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SearchMode() != mode.Like {
		t.Errorf("mode = %s, want like", m.SearchMode())
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}

	comment := got[0]
	if comment.RecordType() != result.RecordComment || comment.PrimaryID() != 10 {
		t.Errorf("first result should be the newest comment, got %s %d", comment.RecordType(), comment.PrimaryID())
	}
	if comment.Title() != "Hello World" || comment.UserID() != 7 {
		t.Errorf("comment fields: title=%q user=%d", comment.Title(), comment.UserID())
	}
	if comment.Summary() != "gophers<br />everywhere" {
		t.Errorf("comment summary = %q", comment.Summary())
	}
	if want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC); !comment.DateInserted().Equal(want) {
		t.Errorf("comment date = %v", comment.DateInserted())
	}

	disc := got[1]
	if disc.URL() != "https://forum.example/discussion/1/hello-world" {
		t.Errorf("discussion url = %q", disc.URL())
	}

	paged, err := m.Search(context.Background(), "gophers", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paged) != 1 || paged[0].PrimaryID() != 1 {
		t.Errorf("expected second page to hold the discussion, got %d results", len(paged))
	}
}
