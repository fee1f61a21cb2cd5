package sqlstore

import (
	"database/sql"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

func TestPositional(t *testing.T) {
	q, args, err := positional(db.Statement{
		SQL: "a = :Search1 or b = :Search0 or c = :Search10",
		Args: []any{
			sql.Named("Search0", "zero"),
			sql.Named("Search1", "one"),
			sql.Named("Search10", "ten"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "a = ? or b = ? or c = ?" {
		t.Errorf("query = %q", q)
	}
	want := []any{"one", "zero", "ten"}
	if len(args) != len(want) {
		t.Fatalf("args = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestPositional_RejectsUnnamed(t *testing.T) {
	if _, _, err := positional(db.Statement{SQL: "a = ?", Args: []any{"x"}}); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestToRow_LenientConversions(t *testing.T) {
	cols := []string{"PRIMARYID", "dateinserted", "UserID", "Relevance", "Extra"}
	vals := []any{[]byte("42"), []byte("2023-06-01"), nil, []byte("2023-06-01 00:00:00"), "ignored"}

	r, err := toRow(cols, vals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PrimaryID != 42 || r.UserID != 0 || r.Relevance != 0 {
		t.Errorf("unexpected row: %+v", r)
	}
	if r.DateInserted.Year() != 2023 {
		t.Errorf("date = %v", r.DateInserted)
	}

	if _, err := toRow([]string{"PrimaryID"}, []any{"abc"}); err == nil {
		t.Error("expected error for non-numeric id")
	}
}
