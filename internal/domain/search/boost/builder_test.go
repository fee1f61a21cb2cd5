package boost

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
)

func mustQuery(t *testing.T, text string, offset, limit int) *query.Query {
	t.Helper()
	q, err := query.New(text, offset, limit)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func TestBuild_PhraseAndKeyword(t *testing.T) {
	doc := Build(mustQuery(t, `"phrase one" keyword`, 0, 0))
	b := doc.Query.FunctionScore.Query.Bool

	if len(b.Must) != 1 {
		t.Fatalf("expected 1 must clause, got %d", len(b.Must))
	}
	if b.Must[0].MatchPhrase[FieldBody] != "phrase one" {
		t.Errorf("must[0] = %+v", b.Must[0])
	}

	want := []Clause{
		MatchClause(FieldTitle, "phrase one"),
		MatchClause(FieldTitle, "keyword"),
		MatchClause(FieldBody, "keyword"),
	}
	if len(b.Should) != len(want) {
		t.Fatalf("expected %d should clauses, got %d", len(want), len(b.Should))
	}
	for i, w := range want {
		for f, v := range w.Match {
			if b.Should[i].Match[f] != v {
				t.Errorf("should[%d] = %+v, want %+v", i, b.Should[i], w)
			}
		}
	}
}

func TestBuild_MultiplePhrasesOrdered(t *testing.T) {
	doc := Build(mustQuery(t, `"first one" "second one"`, 0, 0))
	b := doc.Query.FunctionScore.Query.Bool

	if len(b.Must) != 2 || len(b.Should) != 2 {
		t.Fatalf("expected 2 must and 2 should, got %d and %d", len(b.Must), len(b.Should))
	}
	if b.Must[0].MatchPhrase[FieldBody] != "first one" || b.Must[1].MatchPhrase[FieldBody] != "second one" {
		t.Errorf("phrase order not preserved: %+v", b.Must)
	}
}

func TestBuild_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   "} {
		doc := Build(mustQuery(t, text, 0, 0))
		b := doc.Query.FunctionScore.Query.Bool
		if len(b.Must) != 0 || len(b.Should) != 0 {
			t.Errorf("text %q: expected no clauses, got must=%d should=%d", text, len(b.Must), len(b.Should))
		}
	}
}

func TestBuild_PhraseOnlyHasNoKeywordClauses(t *testing.T) {
	doc := Build(mustQuery(t, `"exact words"`, 0, 0))
	b := doc.Query.FunctionScore.Query.Bool
	if len(b.Must) != 1 || len(b.Should) != 1 {
		t.Fatalf("expected 1 must and 1 should, got %d and %d", len(b.Must), len(b.Should))
	}
	if b.Should[0].Match[FieldTitle] != "exact words" {
		t.Errorf("should[0] = %+v", b.Should[0])
	}
}

func TestBuild_Pagination(t *testing.T) {
	tests := []struct {
		offset, limit int
		from, size    int
	}{
		{0, 20, 0, 20},
		{0, 0, 0, 20},
		{40, 10, 40, 10},
	}
	for _, tc := range tests {
		doc := Build(mustQuery(t, "x", tc.offset, tc.limit))
		if doc.From != tc.from || doc.Size != tc.size {
			t.Errorf("offset=%d limit=%d: from=%d size=%d, want from=%d size=%d",
				tc.offset, tc.limit, doc.From, doc.Size, tc.from, tc.size)
		}
	}
}

func TestBuild_FunctionWeightsFixed(t *testing.T) {
	want := []int{15, 10, 8, 7, 5}
	for _, text := range []string{"", "anything", `"p" k`} {
		fns := Build(mustQuery(t, text, 0, 0)).Query.FunctionScore.Functions
		if len(fns) != len(want) {
			t.Fatalf("expected %d functions, got %d", len(want), len(fns))
		}
		for i, w := range want {
			if fns[i].Weight != w {
				t.Errorf("functions[%d].Weight = %d, want %d", i, fns[i].Weight, w)
			}
		}
	}
}

func TestFunctions_DateBandsDisjoint(t *testing.T) {
	fns := Functions()
	if fns[0].Filter.Term[FieldHighlighted] != true {
		t.Fatalf("first function must be the editorial flag, got %+v", fns[0].Filter)
	}

	bands := fns[1:]
	if bands[0].Filter.Range[FieldDate].LT != "" {
		t.Errorf("newest band must be open-ended, got %+v", bands[0].Filter.Range[FieldDate])
	}
	// each older band ends exactly where the newer one starts
	for i := 1; i < len(bands); i++ {
		newer := bands[i-1].Filter.Range[FieldDate]
		older := bands[i].Filter.Range[FieldDate]
		if older.LT != newer.GTE {
			t.Errorf("band %d: lt=%q, want %q", i, older.LT, newer.GTE)
		}
		if older.GTE == "" {
			t.Errorf("band %d has no lower bound", i)
		}
	}
}

func TestBuild_FreshDocumentPerCall(t *testing.T) {
	first := Build(mustQuery(t, `"one" two`, 0, 0))
	second := Build(mustQuery(t, "three", 0, 0))

	if n := len(second.Query.FunctionScore.Query.Bool.Must); n != 0 {
		t.Errorf("second document leaked %d must clauses", n)
	}
	if n := len(second.Query.FunctionScore.Query.Bool.Should); n != 2 {
		t.Errorf("second document has %d should clauses, want 2", n)
	}

	first.Query.FunctionScore.Functions[0].Weight = 99
	first.Highlight.Fields[FieldBody] = HighlightField{}
	third := Build(mustQuery(t, "x", 0, 0))
	if third.Query.FunctionScore.Functions[0].Weight != 15 {
		t.Error("mutating a built document changed later documents")
	}
	if third.Highlight.Fields[FieldBody].NumberOfFragments != HighlightFragments {
		t.Error("highlight settings shared between documents")
	}
}

func TestBuild_JSONShape(t *testing.T) {
	data, err := json.Marshal(Build(mustQuery(t, `"a b" c`, 5, 7)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"size", "from", "highlight", "collapse", "query"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	if raw["size"].(float64) != 7 || raw["from"].(float64) != 5 {
		t.Errorf("size/from = %v/%v", raw["size"], raw["from"])
	}
	if raw["collapse"].(map[string]any)["field"] != FieldThread {
		t.Errorf("collapse = %v", raw["collapse"])
	}

	fs := raw["query"].(map[string]any)["function_score"].(map[string]any)
	if fs["score_mode"] != "sum" || fs["boost_mode"] != "sum" {
		t.Errorf("score_mode/boost_mode = %v/%v", fs["score_mode"], fs["boost_mode"])
	}
	boolQ := fs["query"].(map[string]any)["bool"].(map[string]any)
	if len(boolQ["must"].([]any)) != 1 || len(boolQ["should"].([]any)) != 3 {
		t.Errorf("bool = %v", boolQ)
	}
	if len(fs["functions"].([]any)) != 5 {
		t.Errorf("functions = %v", fs["functions"])
	}
}

func TestBuild_EmptyClauseListsEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(Build(mustQuery(t, "", 0, 0)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw struct {
		Query struct {
			FunctionScore struct {
				Query struct {
					Bool map[string]json.RawMessage `json:"bool"`
				} `json:"query"`
			} `json:"function_score"`
		} `json:"query"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"must", "should"} {
		if string(raw.Query.FunctionScore.Query.Bool[k]) != "[]" {
			t.Errorf("%s = %s, want []", k, raw.Query.FunctionScore.Query.Bool[k])
		}
	}
}
