package forumsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
)

// Backend selects where a search runs.
type Backend string

// Backends.
const (
	BackendIndex  Backend = domain.BackendIndex
	BackendLegacy Backend = domain.BackendLegacy
)

// Mode pins the relational match strategy.
type Mode string

// Modes.
const (
	ModeMatch   Mode = Mode(mode.Match)
	ModeBoolean Mode = Mode(mode.Boolean)
	ModeLike    Mode = Mode(mode.Like)
)

// SearchOptions configures a search. The zero value searches the index
// for the first page.
type SearchOptions struct {
	Offset  int
	Limit   int
	Backend Backend
	// Mode applies to BackendLegacy only.
	Mode Mode
}

// Result is one normalized search result.
type Result struct {
	Title        string
	Summary      string
	URL          string
	DateInserted time.Time
	UserID       int64
	PrimaryID    int64
	RecordType   string
	Format       string
	Score        float64
}

// Search runs text against the selected backend. Blank text returns no
// results without a backend call.
func (c *Client) Search(ctx context.Context, text string, opts *SearchOptions) ([]Result, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	q, err := query.New(text, opts.Offset, opts.Limit, c.maxLimit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	backend := Backend(strings.ToLower(string(opts.Backend)))
	if backend == "" {
		backend = BackendIndex
	}
	forced := mode.Mode(strings.ToLower(string(opts.Mode)))
	if forced != "" && !forced.IsValid() {
		return nil, fmt.Errorf("search: %w: unknown mode %q", domain.ErrInvalidQuery, opts.Mode)
	}

	var results []result.Result
	switch backend {
	case BackendIndex:
		if forced != "" {
			return nil, fmt.Errorf("search: %w: mode applies to the legacy backend only", domain.ErrInvalidQuery)
		}
		results, err = c.index.Search(ctx, text, q.Offset(), q.Limit())
	case BackendLegacy:
		if c.legacy == nil {
			return nil, fmt.Errorf("search: %w: legacy backend is not configured (use WithLegacyDB)",
				domain.ErrNotImplemented)
		}
		results, err = c.legacy(forced).Search(ctx, text, q.Offset(), q.Limit())
	default:
		return nil, fmt.Errorf("search: %w: unknown backend %q", domain.ErrInvalidQuery, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResults(results), nil
}

func fromResults(in []result.Result) []Result {
	out := make([]Result, len(in))
	for i := range in {
		r := &in[i]
		out[i] = Result{
			Title:        r.Title(),
			Summary:      r.Summary(),
			URL:          r.URL(),
			DateInserted: r.DateInserted(),
			UserID:       r.UserID(),
			PrimaryID:    r.PrimaryID(),
			RecordType:   string(r.RecordType()),
			Format:       r.Format(),
			Score:        r.Score(),
		}
	}
	return out
}
