package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/boost"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/link"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/forumsearch/internal/logger"
)

// Config tunes the index search path.
type Config struct {
	IndexName string
	MaxLimit  int
	Timeout   time.Duration
}

// Service searches the forum index with a boosted, thread-collapsed query.
type Service struct {
	index Index
	links link.Builder
	cfg   Config
}

// New creates a search service.
func New(index Index, links link.Builder, cfg Config) *Service {
	return &Service{index: index, links: links, cfg: cfg}
}

// Search builds the boosted query for text and returns normalized results
// in backend rank order. Blank text returns no results without a backend call.
func (s *Service) Search(ctx context.Context, text string, offset, limit int) ([]result.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	q, err := query.New(text, offset, limit, s.cfg.MaxLimit)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	if q.IsEmpty() {
		return nil, nil
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	hits, err := s.index.Execute(ctx, s.cfg.IndexName, boost.Build(&q))
	if err != nil {
		return nil, domain.NewBackendError(domain.BackendIndex, "search", err)
	}

	return Normalize(hits, s.links, logpkg.FromContext(ctx)), nil
}
