package search

import (
	"context"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/boost"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
)

// Index executes boosted query documents.
type Index interface {
	Execute(ctx context.Context, index string, doc *boost.Document) ([]hit.Hit, error)
}
