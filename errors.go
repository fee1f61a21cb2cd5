package forumsearch

import "github.com/kailas-cloud/forumsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSearchBackend  = domain.ErrSearchBackend
	ErrInvalidQuery   = domain.ErrInvalidQuery
	ErrValidationGap  = domain.ErrValidationGap
	ErrNotImplemented = domain.ErrNotImplemented
)
