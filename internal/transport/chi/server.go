package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/forumsearch/internal/logger"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
)

// Searcher runs one search and returns normalized results.
type Searcher interface {
	Search(ctx context.Context, text string, offset, limit int) ([]result.Result, error)
}

// LegacyFactory builds a fresh relational searcher for one request.
// forced is empty unless the caller pinned a match mode.
type LegacyFactory func(forced mode.Mode) Searcher

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options configures a Server.
type Options struct {
	DefaultBackend string
	MaxLimit       int
}

// Server serves the search API.
type Server struct {
	index         Searcher
	legacy        LegacyFactory
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. legacy may be nil when the
// relational backend is not configured.
func NewServer(
	index Searcher,
	legacy LegacyFactory,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.DefaultBackend == "" {
		opts.DefaultBackend = domain.BackendIndex
	}
	s := &Server{
		index:  index,
		legacy: legacy,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidation),
		sentinelHandler(domain.ErrSearchBackend, http.StatusBadGateway, CodeBackend),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, CodeNotImplemented),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search?q=&offset=&limit=&backend=&mode=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// Optional parameters bind into pointers; absent ones stay nil.
	var (
		text, backend, force *string
		offset, limit        *int
	)
	for _, b := range []struct {
		name string
		dest any
	}{
		{"q", &text},
		{"offset", &offset},
		{"limit", &limit},
		{"backend", &backend},
		{"mode", &force},
	} {
		if err := runtime.BindQueryParameter("form", true, false, b.name, params, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("Invalid parameter %s", b.name))
			return
		}
	}

	q, err := query.New(deref(text), deref(offset), deref(limit), s.opts.MaxLimit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	name := s.opts.DefaultBackend
	if backend != nil && *backend != "" {
		name = strings.ToLower(*backend)
	}

	searcher, err := s.searcher(name, force)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := searcher.Search(r.Context(), q.Text(), q.Offset(), q.Limit())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(name, "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.SearchRequestsTotal.WithLabelValues(name, "ok").Inc()
	metrics.SearchResultsReturned.WithLabelValues(name).Observe(float64(len(results)))

	logpkg.FromContext(r.Context()).Debug("search",
		zap.String("backend", name),
		zap.Int("offset", q.Offset()),
		zap.Int("limit", q.Limit()),
		zap.Int("results", len(results)),
	)

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToItem(&results[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items:  items,
		Offset: q.Offset(),
		Limit:  q.Limit(),
		Total:  len(items),
	})
}

func (s *Server) searcher(name string, force *string) (Searcher, error) {
	var forced mode.Mode
	if force != nil && *force != "" {
		forced = mode.Mode(strings.ToLower(*force))
		if !forced.IsValid() {
			return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidQuery, *force)
		}
	}

	switch name {
	case domain.BackendIndex:
		if forced != "" {
			return nil, fmt.Errorf("%w: mode applies to the legacy backend only", domain.ErrInvalidQuery)
		}
		return s.index, nil
	case domain.BackendLegacy:
		if s.legacy == nil {
			return nil, fmt.Errorf("%w: legacy backend is not configured", domain.ErrNotImplemented)
		}
		return s.legacy(forced), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", domain.ErrInvalidQuery, name)
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Invalid-query errors carry the caller's own input and are returned verbatim.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrSearchBackend,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
