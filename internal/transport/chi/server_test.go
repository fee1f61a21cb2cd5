package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
)

type searchCall struct {
	text          string
	offset, limit int
}

type mockSearcher struct {
	calls   []searchCall
	results []result.Result
	err     error
}

func (m *mockSearcher) Search(_ context.Context, text string, offset, limit int) ([]result.Result, error) {
	m.calls = append(m.calls, searchCall{text: text, offset: offset, limit: limit})
	return m.results, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

func testResult(t *testing.T) result.Result {
	t.Helper()
	r, err := result.New("/discussion/123", result.Attrs{
		Title:        "First thread",
		Summary:      "thread <strong>body</strong>",
		DateInserted: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UserID:       7,
		PrimaryID:    123,
		RecordType:   result.RecordDiscussion,
		Score:        12.5,
	})
	if err != nil {
		t.Fatalf("result.New: %v", err)
	}
	return r
}

type testEnv struct {
	index   *mockSearcher
	legacy  *mockSearcher
	forced  []mode.Mode
	router  http.Handler
	pingErr *mockPinger
}

func newTestEnv(t *testing.T, withLegacy bool, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{
		index:   &mockSearcher{},
		legacy:  &mockSearcher{},
		pingErr: &mockPinger{},
	}

	var factory LegacyFactory
	if withLegacy {
		factory = func(forced mode.Mode) Searcher {
			env.forced = append(env.forced, forced)
			return env.legacy
		}
	}

	srv := NewServer(env.index, factory, healthuc.New(&mockPinger{}, env.pingErr, nil), opts, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	env.router = r
	return env
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestSearch_IndexBackend(t *testing.T) {
	env := newTestEnv(t, false, Options{MaxLimit: 50})
	env.index.results = []result.Result{testResult(t)}

	before := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("index", "ok"))

	rr := env.get(t, "/search?q=first+thread&offset=10&limit=5")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Offset != 10 || resp.Limit != 5 {
		t.Errorf("page = %+v", resp)
	}
	item := resp.Items[0]
	if item.URL != "/discussion/123" || item.Title != "First thread" || item.RecordType != "Discussion" {
		t.Errorf("item = %+v", item)
	}
	if item.PrimaryID != 123 || item.UserID != 7 || item.Score != 12.5 {
		t.Errorf("item ids = %+v", item)
	}

	if len(env.index.calls) != 1 {
		t.Fatalf("index calls = %d", len(env.index.calls))
	}
	if got := env.index.calls[0]; got != (searchCall{text: "first thread", offset: 10, limit: 5}) {
		t.Errorf("call = %+v", got)
	}

	after := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("index", "ok"))
	if after-before != 1 {
		t.Errorf("search_requests_total delta = %v, want 1", after-before)
	}
}

func TestSearch_EmptyResultsEncodeAsArray(t *testing.T) {
	env := newTestEnv(t, false, Options{})

	rr := env.get(t, "/search?q=")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"items":[]`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestSearch_LimitCapped(t *testing.T) {
	env := newTestEnv(t, false, Options{MaxLimit: 20})

	rr := env.get(t, "/search?q=x&limit=500&offset=-3")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := env.index.calls[0]
	if got.limit != 20 || got.offset != 0 {
		t.Errorf("call = %+v, want limit 20 offset 0", got)
	}
}

func TestSearch_LegacyBackend(t *testing.T) {
	env := newTestEnv(t, true, Options{})
	env.legacy.results = []result.Result{testResult(t)}

	rr := env.get(t, "/search?q=hello&backend=legacy&mode=LIKE")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if len(env.legacy.calls) != 1 || len(env.index.calls) != 0 {
		t.Fatalf("legacy calls = %d, index calls = %d", len(env.legacy.calls), len(env.index.calls))
	}
	if len(env.forced) != 1 || env.forced[0] != mode.Like {
		t.Errorf("forced = %v", env.forced)
	}
}

func TestSearch_DefaultBackendLegacy(t *testing.T) {
	env := newTestEnv(t, true, Options{DefaultBackend: domain.BackendLegacy})

	rr := env.get(t, "/search?q=hello")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(env.legacy.calls) != 1 || env.forced[0] != "" {
		t.Errorf("legacy calls = %d, forced = %v", len(env.legacy.calls), env.forced)
	}
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		legacy     bool
		indexErr   error
		wantStatus int
		wantCode   ErrorCode
	}{
		{
			name:       "bad offset",
			target:     "/search?q=x&offset=abc",
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeBadRequest,
		},
		{
			name:       "unknown backend",
			target:     "/search?q=x&backend=solr",
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name:       "unknown mode",
			target:     "/search?q=x&backend=legacy&mode=fuzzy",
			legacy:     true,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name:       "mode on index backend",
			target:     "/search?q=x&mode=like",
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name:       "query too long",
			target:     "/search?q=" + strings.Repeat("a", 4097),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name:       "legacy not configured",
			target:     "/search?q=x&backend=legacy",
			wantStatus: http.StatusNotImplemented,
			wantCode:   CodeNotImplemented,
		},
		{
			name:       "backend failure",
			target:     "/search?q=x",
			indexErr:   domain.NewBackendError(domain.BackendIndex, "search", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeBackend,
		},
		{
			name:       "validation gap",
			target:     "/search?q=x",
			indexErr:   fmt.Errorf("%w: 2 placeholders, 1 binding", domain.ErrValidationGap),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, tc.legacy, Options{})
			env.index.err = tc.indexErr

			rr := env.get(t, tc.target)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if got := decodeError(t, rr); got.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tc.wantCode)
			}
		})
	}
}

func TestSearch_BackendErrorHidesDetails(t *testing.T) {
	env := newTestEnv(t, false, Options{})
	env.index.err = domain.NewBackendError(domain.BackendIndex, "search", errors.New("dial tcp 10.0.0.5:9200"))

	rr := env.get(t, "/search?q=x")
	resp := decodeError(t, rr)
	if strings.Contains(resp.Message, "10.0.0.5") {
		t.Errorf("message leaks internals: %q", resp.Message)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, false, Options{})

	rr := env.get(t, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthy: status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["index"] != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}
	if _, ok := resp.Checks["cache"]; ok {
		t.Error("unconfigured cache must not be reported")
	}

	env.pingErr.err = errors.New("down")
	rr = env.get(t, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded: status = %d, want 503", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false, Options{})

	rr := env.get(t, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}
