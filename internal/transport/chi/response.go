package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest     ErrorCode = "bad_request"
	CodeUnauthorized   ErrorCode = "unauthorized"
	CodeValidation     ErrorCode = "validation_failed"
	CodeBackend        ErrorCode = "search_backend_error"
	CodeNotImplemented ErrorCode = "not_implemented"
	CodeInternal       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResultItem is one normalized result.
type SearchResultItem struct {
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	URL          string    `json:"url"`
	DateInserted time.Time `json:"dateInserted"`
	UserID       int64     `json:"userID"`
	PrimaryID    int64     `json:"primaryID"`
	RecordType   string    `json:"recordType"`
	Format       string    `json:"format"`
	Score        float64   `json:"score"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Items  []SearchResultItem `json:"items"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
	Total  int                `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func searchResultToItem(r *result.Result) SearchResultItem {
	return SearchResultItem{
		Title:        r.Title(),
		Summary:      r.Summary(),
		URL:          r.URL(),
		DateInserted: r.DateInserted().UTC(),
		UserID:       r.UserID(),
		PrimaryID:    r.PrimaryID(),
		RecordType:   string(r.RecordType()),
		Format:       r.Format(),
		Score:        r.Score(),
	}
}
