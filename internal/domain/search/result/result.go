package result

import (
	"fmt"
	"time"
)

// RecordType names the origin of a result.
type RecordType string

// Record types.
const (
	// RecordDiscussion is the thread-opening record.
	RecordDiscussion RecordType = "Discussion"
	RecordComment    RecordType = "Comment"
)

// FormatHTML marks a summary that is already safe HTML.
const FormatHTML = "html"

// Result is a normalized search result, identical across backends.
type Result struct {
	title        string
	summary      string
	url          string
	dateInserted time.Time
	userID       int64
	primaryID    int64
	recordType   RecordType
	format       string
	score        float64
}

// Attrs carries the optional attributes of a result.
type Attrs struct {
	Title        string
	Summary      string
	DateInserted time.Time
	UserID       int64
	PrimaryID    int64
	RecordType   RecordType
	Score        float64
}

// New validates and creates a result. The URL is required; the summary must
// already be formatted, so Format is always html.
func New(url string, a Attrs) (Result, error) {
	if url == "" {
		return Result{}, fmt.Errorf("result url is required")
	}
	switch a.RecordType {
	case RecordDiscussion, RecordComment:
	default:
		return Result{}, fmt.Errorf("unknown record type %q", a.RecordType)
	}
	return Result{
		title:        a.Title,
		summary:      a.Summary,
		url:          url,
		dateInserted: a.DateInserted,
		userID:       a.UserID,
		primaryID:    a.PrimaryID,
		recordType:   a.RecordType,
		format:       FormatHTML,
		score:        a.Score,
	}, nil
}

// Title returns the thread title.
func (r *Result) Title() string { return r.title }

// Summary returns the pre-formatted, safe summary.
func (r *Result) Summary() string { return r.summary }

// URL returns the canonical URL.
func (r *Result) URL() string { return r.url }

// DateInserted returns the insertion time.
func (r *Result) DateInserted() time.Time { return r.dateInserted }

// UserID returns the author identifier.
func (r *Result) UserID() int64 { return r.userID }

// PrimaryID returns the numeric record identifier.
func (r *Result) PrimaryID() int64 { return r.primaryID }

// RecordType returns the record origin.
func (r *Result) RecordType() RecordType { return r.recordType }

// Format returns the summary format.
func (r *Result) Format() string { return r.format }

// Score returns the backend relevance score (0 when the backend does not rank).
func (r *Result) Score() float64 { return r.score }
