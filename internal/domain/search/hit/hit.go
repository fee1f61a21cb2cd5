package hit

import (
	"fmt"
	"strings"
	"time"
)

// ThreadPrefix marks identifiers of records that open a thread.
const ThreadPrefix = "D_"

// Hit is a raw, rank-ordered record returned by the search index.
type Hit struct {
	id          string
	threadID    string
	title       string
	body        string
	url         string
	date        time.Time
	userID      int64
	highlighted bool
	fragments   []string
	score       float64
}

// Fields carries the source attributes of a hit.
type Fields struct {
	ThreadID    string
	Title       string
	Body        string
	URL         string
	Date        time.Time
	UserID      int64
	Highlighted bool
	Fragments   []string
	Score       float64
}

// New validates and creates a hit. The identifier is required.
func New(id string, f Fields) (Hit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Hit{}, fmt.Errorf("hit id is required")
	}
	var fragments []string
	if len(f.Fragments) > 0 {
		fragments = make([]string, len(f.Fragments))
		copy(fragments, f.Fragments)
	}
	return Hit{
		id:          id,
		threadID:    f.ThreadID,
		title:       f.Title,
		body:        f.Body,
		url:         f.URL,
		date:        f.Date,
		userID:      f.UserID,
		highlighted: f.Highlighted,
		fragments:   fragments,
		score:       f.Score,
	}, nil
}

// ID returns the composite identifier.
func (h *Hit) ID() string { return h.id }

// IsThread reports whether the hit is the thread-opening record.
func (h *Hit) IsThread() bool {
	return strings.HasPrefix(h.id, ThreadPrefix) && len(h.id) > len(ThreadPrefix)
}

// ThreadNumber returns the identifier without the thread prefix.
// Only meaningful when IsThread is true.
func (h *Hit) ThreadNumber() string { return strings.TrimPrefix(h.id, ThreadPrefix) }

// ThreadID returns the parent thread identifier (the collapse key).
func (h *Hit) ThreadID() string { return h.threadID }

// Title returns the thread title.
func (h *Hit) Title() string { return h.title }

// Body returns the record body.
func (h *Hit) Body() string { return h.body }

// URL returns the URL stored in the index.
func (h *Hit) URL() string { return h.url }

// Date returns the insertion time.
func (h *Hit) Date() time.Time { return h.date }

// UserID returns the author identifier.
func (h *Hit) UserID() int64 { return h.userID }

// Highlighted reports the editorial flag.
func (h *Hit) Highlighted() bool { return h.highlighted }

// Fragments returns the highlighted body fragments.
func (h *Hit) Fragments() []string { return h.fragments }

// Score returns the backend relevance score.
func (h *Hit) Score() float64 { return h.score }

// Fields returns the source attributes, for re-creating the hit with New.
func (h *Hit) Fields() Fields {
	return Fields{
		ThreadID:    h.threadID,
		Title:       h.title,
		Body:        h.body,
		URL:         h.url,
		Date:        h.date,
		UserID:      h.userID,
		Highlighted: h.highlighted,
		Fragments:   h.fragments,
		Score:       h.score,
	}
}
