package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/forumsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed free-text length in bytes.
	MaxTextLength = 4096
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultOffset = 0
)

// phraseRe matches a double-quoted phrase; group 1 is the phrase without quotes.
var phraseRe = regexp.MustCompile(`"([^"]+)"`)

// Query is a validated free-text search request.
type Query struct {
	text     string
	phrases  []string
	keywords string
	offset   int
	limit    int
}

// New parses text and normalizes pagination.
// Negative offset becomes 0, non-positive limit becomes DefaultLimit,
// limit above maxLimit (MaxLimit when maxLimit <= 0) is clamped.
func New(text string, offset, limit int, maxLimit ...int) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text too long (max %d bytes)", domain.ErrInvalidQuery, MaxTextLength)
	}

	ceiling := MaxLimit
	if len(maxLimit) > 0 && maxLimit[0] > 0 {
		ceiling = maxLimit[0]
	}
	if offset < 0 {
		offset = DefaultOffset
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > ceiling {
		limit = ceiling
	}

	phrases, keywords := Parse(text)

	return Query{
		text:     text,
		phrases:  phrases,
		keywords: keywords,
		offset:   offset,
		limit:    limit,
	}, nil
}

// Parse splits text into quoted phrases, in order of appearance, and the
// remaining keyword text. Each quoted phrase is removed from the keyword
// text once (first occurrence), and the remainder is whitespace-normalized.
func Parse(text string) (phrases []string, keywords string) {
	working := text
	for _, m := range phraseRe.FindAllStringSubmatch(text, -1) {
		phrases = append(phrases, m[1])
		working = strings.Replace(working, m[0], " ", 1)
	}
	return phrases, strings.Join(strings.Fields(working), " ")
}

// Text returns the original free text.
func (q *Query) Text() string { return q.text }

// Phrases returns a copy of the extracted phrases.
func (q *Query) Phrases() []string {
	if len(q.phrases) == 0 {
		return nil
	}
	out := make([]string, len(q.phrases))
	copy(out, q.phrases)
	return out
}

// Keywords returns the text left after phrase removal.
func (q *Query) Keywords() string { return q.keywords }

// Offset returns the pagination offset.
func (q *Query) Offset() int { return q.offset }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// IsEmpty reports whether there is nothing to search for.
func (q *Query) IsEmpty() bool {
	return len(q.phrases) == 0 && q.keywords == ""
}
