package search

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/link"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/format"
)

// fragmentSeparator joins highlighted fragments into a summary.
const fragmentSeparator = "..."

// Normalize maps index hits to results, preserving order. Thread-origin hits
// link to the thread; every other hit links to its anchored reply.
// Fragments are sanitized, so only allowlisted markup such as the
// highlight <strong> reaches the summary.
func Normalize(hits []hit.Hit, links link.Builder, logger *zap.Logger) []result.Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]result.Result, 0, len(hits))
	for i := range hits {
		h := &hits[i]

		url := links.Reply(h.ID())
		recordType := result.RecordComment
		primary := h.ID()
		if h.IsThread() {
			url = links.Thread(h.ThreadNumber())
			recordType = result.RecordDiscussion
			primary = h.ThreadNumber()
		}
		primaryID, err := strconv.ParseInt(primary, 10, 64)
		if err != nil {
			logger.Warn("Index hit has a non-numeric id", zap.String("id", h.ID()), zap.Error(err))
			primaryID = 0
		}

		r, err := result.New(url, result.Attrs{
			Title:        h.Title(),
			Summary:      summary(h.Fragments()),
			DateInserted: h.Date(),
			UserID:       h.UserID(),
			PrimaryID:    primaryID,
			RecordType:   recordType,
			Score:        h.Score(),
		})
		if err != nil {
			logger.Warn("Skipping index hit", zap.String("id", h.ID()), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out
}

func summary(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	safe := make([]string, len(fragments))
	for i, f := range fragments {
		safe[i] = format.Sanitize(f)
	}
	return strings.Join(safe, fragmentSeparator)
}
