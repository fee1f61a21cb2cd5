package resultcache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
)

type entry struct {
	ID          string    `json:"id"`
	ThreadID    string    `json:"thread_id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Body        string    `json:"body,omitempty"`
	URL         string    `json:"url,omitempty"`
	Date        time.Time `json:"date"`
	UserID      int64     `json:"user_id,omitempty"`
	Highlighted bool      `json:"highlighted,omitempty"`
	Fragments   []string  `json:"fragments,omitempty"`
	Score       float64   `json:"score,omitempty"`
}

func encodeHits(hits []hit.Hit) ([]byte, error) {
	entries := make([]entry, 0, len(hits))
	for _, h := range hits {
		f := h.Fields()
		entries = append(entries, entry{
			ID:          h.ID(),
			ThreadID:    f.ThreadID,
			Title:       f.Title,
			Body:        f.Body,
			URL:         f.URL,
			Date:        f.Date,
			UserID:      f.UserID,
			Highlighted: f.Highlighted,
			Fragments:   f.Fragments,
			Score:       f.Score,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal hits: %w", err)
	}
	return data, nil
}

func decodeHits(data []byte) ([]hit.Hit, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal hits: %w", err)
	}
	hits := make([]hit.Hit, 0, len(entries))
	for _, e := range entries {
		h, err := hit.New(e.ID, hit.Fields{
			ThreadID:    e.ThreadID,
			Title:       e.Title,
			Body:        e.Body,
			URL:         e.URL,
			Date:        e.Date,
			UserID:      e.UserID,
			Highlighted: e.Highlighted,
			Fragments:   e.Fragments,
			Score:       e.Score,
		})
		if err != nil {
			return nil, fmt.Errorf("cached hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, nil
}
