package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02",
}

// toRow maps a scanned row onto db.Row by column name (case-insensitive).
// Unknown columns are ignored. Drivers differ in how they return numbers
// and dates, so every field goes through a lenient converter.
func toRow(cols []string, vals []any) (db.Row, error) {
	var r db.Row
	for i, col := range cols {
		v := vals[i]
		var err error
		switch strings.ToLower(col) {
		case "primaryid":
			r.PrimaryID, err = asInt(v)
		case "title":
			r.Title = asString(v)
		case "summary":
			r.Summary = asString(v)
		case "format":
			r.Format = asString(v)
		case "categoryid":
			r.CategoryID, err = asInt(v)
		case "dateinserted":
			r.DateInserted, err = asTime(v)
		case "userid":
			r.UserID, err = asInt(v)
		case "recordtype":
			r.RecordType = asString(v)
		case "relevance":
			r.Relevance = asFloat(v)
		}
		if err != nil {
			return db.Row{}, fmt.Errorf("column %s: %w", col, err)
		}
	}
	return r, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func asInt(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case uint64:
		return int64(t), nil //nolint:gosec // ids fit in int64
	case float64:
		return int64(t), nil
	default:
		s := strings.TrimSpace(asString(v))
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", s)
		}
		return n, nil
	}
}

// asFloat never fails: a non-numeric relevance (e.g. a date column used as
// relevance in like mode) counts as zero.
func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(asString(v)), 64)
		if err != nil {
			return 0
		}
		return f
	}
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		s := strings.TrimSpace(asString(v))
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
}
