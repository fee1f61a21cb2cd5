// Package legacy implements relational full-text search over forum tables.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/link"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/format"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
)

const paramPrefix = "Search"

var placeholderRe = regexp.MustCompile(`:` + paramPrefix + `\d+\b`)

// Source contributes match clauses for one content type.
type Source interface {
	Contribute(ctx context.Context, m *Model) error
}

// Model accumulates per-source clauses and runs them as one unioned query.
// A Model holds per-search state and is not safe for concurrent use.
type Model struct {
	store   db.RowQuerier
	sources []Source
	links   link.Builder
	cfg     mode.Config
	logger  *zap.Logger

	forced  mode.Mode
	mode    mode.Mode
	value   string
	params  []sql.NamedArg
	clauses []*Clause
}

// New creates a model that asks sources for clauses on every search.
func New(store db.RowQuerier, links link.Builder, cfg mode.Config, logger *zap.Logger, sources ...Source) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		store:   store,
		sources: sources,
		links:   links,
		cfg:     cfg,
		logger:  logger,
		mode:    mode.Match,
	}
}

// ForceMode pins the match mode for subsequent searches. Empty clears it.
func (m *Model) ForceMode(md mode.Mode) { m.forced = md }

// SearchMode returns the current match mode.
func (m *Model) SearchMode() mode.Mode { return m.mode }

// SetSearchMode overrides the current match mode until the next search.
func (m *Model) SetSearchMode(md mode.Mode) { m.mode = md }

// Parameter returns the next placeholder name and binds it to the current
// search value.
func (m *Model) Parameter() string {
	name := paramPrefix + strconv.Itoa(len(m.params))
	m.params = append(m.params, sql.Named(name, m.value))
	return ":" + name
}

// AddMatchClause adds the relevance column and match predicate for columns
// to c, according to the current mode. likeRelevance is the column used as
// relevance in like mode; empty means a constant 1.
func (m *Model) AddMatchClause(c *Clause, columns []string, likeRelevance string) {
	if m.mode == mode.Like {
		if likeRelevance != "" {
			c.Select(likeRelevance, "Relevance")
		} else {
			c.Select("1", "Relevance")
		}
		preds := make([]string, 0, len(columns))
		for _, col := range columns {
			preds = append(preds, col+" like "+m.Parameter())
		}
		c.Where("(" + strings.Join(preds, " or ") + ")")
		return
	}

	var boolean string
	if m.mode == mode.Boolean {
		boolean = " in boolean mode"
	}
	cols := strings.Join(columns, ", ")
	c.Select("match("+cols+") against("+m.Parameter()+boolean+")", "Relevance")
	c.Where("match(" + cols + ") against (" + m.Parameter() + boolean + ")")
}

// AddSearch accumulates a completed clause.
func (m *Model) AddSearch(c *Clause) {
	m.clauses = append(m.clauses, c)
}

// Reset clears accumulated clauses and parameters.
func (m *Model) Reset() {
	m.params = nil
	m.clauses = nil
	m.value = ""
}

// Search runs text against every source. Blank text, or no contributed
// clauses, returns an empty result without querying the store.
func (m *Model) Search(ctx context.Context, text string, offset, limit int) ([]result.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	defer m.Reset()
	m.Reset()

	m.mode = mode.Select(text, m.forced, m.cfg)
	metrics.LegacyModeTotal.WithLabelValues(string(m.mode)).Inc()

	m.value = text
	if m.mode == mode.Like {
		m.value = "%" + text + "%"
	}

	for _, src := range m.sources {
		if err := src.Contribute(ctx, m); err != nil {
			return nil, fmt.Errorf("contribute clauses: %w", err)
		}
	}
	if len(m.clauses) == 0 {
		return nil, nil
	}

	stmt, err := m.statement(offset, limit)
	if err != nil {
		m.logger.Error("Legacy search statement is inconsistent", zap.Error(err))
		return nil, err
	}

	rows, err := m.store.QueryRows(ctx, stmt)
	if err != nil {
		return nil, domain.NewBackendError(domain.BackendLegacy, "query", err)
	}

	return m.results(rows), nil
}

// statement unions the clauses and checks that every placeholder in the
// SQL has exactly one bound parameter and vice versa.
func (m *Model) statement(offset, limit int) (db.Statement, error) {
	parts := make([]string, 0, len(m.clauses))
	for _, c := range m.clauses {
		parts = append(parts, c.SQL())
	}

	var sb strings.Builder
	sb.WriteString("select s.*\nfrom (\n")
	sb.WriteString(strings.Join(parts, "\nunion all\n"))
	sb.WriteString("\n) s\norder by s.DateInserted desc\nlimit ")
	sb.WriteString(strconv.Itoa(limit))
	sb.WriteString(" offset ")
	sb.WriteString(strconv.Itoa(offset))
	query := sb.String()

	seen := make(map[string]int, len(m.params))
	for _, tok := range placeholderRe.FindAllString(query, -1) {
		seen[tok[1:]]++
	}
	if len(seen) != len(m.params) {
		return db.Statement{}, fmt.Errorf("%w: %d placeholders, %d parameters", domain.ErrValidationGap, len(seen), len(m.params))
	}
	args := make([]any, 0, len(m.params))
	for _, p := range m.params {
		if seen[p.Name] != 1 {
			return db.Statement{}, fmt.Errorf("%w: parameter %s used %d times", domain.ErrValidationGap, p.Name, seen[p.Name])
		}
		args = append(args, p)
	}

	return db.Statement{SQL: query, Args: args}, nil
}

func (m *Model) results(rows []db.Row) []result.Result {
	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		rt := result.RecordType(row.RecordType)
		var url string
		switch rt {
		case result.RecordDiscussion:
			url = m.links.Discussion(row.PrimaryID, row.Title)
		case result.RecordComment:
			url = m.links.Reply(strconv.FormatInt(row.PrimaryID, 10))
		}

		r, err := result.New(url, result.Attrs{
			Title:        row.Title,
			Summary:      format.Condense(format.ToHTML(row.Summary, row.Format)),
			DateInserted: row.DateInserted,
			UserID:       row.UserID,
			PrimaryID:    row.PrimaryID,
			RecordType:   rt,
			Score:        row.Relevance,
		})
		if err != nil {
			m.logger.Warn("Skipping legacy row", zap.Int64("primary_id", row.PrimaryID), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out
}
