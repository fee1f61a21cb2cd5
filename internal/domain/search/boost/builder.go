package boost

import "github.com/kailas-cloud/forumsearch/internal/domain/search/query"

// Build creates a fresh document for q. Every call returns new slices and
// maps, so documents never share state.
//
// Each phrase becomes a required body phrase match and an optional title
// match; the keyword remainder, when non-empty, becomes optional title and
// body matches. An empty query yields empty clause lists.
func Build(q *query.Query) *Document {
	doc := &Document{
		Size:      q.Limit(),
		From:      q.Offset(),
		Highlight: defaultHighlight(),
		Collapse:  Collapse{Field: FieldThread},
		Query: Query{
			FunctionScore: FunctionScore{
				Query: BoolQuery{Bool: Bool{
					Should: []Clause{},
					Must:   []Clause{},
				}},
				Functions: Functions(),
				ScoreMode: ScoreModeSum,
				BoostMode: BoostModeSum,
			},
		},
	}

	b := &doc.Query.FunctionScore.Query.Bool
	for _, phrase := range q.Phrases() {
		b.Must = append(b.Must, PhraseClause(FieldBody, phrase))
		b.Should = append(b.Should, MatchClause(FieldTitle, phrase))
	}

	if kw := q.Keywords(); kw != "" {
		b.Should = append(b.Should,
			MatchClause(FieldTitle, kw),
			MatchClause(FieldBody, kw),
		)
	}

	return doc
}

// Functions returns the boost functions in fixed order: editorial flag,
// then four disjoint recency bands from newest to oldest.
func Functions() []Function {
	return []Function{
		{Filter: Filter{Term: map[string]any{FieldHighlighted: true}}, Weight: 15},
		dateBand("now-3M", "", 10),
		dateBand("now-1y", "now-3M", 8),
		dateBand("now-3y", "now-1y", 7),
		dateBand("now-5y", "now-3y", 5),
	}
}

func dateBand(gte, lt string, weight int) Function {
	return Function{
		Filter: Filter{Range: map[string]DateRange{FieldDate: {GTE: gte, LT: lt}}},
		Weight: weight,
	}
}

func defaultHighlight() Highlight {
	return Highlight{Fields: map[string]HighlightField{
		FieldBody: {
			PreTags:           []string{HighlightPreTag},
			PostTags:          []string{HighlightPostTag},
			NumberOfFragments: HighlightFragments,
			FragmentSize:      HighlightFragmentChars,
		},
	}}
}
