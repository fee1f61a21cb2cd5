// Package boost builds the function-score query document sent to the search index.
package boost

// Index field names.
const (
	FieldBody        = "body"
	FieldTitle       = "discussionName"
	FieldThread      = "discussionId"
	FieldHighlighted = "highlighted"
	FieldDate        = "date"
)

// Score combination modes: function weights are summed, then added to the text relevance.
const (
	ScoreModeSum = "sum"
	BoostModeSum = "sum"
)

// Highlight settings for the body field.
const (
	HighlightPreTag        = "<strong>"
	HighlightPostTag       = "</strong>"
	HighlightFragments     = 2
	HighlightFragmentChars = 100
)

// Document is the top-level index query.
type Document struct {
	Size      int       `json:"size"`
	From      int       `json:"from"`
	Highlight Highlight `json:"highlight"`
	Collapse  Collapse  `json:"collapse"`
	Query     Query     `json:"query"`
}

// Highlight configures highlighted fragments per field.
type Highlight struct {
	Fields map[string]HighlightField `json:"fields"`
}

// HighlightField configures fragment extraction for one field.
type HighlightField struct {
	PreTags           []string `json:"pre_tags"`
	PostTags          []string `json:"post_tags"`
	NumberOfFragments int      `json:"number_of_fragments"`
	FragmentSize      int      `json:"fragment_size"`
}

// Collapse keeps the top hit per distinct field value.
type Collapse struct {
	Field string `json:"field"`
}

// Query wraps the function score query.
type Query struct {
	FunctionScore FunctionScore `json:"function_score"`
}

// FunctionScore adjusts the base relevance of Query.Bool by weighted filters.
type FunctionScore struct {
	Query     BoolQuery  `json:"query"`
	Functions []Function `json:"functions"`
	ScoreMode string     `json:"score_mode"`
	BoostMode string     `json:"boost_mode"`
}

// BoolQuery wraps the bool clause.
type BoolQuery struct {
	Bool Bool `json:"bool"`
}

// Bool holds required and optional clauses.
type Bool struct {
	Should []Clause `json:"should"`
	Must   []Clause `json:"must"`
}

// Clause is a single full-text condition. Exactly one field is set.
type Clause struct {
	Match       map[string]string `json:"match,omitempty"`
	MatchPhrase map[string]string `json:"match_phrase,omitempty"`
}

// Function is a weighted filter added to the score when it matches.
type Function struct {
	Filter Filter `json:"filter"`
	Weight int    `json:"weight"`
}

// Filter is a term or range condition.
type Filter struct {
	Term  map[string]any       `json:"term,omitempty"`
	Range map[string]DateRange `json:"range,omitempty"`
}

// DateRange bounds a date field with date-math expressions. GTE is inclusive, LT exclusive.
type DateRange struct {
	GTE string `json:"gte,omitempty"`
	LT  string `json:"lt,omitempty"`
}

// MatchClause matches text against field.
func MatchClause(field, text string) Clause {
	return Clause{Match: map[string]string{field: text}}
}

// PhraseClause matches the exact phrase against field.
func PhraseClause(field, phrase string) Clause {
	return Clause{MatchPhrase: map[string]string{field: phrase}}
}
