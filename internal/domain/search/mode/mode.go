package mode

import (
	"strings"
	"unicode/utf8"
)

// Mode is the textual match strategy of the legacy relational search.
type Mode string

// Match mode constants.
const (
	// Match ranks with native natural-language full-text matching.
	Match   Mode = "match"
	Boolean Mode = "boolean"
	// Like falls back to substring (wildcard) matching.
	Like Mode = "like"
	// MatchBoolean is a configuration-only value: boolean when the text
	// carries + or - operators, natural-language match otherwise.
	MatchBoolean Mode = "matchboolean"
)

// FullTextEngine is the storage engine with native full-text match support.
const FullTextEngine = "myisam"

// shortTextLimit is the longest trimmed text that is always searched with Like.
// Native full-text engines ignore very short tokens.
const shortTextLimit = 4

// Config holds the recognized mode selection options.
type Config struct {
	// DefaultMode is one of match, boolean, like, matchboolean. Empty means matchboolean.
	DefaultMode Mode
	// StorageEngineOverride forces Like unless empty or FullTextEngine.
	StorageEngineOverride string
}

// IsValid checks if the mode can be used to build a clause.
func (m Mode) IsValid() bool {
	return m == Match || m == Boolean || m == Like
}

// IsConfigurable checks if the mode is accepted as a configured default.
func (m Mode) IsConfigurable() bool {
	return m.IsValid() || m == MatchBoolean
}

// Select picks the match mode for text. A forced mode replaces the
// configured default (matchboolean resolves by operator presence); the
// storage engine and short text overrides then force Like in either case.
func Select(text string, forced Mode, cfg Config) Mode {
	selected := Mode(strings.ToLower(string(forced)))
	if selected == "" {
		selected = Mode(strings.ToLower(string(cfg.DefaultMode)))
	}
	if selected == "" {
		selected = MatchBoolean
	}

	if selected == MatchBoolean {
		if strings.ContainsAny(text, "+-") {
			selected = Boolean
		} else {
			selected = Match
		}
	}

	if engine := cfg.StorageEngineOverride; engine != "" && !strings.EqualFold(engine, FullTextEngine) {
		selected = Like
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) <= shortTextLimit {
		selected = Like
	}

	return selected
}
