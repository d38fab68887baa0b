package token

import "strings"

// synonyms maps alternate single-word spellings onto a canonical keyword.
var synonyms = map[string]TokenType{
	"serial4":   SERIAL,
	"serial8":   BIGSERIAL,
	"serial2":   SMALLSERIAL,
	"int1":      TINYINT,
	"int2":      SMALLINT,
	"integer":   INT,
	"int4":      INT,
	"int8":      BIGINT,
	"float4":    REAL,
	"float8":    DOUBLE,
	"bool":      BOOLEAN,
	"character": CHAR,
	"dec":       DECIMAL,
	"varbit":    BIT,
}

// Phrase is a multi-word spelling that folds into a single keyword token,
// e.g. "character varying" becomes VARCHAR.
type Phrase struct {
	Words []string
	Type  TokenType
}

// phrases is keyed by the canonical keyword of the first word. Longer
// phrases are listed first so the longest match wins.
var phrases = map[TokenType][]Phrase{
	CHAR: {
		{Words: []string{"character", "varying"}, Type: VARCHAR},
		{Words: []string{"char", "varying"}, Type: VARCHAR},
	},
	DOUBLE: {
		{Words: []string{"double", "precision"}, Type: DOUBLE},
	},
	BIT: {
		{Words: []string{"bit", "varying"}, Type: BIT},
	},
	TIMESTAMP: {
		{Words: []string{"timestamp", "without", "time", "zone"}, Type: TIMESTAMP},
		{Words: []string{"timestamp", "with", "time", "zone"}, Type: TIMESTAMPTZ},
	},
	TIME: {
		{Words: []string{"time", "without", "time", "zone"}, Type: TIME},
		{Words: []string{"time", "with", "time", "zone"}, Type: TIMETZ},
	},
}

// PhrasesFor returns the multi-word spellings that may start with a keyword
// of type t.
func PhrasesFor(t TokenType) []Phrase {
	return phrases[t]
}

// Matches reports whether words spell out the phrase, ignoring case.
func (p Phrase) Matches(words []string) bool {
	if len(words) != len(p.Words) {
		return false
	}
	for i, w := range words {
		if !strings.EqualFold(w, p.Words[i]) {
			return false
		}
	}
	return true
}

// IsPascal reports whether s starts with an upper-case ASCII letter.
// Component names and imported items are spelled this way.
func IsPascal(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// IsLowerName reports whether s starts with a lower-case ASCII letter or
// an underscore. Property and function names are spelled this way.
func IsLowerName(s string) bool {
	return s != "" && (s[0] >= 'a' && s[0] <= 'z' || s[0] == '_')
}
