// Package token defines the lexical tokens of the Avenger language.
//
// Structural tokens (identifiers, literals, operators, punctuation) are
// declared here. The reserved-word table lives in keywords.go and the
// alternate and multi-word spellings that fold onto a canonical keyword live
// in synonyms.go.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Identifiers
	IDENT        // lower or underscore leading: width, _tmp
	PASCAL_IDENT // upper-case leading: Rect, Chart
	QUOTED_IDENT // `quoted name`

	// References
	VARIABLE // @name
	PARAM    // ? or $1

	// Literals
	NUMBER     // 123, 1_000, 0x1F, 4.5e-3
	STRING     // 'hello'
	DQ_STRING  // "hello"
	BIT_STRING // B'0101', X'1F'

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^

	// Relational operators
	EQ // =
	NE // != or <>
	LT // <
	GT // >
	LE // <=
	GE // >=

	// Other symbolic operators
	DPIPE        // ||
	DCOLON       // ::
	ARROW        // ->
	DARROW       // ->>
	HASH_ARROW   // #>
	HASH_DARROW  // #>>
	CONTAINS     // @>
	CONTAINED_BY // <@
	OVERLAP      // &&
	LSHIFT       // <<
	RSHIFT       // >>
	AMPERSAND    // &
	PIPE         // |
	HASH         // #
	TILDE        // ~
	TILDE_STAR   // ~*
	NOT_TILDE    // !~
	NOT_TILDE_ST // !~*
	BANG         // !
	DBANG        // !!
	SQRT         // |/
	CBRT         // ||/

	// Punctuation
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }

	// keywordStart marks the beginning of the keyword range; see keywords.go.
	keywordStart
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if name, ok := keywordNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps non-keyword token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:        "IDENT",
	PASCAL_IDENT: "PASCAL_IDENT",
	QUOTED_IDENT: "QUOTED_IDENT",
	VARIABLE:     "VARIABLE",
	PARAM:        "PARAM",

	NUMBER:     "NUMBER",
	STRING:     "STRING",
	DQ_STRING:  "DQ_STRING",
	BIT_STRING: "BIT_STRING",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	CARET:   "^",

	EQ: "=",
	NE: "!=",
	LT: "<",
	GT: ">",
	LE: "<=",
	GE: ">=",

	DPIPE:        "||",
	DCOLON:       "::",
	ARROW:        "->",
	DARROW:       "->>",
	HASH_ARROW:   "#>",
	HASH_DARROW:  "#>>",
	CONTAINS:     "@>",
	CONTAINED_BY: "<@",
	OVERLAP:      "&&",
	LSHIFT:       "<<",
	RSHIFT:       ">>",
	AMPERSAND:    "&",
	PIPE:         "|",
	HASH:         "#",
	TILDE:        "~",
	TILDE_STAR:   "~*",
	NOT_TILDE:    "!~",
	NOT_TILDE_ST: "!~*",
	BANG:         "!",
	DBANG:        "!!",
	SQRT:         "|/",
	CBRT:         "||/",

	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
}

// Symbols lists every operator and punctuation spelling with its token type,
// longest spellings first so a scanner can take the first prefix match.
var Symbols = []struct {
	Text string
	Type TokenType
}{
	{"||/", CBRT},
	{"->>", DARROW},
	{"#>>", HASH_DARROW},
	{"!~*", NOT_TILDE_ST},
	{"::", DCOLON},
	{"->", ARROW},
	{"#>", HASH_ARROW},
	{"@>", CONTAINS},
	{"<@", CONTAINED_BY},
	{"&&", OVERLAP},
	{"<<", LSHIFT},
	{">>", RSHIFT},
	{"<=", LE},
	{">=", GE},
	{"<>", NE},
	{"!=", NE},
	{"||", DPIPE},
	{"|/", SQRT},
	{"~*", TILDE_STAR},
	{"!~", NOT_TILDE},
	{"!!", DBANG},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{"%", PERCENT},
	{"^", CARET},
	{"=", EQ},
	{"<", LT},
	{">", GT},
	{"&", AMPERSAND},
	{"|", PIPE},
	{"#", HASH},
	{"~", TILDE},
	{"!", BANG},
	{".", DOT},
	{",", COMMA},
	{";", SEMICOLON},
	{":", COLON},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACKET},
	{"]", RBRACKET},
	{"{", LBRACE},
	{"}", RBRACE},
}

// IsOperator returns true if the token type is a symbolic operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= CBRT
}

// IsPunctuation returns true if the token type is punctuation.
func IsPunctuation(t TokenType) bool {
	return t >= DOT && t <= RBRACE
}

// IsIdentifier returns true for the three identifier token types.
func IsIdentifier(t TokenType) bool {
	return t == IDENT || t == PASCAL_IDENT || t == QUOTED_IDENT
}

// IsLiteral returns true for number and string-like literal tokens.
func IsLiteral(t TokenType) bool {
	return t >= NUMBER && t <= BIT_STRING
}

// Token represents a lexical token with position information.
// Literal holds the decoded text for STRING, DQ_STRING and QUOTED_IDENT,
// the bare name for VARIABLE, and the source spelling for everything else.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position // first byte of the token
	End     Position // byte immediately after the token
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch {
	case t.Type == EOF:
		return "end of input"
	case IsKeyword(t.Type):
		return fmt.Sprintf("keyword %s", t.Type)
	case t.Type == STRING:
		return fmt.Sprintf("string '%s'", t.Literal)
	case IsOperator(t.Type) || IsPunctuation(t.Type):
		return fmt.Sprintf("%q", t.Literal)
	default:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	}
}
