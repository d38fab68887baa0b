package parser_test

import (
	"errors"
	"testing"

	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/avenger-vis/avenger/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokSpec struct {
	Type    token.TokenType
	Literal string
}

// lex tokenizes input and drops the trailing EOF.
func lex(t *testing.T, input string) []tokSpec {
	t.Helper()
	toks, err := parser.Tokenize(input)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	require.Equal(t, token.EOF, toks[len(toks)-1].Type)

	out := make([]tokSpec, 0, len(toks)-1)
	for _, tok := range toks[:len(toks)-1] {
		out = append(out, tokSpec{tok.Type, tok.Literal})
	}
	return out
}

func TestLexerKeywordsCaseInsensitive(t *testing.T) {
	toks := lex(t, "SELECT select SeLeCt")
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.SELECT, tok.Type)
	}

	// quoted spellings are never keywords
	assert.Equal(t, []tokSpec{{token.DQ_STRING, "Select"}}, lex(t, `"Select"`))
	assert.Equal(t, []tokSpec{{token.QUOTED_IDENT, "Select"}}, lex(t, "`Select`"))

	// keywords match whole words only
	assert.Equal(t, []tokSpec{{token.IDENT, "selected"}}, lex(t, "selected"))
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  []tokSpec
	}{
		{"width", []tokSpec{{token.IDENT, "width"}}},
		{"_tmp1", []tokSpec{{token.IDENT, "_tmp1"}}},
		{"Rect", []tokSpec{{token.PASCAL_IDENT, "Rect"}}},
		{"Text", []tokSpec{{token.TEXT, "Text"}}},
		{"@points", []tokSpec{{token.VARIABLE, "points"}}},
		{"?", []tokSpec{{token.PARAM, "?"}}},
		{"$12", []tokSpec{{token.PARAM, "$12"}}},
		{"`my col`", []tokSpec{{token.QUOTED_IDENT, "my col"}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, lex(t, tt.input))
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokSpec
	}{
		{"simple", "'hello'", []tokSpec{{token.STRING, "hello"}}},
		{"doubled quote", "'it''s'", []tokSpec{{token.STRING, "it's"}}},
		{"empty", "''", []tokSpec{{token.STRING, ""}}},
		{"adjacent fold", "'foo' 'bar'", []tokSpec{{token.STRING, "foobar"}}},
		{"fold across newline", "'foo'\n  'bar'", []tokSpec{{token.STRING, "foobar"}}},
		{"comment breaks fold", "'a' /* c */ 'b'", []tokSpec{{token.STRING, "a"}, {token.STRING, "b"}}},
		{"double quoted", `"no \n escape"`, []tokSpec{{token.DQ_STRING, `no \n escape`}}},
		{"escape string", `E'a\nb'`, []tokSpec{{token.STRING, "a\nb"}}},
		{"hex escape", `e'\x41'`, []tokSpec{{token.STRING, "A"}}},
		{"unicode escape", `E'\u00e9'`, []tokSpec{{token.STRING, "é"}}},
		{"octal escape", `E'\101'`, []tokSpec{{token.STRING, "A"}}},
		{"bit string", "B'0101'", []tokSpec{{token.BIT_STRING, "B'0101'"}}},
		{"hex string", "x'1F'", []tokSpec{{token.BIT_STRING, "x'1F'"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lex(t, tt.input))
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	for _, input := range []string{
		"12", "1_000", "3.14", ".5", "1e10", "2.5E-3", "0x1F", "0o17", "0b1010", "0xFF_FF",
	} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, []tokSpec{{token.NUMBER, input}}, lex(t, input))
		})
	}
}

func TestLexerSignAbsorption(t *testing.T) {
	tests := []struct {
		input string
		want  []tokSpec
	}{
		{"-1", []tokSpec{{token.NUMBER, "-1"}}},
		{"+2.5", []tokSpec{{token.NUMBER, "+2.5"}}},
		{"a-1", []tokSpec{{token.IDENT, "a"}, {token.MINUS, "-"}, {token.NUMBER, "1"}}},
		{"(-1)", []tokSpec{{token.LPAREN, "("}, {token.NUMBER, "-1"}, {token.RPAREN, ")"}}},
		{"x - -1", []tokSpec{{token.IDENT, "x"}, {token.MINUS, "-"}, {token.NUMBER, "-1"}}},
		{"f(x) -1", []tokSpec{
			{token.IDENT, "f"}, {token.LPAREN, "("}, {token.IDENT, "x"}, {token.RPAREN, ")"},
			{token.MINUS, "-"}, {token.NUMBER, "1"},
		}},
		{"= -3", []tokSpec{{token.EQ, "="}, {token.NUMBER, "-3"}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, lex(t, tt.input))
		})
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []tokSpec
	}{
		{"a||b", []tokSpec{{token.IDENT, "a"}, {token.DPIPE, "||"}, {token.IDENT, "b"}}},
		{"j->>'k'", []tokSpec{{token.IDENT, "j"}, {token.DARROW, "->>"}, {token.STRING, "k"}}},
		{"j#>>p", []tokSpec{{token.IDENT, "j"}, {token.HASH_DARROW, "#>>"}, {token.IDENT, "p"}}},
		{"x::int", []tokSpec{{token.IDENT, "x"}, {token.DCOLON, "::"}, {token.INT, "int"}}},
		{"a <> b", []tokSpec{{token.IDENT, "a"}, {token.NE, "<>"}, {token.IDENT, "b"}}},
		{"a != b", []tokSpec{{token.IDENT, "a"}, {token.NE, "!="}, {token.IDENT, "b"}}},
		{"a <@ b", []tokSpec{{token.IDENT, "a"}, {token.CONTAINED_BY, "<@"}, {token.IDENT, "b"}}},
		{"a @> b", []tokSpec{{token.IDENT, "a"}, {token.CONTAINS, "@>"}, {token.IDENT, "b"}}},
		{"a !~* b", []tokSpec{{token.IDENT, "a"}, {token.NOT_TILDE_ST, "!~*"}, {token.IDENT, "b"}}},
		{"||/ x", []tokSpec{{token.CBRT, "||/"}, {token.IDENT, "x"}}},
		{"|/ x", []tokSpec{{token.SQRT, "|/"}, {token.IDENT, "x"}}},
		{") -> val", []tokSpec{{token.RPAREN, ")"}, {token.ARROW, "->"}, {token.VAL, "val"}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, lex(t, tt.input))
		})
	}
}

func TestLexerMultiWordKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  []tokSpec
	}{
		{"double precision", []tokSpec{{token.DOUBLE, "double precision"}}},
		{"character varying", []tokSpec{{token.VARCHAR, "character varying"}}},
		{"CHAR  VARYING", []tokSpec{{token.VARCHAR, "CHAR  VARYING"}}},
		{"timestamp with time zone", []tokSpec{{token.TIMESTAMPTZ, "timestamp with time zone"}}},
		{"timestamp without time zone", []tokSpec{{token.TIMESTAMP, "timestamp without time zone"}}},
		{"time with time zone", []tokSpec{{token.TIMETZ, "time with time zone"}}},
		// a partial phrase leaves the words alone
		{"time with x", []tokSpec{{token.TIME, "time"}, {token.WITH, "with"}, {token.IDENT, "x"}}},
		{"double x", []tokSpec{{token.DOUBLE, "double"}, {token.IDENT, "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, lex(t, tt.input))
		})
	}
}

func TestLexerComments(t *testing.T) {
	l := parser.NewLexer("a -- line\n/* block */ b // tail")
	var types []token.TokenType
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	assert.Equal(t, []token.TokenType{token.IDENT, token.IDENT, token.EOF}, types)
	require.Len(t, l.Comments, 3)
	assert.Equal(t, token.LineComment, l.Comments[0].Kind)
	assert.Equal(t, "-- line", l.Comments[0].Text)
	assert.Equal(t, token.BlockComment, l.Comments[1].Kind)
	assert.Equal(t, "/* block */", l.Comments[1].Text)
	assert.Equal(t, 2, l.Comments[1].Span.Start.Line)
	assert.Equal(t, "// tail", l.Comments[2].Text)
}

func TestLexerPositions(t *testing.T) {
	toks, err := parser.Tokenize("SELECT\n  a")
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, toks[0].End)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 4, Offset: 10}, toks[1].End)
}

func TestLexerColumnsCountRunes(t *testing.T) {
	toks, err := parser.Tokenize("'é' x")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, 5, toks[1].Pos.Column)
	assert.Equal(t, 5, toks[1].Pos.Offset)
}

func TestLexerRestartable(t *testing.T) {
	src := "val<Float> width: 440 * -2; -- done"
	first, err := parser.Tokenize(src)
	require.NoError(t, err)
	second, err := parser.Tokenize(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
		wantPos token.Position
	}{
		{"unterminated string", "'abc", "unterminated string literal", token.Position{Line: 1, Column: 1, Offset: 0}},
		{"unterminated on later line", "val x: 1;\n  'abc", "unterminated string literal", token.Position{Line: 2, Column: 3, Offset: 12}},
		{"unterminated double quoted", `"abc`, "unterminated string literal", token.Position{Line: 1, Column: 1, Offset: 0}},
		{"unterminated quoted ident", "`abc", "unterminated quoted identifier", token.Position{Line: 1, Column: 1, Offset: 0}},
		{"unterminated comment", "a /* never", "unterminated block comment", token.Position{Line: 1, Column: 3, Offset: 2}},
		{"empty hex", "0x", `invalid numeric literal "0x"`, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"double underscore", "1__0", `invalid numeric literal "1__0"`, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"trailing underscore", "10_", `invalid numeric literal "10_"`, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"missing exponent", "1e", `invalid numeric literal "1e"`, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"glued letters", "12abc", `invalid numeric literal "12abc"`, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"bad escape", `E'\q'`, `invalid escape sequence "\\q"`, token.Position{Line: 1, Column: 3, Offset: 2}},
		{"bad bit digit", "B'012'", `invalid digit '2' in bit string`, token.Position{Line: 1, Column: 5, Offset: 4}},
		{"unknown char", "a § b", `unexpected character '§'`, token.Position{Line: 1, Column: 3, Offset: 2}},
		{"bare dollar", "$x", `unexpected character '$'`, token.Position{Line: 1, Column: 1, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Tokenize(tt.input)
			require.Error(t, err)

			var le *parser.LexError
			require.True(t, errors.As(err, &le), "want *LexError, got %T", err)
			assert.Equal(t, tt.wantMsg, le.Message)
			assert.Equal(t, tt.wantPos, le.Pos)
			assert.ErrorIs(t, err, parser.ErrLex)
		})
	}
}
