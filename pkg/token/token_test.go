package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordTableConsistent(t *testing.T) {
	// every keyword constant has a name
	for tt := keywordStart + 1; tt < keywordEnd; tt++ {
		name, ok := keywordNames[tt]
		require.True(t, ok, "keyword %d has no name", tt)
		assert.Equal(t, tt, LookupIdent(name), "round trip of %s", name)
	}
	assert.Len(t, keywordNames, int(keywordEnd-keywordStart-1))

	for tt := range reserved {
		assert.True(t, IsKeyword(tt), "%s reserved but not a keyword", tt)
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		in   string
		want TokenType
	}{
		{"select", SELECT},
		{"SeLeCt", SELECT},
		{"val", VAL},
		{"dataset", DATASET},
		{"integer", INT},
		{"int8", BIGINT},
		{"bool", BOOLEAN},
		{"float8", DOUBLE},
		{"serial4", SERIAL},
		{"character", CHAR},
		{"width", IDENT},
		{"Rect", IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.in))
		})
	}
}

func TestReserved(t *testing.T) {
	assert.True(t, IsReserved(SELECT))
	assert.True(t, IsReserved(FROM))
	assert.False(t, IsReserved(TEXT))
	assert.False(t, IsReserved(FIRST))
	assert.False(t, IsReserved(VAL))

	assert.True(t, IsIdentLike(IDENT))
	assert.True(t, IsIdentLike(PASCAL_IDENT))
	assert.True(t, IsIdentLike(TEXT))
	assert.False(t, IsIdentLike(WHERE))
	assert.False(t, IsIdentLike(COMMA))
}

func TestPhrases(t *testing.T) {
	ps := PhrasesFor(CHAR)
	require.NotEmpty(t, ps)
	assert.True(t, ps[0].Matches([]string{"Character", "VARYING"}))
	assert.False(t, ps[0].Matches([]string{"character"}))

	var tz TokenType
	for _, p := range PhrasesFor(TIMESTAMP) {
		if p.Matches([]string{"timestamp", "with", "time", "zone"}) {
			tz = p.Type
		}
	}
	assert.Equal(t, TIMESTAMPTZ, tz)
	assert.Empty(t, PhrasesFor(SELECT))
}

func TestNameCase(t *testing.T) {
	assert.True(t, IsPascal("Rect"))
	assert.False(t, IsPascal("rect"))
	assert.False(t, IsPascal("_Rect"))
	assert.True(t, IsLowerName("width"))
	assert.True(t, IsLowerName("_tmp"))
	assert.False(t, IsLowerName("Width"))
	assert.False(t, IsLowerName(""))
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "->>", DARROW.String())
	assert.Equal(t, "PASCAL_IDENT", PASCAL_IDENT.String())
	assert.Equal(t, "TOKEN(99999)", TokenType(99999).String())
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: Position{1, 1, 0}, End: Position{1, 4, 3}}
	b := Span{Start: Position{1, 6, 5}, End: Position{1, 9, 8}}

	c := a.Cover(b)
	assert.Equal(t, 0, c.Start.Offset)
	assert.Equal(t, 8, c.End.Offset)
	assert.Equal(t, 8, c.Len())
	assert.True(t, c.Contains(4))
	assert.False(t, c.Contains(8))
	assert.Equal(t, a, a.Cover(Span{}))
}
