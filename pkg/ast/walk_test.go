package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avenger-vis/avenger/pkg/token"
)

func span(start, end int) NodeInfo {
	return NodeInfo{Span: token.Span{
		Start: token.Position{Line: 1, Column: start + 1, Offset: start},
		End:   token.Position{Line: 1, Column: end + 1, Offset: end},
	}}
}

// val x: a + 1;
func sampleFile() *File {
	left := &FieldReference{NodeInfo: span(7, 8), Name: "a"}
	right := &Literal{NodeInfo: span(11, 12), Kind: LiteralNumber, Value: "1"}
	bin := &BinaryExpression{NodeInfo: span(7, 12), Left: left, Op: "+", Right: right}
	prop := &ValProp{NodeInfo: span(0, 13), Name: "x", Value: bin}
	return &File{NodeInfo: span(0, 13), Statements: []Statement{prop}}
}

func TestWalkOrder(t *testing.T) {
	var kinds []string
	Walk(sampleFile(), func(n Node) bool {
		switch n.(type) {
		case *File:
			kinds = append(kinds, "file")
		case *ValProp:
			kinds = append(kinds, "val")
		case *BinaryExpression:
			kinds = append(kinds, "binary")
		case *FieldReference:
			kinds = append(kinds, "field")
		case *Literal:
			kinds = append(kinds, "literal")
		}
		return true
	})
	assert.Equal(t, []string{"file", "val", "binary", "field", "literal"}, kinds)
}

func TestWalkSkipChildren(t *testing.T) {
	visited := 0
	Walk(sampleFile(), func(n Node) bool {
		visited++
		_, isProp := n.(*ValProp)
		return !isProp
	})
	assert.Equal(t, 2, visited)
}

func TestWalkNilChildren(t *testing.T) {
	// optional children left nil must not be visited
	sel := &SelectStatement{
		Projection: []*SelectItem{{Expr: &Star{}}},
	}
	q := &Query{Body: sel}
	assert.Equal(t, 4, Count(q))
	assert.Equal(t, 0, Count(nil))
	var empty *Query
	assert.Equal(t, 0, Count(empty))
}

func TestSpans(t *testing.T) {
	f := sampleFile()
	spans := Spans(f)
	require.Len(t, spans, 5)

	prop := f.Statements[0].(*ValProp)
	bin := prop.Value.(*BinaryExpression)
	assert.Equal(t, 7, spans[bin].Start.Offset)
	assert.Equal(t, 12, spans[bin].End.Offset)
	assert.Equal(t, 13, spans[prop].Len())
}

// ROWS BETWEEN 2 PRECEDING AND CURRENT ROW
func TestWalkFrameBounds(t *testing.T) {
	offset := &Literal{NodeInfo: span(13, 14), Kind: LiteralNumber, Value: "2"}
	frame := &Frame{
		NodeInfo: span(0, 40),
		Unit:     FrameRows,
		Start:    &FrameBound{NodeInfo: span(13, 24), Kind: BoundPreceding, Offset: offset},
		Finish:   &FrameBound{NodeInfo: span(29, 40), Kind: BoundCurrentRow},
	}
	spec := &WindowSpec{NodeInfo: span(0, 40), Frame: frame}

	var visited []Node
	Walk(spec, func(n Node) bool {
		visited = append(visited, n)
		return true
	})
	require.Len(t, visited, 5)
	assert.Same(t, frame, visited[1])
	assert.Same(t, frame.Start, visited[2])
	assert.Same(t, offset, visited[3])
	assert.Same(t, frame.Finish, visited[4])

	var node Node = frame
	assert.Equal(t, 40, node.End().Offset)
}
