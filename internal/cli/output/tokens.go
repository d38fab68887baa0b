package output

import (
	"strconv"

	"github.com/avenger-vis/avenger/pkg/token"
	"github.com/jedib0t/go-pretty/v6/table"
)

type tokenDoc struct {
	Type    string  `json:"type" yaml:"type"`
	Literal string  `json:"literal" yaml:"literal"`
	Span    spanDoc `json:"span" yaml:"span"`
}

type commentDoc struct {
	Kind string  `json:"kind" yaml:"kind"`
	Text string  `json:"text" yaml:"text"`
	Span spanDoc `json:"span" yaml:"span"`
}

type tokensDoc struct {
	Tokens   []tokenDoc   `json:"tokens" yaml:"tokens"`
	Comments []commentDoc `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// RenderTokens writes a token stream, and any collected comments, in the
// renderer's mode.
func (r *Renderer) RenderTokens(tokens []token.Token, comments []*token.Comment) error {
	if r.IsStructured() {
		doc := tokensDoc{Tokens: make([]tokenDoc, len(tokens))}
		for i, tok := range tokens {
			doc.Tokens[i] = tokenDoc{Type: tok.Type.String(), Literal: tok.Literal, Span: newSpanDoc(tok.Span())}
		}
		for _, c := range comments {
			doc.Comments = append(doc.Comments, commentDoc{Kind: c.Kind.String(), Text: c.Text, Span: newSpanDoc(c.Span)})
		}
		return r.Document(doc)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "Literal", "Span"})
	for i, tok := range tokens {
		t.AppendRow(table.Row{i, r.styles.Kind.Render(tok.Type.String()), strconv.Quote(tok.Literal), tok.Span().String()})
	}
	t.Render()

	if len(comments) > 0 {
		ct := table.NewWriter()
		ct.SetOutputMirror(r.out)
		ct.SetStyle(table.StyleLight)
		ct.AppendHeader(table.Row{"Comment", "Kind", "Span"})
		for _, c := range comments {
			ct.AppendRow(table.Row{c.Text, c.Kind.String(), c.Span.String()})
		}
		ct.Render()
	}
	return nil
}
