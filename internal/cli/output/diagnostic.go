package output

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Diagnostic kinds.
const (
	KindSyntax = "syntax"
	KindLex    = "lex"
	KindIO     = "io"
)

// Diagnostic describes one failed parse, located in its source file.
type Diagnostic struct {
	File     string   `json:"file" yaml:"file"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int      `json:"column,omitempty" yaml:"column,omitempty"`
	Offset   int      `json:"offset" yaml:"offset"`
	Kind     string   `json:"kind" yaml:"kind"`
	Message  string   `json:"message" yaml:"message"`
	Expected []string `json:"expected,omitempty" yaml:"expected,omitempty"`

	source string
}

// NewDiagnostic classifies err. src is the text that was parsed and is used
// for the source excerpt.
func NewDiagnostic(file, src string, err error) *Diagnostic {
	d := &Diagnostic{File: file, Kind: KindIO, Message: err.Error(), source: src}

	var se *parser.SyntaxError
	var le *parser.LexError
	switch {
	case errors.As(err, &se):
		d.Kind = KindSyntax
		d.Message = se.Detail()
		d.Expected = se.Expected
	case errors.As(err, &le):
		d.Kind = KindLex
		d.Message = le.Message
	}
	if pos, ok := parser.ErrorPosition(err); ok {
		d.Line, d.Column, d.Offset = pos.Line, pos.Column, pos.Offset
	}
	return d
}

// Position returns the diagnostic's source position.
func (d *Diagnostic) Position() token.Position {
	return token.Position{Line: d.Line, Column: d.Column, Offset: d.Offset}
}

// Location formats file:line:column, or just the file when there is no
// position.
func (d *Diagnostic) Location() string {
	if d.Line == 0 {
		return d.File
	}
	return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
}

// Excerpt returns the offending source line and a caret under the error
// column. It is empty when the position falls outside the source.
func (d *Diagnostic) Excerpt() (line, caret string) {
	if d.Line == 0 {
		return "", ""
	}
	lines := strings.Split(d.source, "\n")
	if d.Line > len(lines) {
		return "", ""
	}
	line = strings.TrimRight(lines[d.Line-1], "\r")

	var pad strings.Builder
	col := 1
	for _, r := range line {
		if col >= d.Column {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteByte(' ')
		}
		col++
	}
	for ; col < d.Column; col++ {
		pad.WriteByte(' ')
	}
	return line, pad.String() + "^"
}

// RenderDiagnostic writes d to the error stream in text mode and to the
// result stream as a document otherwise.
func (r *Renderer) RenderDiagnostic(d *Diagnostic) error {
	if r.IsStructured() {
		return r.Document(d)
	}
	s := r.styles
	_, _ = fmt.Fprintf(r.errOut, "%s: %s %s\n",
		s.Path.Render(d.Location()), s.Error.Render(d.Kind+" error:"), d.Message)

	line, caret := d.Excerpt()
	if line == "" && caret == "" {
		return nil
	}
	gutter := strconv.Itoa(d.Line)
	blank := strings.Repeat(" ", len(gutter))
	_, _ = fmt.Fprintf(r.errOut, " %s %s %s\n", s.Muted.Render(gutter), s.Muted.Render("|"), line)
	pad := strings.TrimSuffix(caret, "^")
	_, _ = fmt.Fprintf(r.errOut, " %s %s %s%s\n", blank, s.Muted.Render("|"), pad, s.Caret.Render("^"))
	return nil
}
