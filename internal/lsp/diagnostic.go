package lsp

import (
	"errors"

	"github.com/avenger-vis/avenger/pkg/parser"
)

const diagnosticSource = "avenger"

// publishDiagnostics sends the parse diagnostics of doc to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	diagnostics := diagnosticsFor(doc)
	s.logger.Debug("publishing diagnostics", "uri", doc.URI, "count", len(diagnostics))
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	})
}

// diagnosticsFor converts the document's parse error, if any, into a
// diagnostic covering the offending character.
func diagnosticsFor(doc *Document) []Diagnostic {
	diagnostics := []Diagnostic{}
	if doc == nil || doc.Err == nil {
		return diagnostics
	}

	d := Diagnostic{
		Severity: DiagnosticSeverityError,
		Source:   diagnosticSource,
		Message:  doc.Err.Error(),
	}

	var se *parser.SyntaxError
	var le *parser.LexError
	switch {
	case errors.As(doc.Err, &se):
		d.Code = "syntax"
		d.Message = se.Detail()
	case errors.As(doc.Err, &le):
		d.Code = "lex"
		d.Message = le.Message
	}

	if pos, ok := parser.ErrorPosition(doc.Err); ok {
		start := toPosition(pos)
		end := start
		if line := doc.GetLine(int(start.Line)); int(start.Character) < len([]rune(line)) {
			end.Character++
		}
		d.Range = Range{Start: start, End: end}
	}
	return append(diagnostics, d)
}
