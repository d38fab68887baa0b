package output

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path       string        `json:"path" yaml:"path"`
	Bytes      int64         `json:"bytes" yaml:"bytes"`
	Statements int           `json:"statements" yaml:"statements"`
	Nodes      int           `json:"nodes" yaml:"nodes"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration"`
	Diagnostic *Diagnostic   `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// OK reports whether the file parsed.
func (f FileResult) OK() bool { return f.Diagnostic == nil }

// CheckSummary aggregates the results of one check run.
type CheckSummary struct {
	Files   []FileResult  `json:"files" yaml:"files"`
	Bytes   int64         `json:"bytes" yaml:"bytes"`
	Failed  int           `json:"failed" yaml:"failed"`
	Elapsed time.Duration `json:"elapsed_ns" yaml:"elapsed"`
}

// NewCheckSummary totals results.
func NewCheckSummary(results []FileResult, elapsed time.Duration) *CheckSummary {
	s := &CheckSummary{Files: results, Elapsed: elapsed}
	for _, f := range results {
		s.Bytes += f.Bytes
		if !f.OK() {
			s.Failed++
		}
	}
	return s
}

// Headline is the one-line summary printed under the table.
func (s *CheckSummary) Headline() string {
	noun := "files"
	if len(s.Files) == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s, %s, %d failed in %s",
		len(s.Files), noun, humanize.Bytes(uint64(max(s.Bytes, 0))), s.Failed, s.Elapsed.Round(time.Millisecond))
}

// RenderCheckSummary writes diagnostics for failed files followed by a
// per-file table and a headline.
func (r *Renderer) RenderCheckSummary(s *CheckSummary) error {
	if r.IsStructured() {
		return r.Document(s)
	}
	for _, f := range s.Files {
		if f.Diagnostic != nil {
			if err := r.RenderDiagnostic(f.Diagnostic); err != nil {
				return err
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Size", "Statements", "Nodes", "Status"})
	for _, f := range s.Files {
		status := r.styles.Success.Render("ok")
		if !f.OK() {
			status = r.styles.Error.Render("failed")
		}
		t.AppendRow(table.Row{f.Path, humanize.Bytes(uint64(max(f.Bytes, 0))), f.Statements, f.Nodes, status})
	}
	t.Render()

	if s.Failed > 0 {
		r.Warn("%s", s.Headline())
	} else {
		r.Success("%s", s.Headline())
	}
	return nil
}
