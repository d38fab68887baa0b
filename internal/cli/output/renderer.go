// Package output renders parse results for the terminal and for machines.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeYAML Mode = "yaml"
	ModeJSON Mode = "json"
)

// Color settings accepted by NewRenderer.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Renderer writes results to an output stream and diagnostics to an error
// stream in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode, color string) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode, color)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode, color string) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	lr := lipgloss.NewRenderer(out)
	lr.SetColorProfile(colorProfile(out, isTTY, color))
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(lr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

func colorProfile(w io.Writer, isTTY bool, color string) termenv.Profile {
	switch color {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.ANSI256
	}
	if !isTTY {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// EffectiveMode resolves ModeAuto: text on a terminal, YAML when piped.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeYAML
}

// IsStructured reports whether results are rendered as YAML or JSON.
func (r *Renderer) IsStructured() bool {
	m := r.EffectiveMode()
	return m == ModeYAML || m == ModeJSON
}

// Out returns the result stream.
func (r *Renderer) Out() io.Writer { return r.out }

// ErrOut returns the diagnostic stream.
func (r *Renderer) ErrOut() io.Writer { return r.errOut }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a plain line to the result stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Success writes a styled status line to the error stream.
func (r *Renderer) Success(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warn writes a styled warning line to the error stream.
func (r *Renderer) Warn(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Muted writes a de-emphasized line to the error stream.
func (r *Renderer) Muted(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

// Document writes v to the result stream as YAML or JSON, whichever the
// mode selects. Text mode falls back to YAML.
func (r *Renderer) Document(v any) error {
	if r.EffectiveMode() == ModeJSON {
		return r.writeJSON(v)
	}
	return r.writeYAML(v)
}

func (r *Renderer) writeJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(b))
	return err
}

func (r *Renderer) writeYAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
