package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Kind    lipgloss.Style
	Label   lipgloss.Style
	Caret   lipgloss.Style
	Path    lipgloss.Style
}

// NewStyles builds the style set on r, so styles follow r's color profile.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Kind:    r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Label:   r.NewStyle().Foreground(lipgloss.Color("14")),
		Caret:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Path:    r.NewStyle().Bold(true),
	}
}
