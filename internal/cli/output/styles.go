package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Code    lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer. A renderer on a
// non-terminal writer drops colors.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Underline(true),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "241"}),
		Success: lr.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("39")),
		Code:    lr.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
