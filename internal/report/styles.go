// Package report renders validation reports for humans and machines.
package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the terminal styles of the text renderer. Colors are dropped
// automatically when the writer is not a terminal.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles returns styles bound to w's color profile.
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		Title:   r.NewStyle().Bold(true),
		Label:   r.NewStyle().Foreground(lipgloss.Color("12")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
