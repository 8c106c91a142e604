package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the text styles used by commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	// Table styles table names; Column styles column references.
	Table  lipgloss.Style
	Column lipgloss.Style
	SQL    lipgloss.Style
}

func newStyles(w io.Writer, colored bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if colored {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("245")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("39")),
		Table:   lr.NewStyle().Foreground(lipgloss.Color("81")),
		Column:  lr.NewStyle().Foreground(lipgloss.Color("180")),
		SQL:     lr.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
