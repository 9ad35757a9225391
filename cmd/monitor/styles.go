package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// TitleStyle is used for section headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle is used for key hints at the bottom of each view.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatSignedPercent renders a fractional return with an explicit sign and
// a direction marker.
func FormatSignedPercent(v float64) string {
	s := fmt.Sprintf("%+.2f%%", v*100)
	if v > 0 {
		return s + " ▲"
	}
	if v < 0 {
		return s + " ▼"
	}
	return s
}
