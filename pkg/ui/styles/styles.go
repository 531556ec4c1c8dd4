// Package styles centralizes the lipgloss styles used by the CLI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var registry = map[string]lipgloss.Style{
	"Error":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	"Warning": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	"Success": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	"Header":  lipgloss.NewStyle().Bold(true).Underline(true),
	"Muted":   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

// GetStyle returns the named style, or a zero style for unknown names.
func GetStyle(name string) lipgloss.Style {
	if style, ok := registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
