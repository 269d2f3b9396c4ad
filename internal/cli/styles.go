// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// styles.go - lipgloss styles for CLI output.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	costStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120")) // Pale green

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dim gray
)

// render applies a style only when colors are enabled.
func render(style lipgloss.Style, s string) string {
	if !ColorsEnabled() {
		return s
	}
	return style.Render(s)
}
