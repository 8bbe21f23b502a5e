// Package output provides styled terminal rendering helpers for libster.
package output

import "github.com/charmbracelet/lipgloss"

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for positive indicators and improvements.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for negative indicators and regressions.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for caution indicators.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")

	// ColorAccent is used for bars and highlighted figures.
	ColorAccent = lipgloss.Color("#ffb74d")
)

// Styles provides reusable lipgloss styles. They are reassigned by
// SetNoColor, so always read them at render time.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleAccent  lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

func init() {
	applyStyles(false)
}

func applyStyles(plain bool) {
	base := lipgloss.NewStyle()
	fg := func(c lipgloss.Color) lipgloss.Style {
		if plain {
			return base
		}
		return base.Foreground(c)
	}

	StyleHeader = fg(ColorPrimary)
	StyleSuccess = fg(ColorSuccess)
	StyleError = fg(ColorError)
	StyleWarning = fg(ColorWarning)
	StyleMuted = fg(ColorMuted)
	StyleAccent = fg(ColorAccent)
	StyleBold = base
	StyleLabel = base.Width(labelWidth)
	StyleValue = base.Width(valueWidth)
	if !plain {
		StyleHeader = StyleHeader.Bold(true)
		StyleBold = StyleBold.Bold(true)
		StyleValue = StyleValue.Bold(true)
	}
}

const (
	labelWidth = 26
	valueWidth = 14
)

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or re-enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}
