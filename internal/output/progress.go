package output

import (
	"fmt"
	"strings"
)

// Bar renders value as a horizontal bar scaled against max.
// Example: "██████░░░░"
func Bar(value, max float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if max > 0 {
		filled = int(value / max * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return StyleAccent.Render(strings.Repeat("█", filled)) +
		StyleMuted.Render(strings.Repeat("░", width-filled))
}

// ShareBar renders a 0-1 fraction as a bar followed by its percentage,
// coloured by how high the share is.
// Example: "████████░░ 80%"
func ShareBar(share float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(share * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case share >= 0.45:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case share >= 0.35:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.0f%%", share*100)))
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
// The improved parameter indicates whether higher values are better.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter)

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.1f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", ruleWidth))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue renders one aligned "label  value" line.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), StyleValue.Render(value))
}

// ruleWidth is the width of section rules; SetWidth adjusts it.
var ruleWidth = 66

// SetWidth sets the terminal width used for section rules.
func SetWidth(w int) {
	if w > 10 {
		ruleWidth = w - 2
	}
}
