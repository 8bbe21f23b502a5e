package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestVisualLen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"plain", "Mon 09:00", 9},
		{"bold", "\x1b[1mSpring\x1b[0m", 6},
		{"stacked escapes", "\x1b[1m\x1b[32mnight owl\x1b[0m", 9},
		{"box drawing", "───", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, visualLen(tc.input))
		})
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "Tue   ", pad("Tue", 6))
	assert.Equal(t, "Wednesday", pad("Wednesday", 9))
	assert.Equal(t, "Wednesday", pad("Wednesday", 3), "wide cells are not truncated")
}

func TestTable_Render(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Day", "Minutes")
	tbl.AddRow("Monday", "240")
	tbl.AddRow("Tuesday", "95")

	lines := plainLines(tbl.Render())
	require.Len(t, lines, 4, "header, rule and two rows")

	assert.Contains(t, lines[0], "Day")
	assert.Contains(t, lines[0], "Minutes")
	assert.Contains(t, lines[1], "─")
	assert.True(t, strings.HasPrefix(lines[2], "Monday "), "cells are padded to the widest value")
	assert.Contains(t, lines[3], "95")
	assert.Equal(t, tbl.Render(), tbl.String())
}

func TestTable_MissingCells(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Term", "Hours", "Style")
	tbl.AddRow("Summer 2025")

	lines := plainLines(tbl.Render())
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "Summer 2025"))
}

func TestTable_Separator(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Day", "Minutes")
	tbl.AddRow("Saturday", "30")
	tbl.AddSeparator()
	tbl.AddRow("Total", "30")

	lines := plainLines(tbl.Render())
	require.Len(t, lines, 5)
	assert.Equal(t, "········  ·······", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "Total"))
}

func TestTable_NoHeaders(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	assert.NotContains(t, StyleHeader.Render("Recap"), "\x1b[")

	// Turning colour back on must not panic.
	SetNoColor(false)
}
