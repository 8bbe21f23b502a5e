package terms

import (
	"fmt"
	"strings"
	"time"

	"github.com/libster-app/libster/internal/analyzer"
)

// Range is a labelled inclusive date range offered as a filter preset.
type Range struct {
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// FullYearLabel formats the label of the whole-year preset.
func FullYearLabel(year int) string {
	return fmt.Sprintf("%d (Full)", year)
}

// Ranges returns the whole-year preset followed by one preset per term that
// touches year.
func Ranges(year int, terms []analyzer.Term) []Range {
	from := analyzer.Date(year, time.January, 1)
	to := analyzer.Date(year, time.December, 31)

	out := []Range{{Label: FullYearLabel(year), From: from, To: to}}
	for _, t := range terms {
		if t.End.Before(from) || t.Start.After(to) {
			continue
		}
		out = append(out, Range{Label: t.Name, From: t.Start, To: t.End})
	}
	return out
}

// FindRange looks a preset up by label, ignoring case.
func FindRange(ranges []Range, label string) (Range, bool) {
	for _, r := range ranges {
		if strings.EqualFold(r.Label, strings.TrimSpace(label)) {
			return r, true
		}
	}
	return Range{}, false
}
