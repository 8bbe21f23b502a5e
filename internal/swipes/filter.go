package swipes

import (
	"time"

	"github.com/libster-app/libster/internal/analyzer"
)

// FilterByDate keeps records whose date falls within [from, to], inclusive.
// A zero bound is open. Records with an unparseable date are dropped since
// they cannot be placed in any range.
func FilterByDate(records []analyzer.RawSwipe, from, to time.Time) []analyzer.RawSwipe {
	if from.IsZero() && to.IsZero() {
		return records
	}
	out := make([]analyzer.RawSwipe, 0, len(records))
	for _, r := range records {
		d, ok := analyzer.ParseDate(r.Date)
		if !ok {
			continue
		}
		if !from.IsZero() && d.Before(from) {
			continue
		}
		if !to.IsZero() && d.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}
