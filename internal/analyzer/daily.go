package analyzer

import (
	"sort"
	"time"
)

// Contribution is the share of one session attributed to a single bucket
// (a calendar day or an hour of the day).
type Contribution struct {
	Key      string
	Start    time.Time
	Duration time.Duration
}

// DailyMinutes maps a calendar-day key (YYYY-MM-DD) to the time spent in the
// library on that day.
type DailyMinutes map[string]time.Duration

// Total returns the sum over every day.
func (d DailyMinutes) Total() time.Duration {
	var total time.Duration
	for _, v := range d {
		total += v
	}
	return total
}

// VisitedDays returns the days with nonzero time, sorted ascending.
func (d DailyMinutes) VisitedDays() []time.Time {
	keys := make([]string, 0, len(d))
	for k, v := range d {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	days := make([]time.Time, len(keys))
	for i, k := range keys {
		days[i] = parseDateKey(k)
	}
	return days
}

// SplitByDay attributes a session's time to each calendar day it touches, in
// order. A session spanning N midnights yields N+1 contributions; the last one
// may be zero when the exit falls exactly on midnight.
func SplitByDay(s Session) []Contribution {
	return splitAt(s.Entry, s.Exit, nextMidnight, dateKey)
}

// DailyTotals accumulates SplitByDay over every session.
func DailyTotals(sessions []Session) DailyMinutes {
	daily := make(DailyMinutes)
	for _, s := range sessions {
		for _, c := range SplitByDay(s) {
			daily[c.Key] += c.Duration
		}
	}
	return daily
}

// splitAt walks from start to end, cutting at every boundary produced by next
// and labelling each piece with key. Used at day and hour granularity.
func splitAt(start, end time.Time, next func(time.Time) time.Time, key func(time.Time) string) []Contribution {
	var parts []Contribution
	cur := start
	for key(cur) < key(end) {
		boundary := next(cur)
		parts = append(parts, Contribution{Key: key(cur), Start: cur, Duration: boundary.Sub(cur)})
		cur = boundary
	}
	parts = append(parts, Contribution{Key: key(cur), Start: cur, Duration: end.Sub(cur)})
	return parts
}
