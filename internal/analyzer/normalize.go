package analyzer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// lastMinuteOfDay is the clamp ceiling for parsed times (23:59).
const lastMinuteOfDay = 24*60 - 1

var (
	dateSeparators = regexp.MustCompile(`[/\-.]`)
	timePattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
)

// NormalizeReport counts what NormalizeSwipes kept and dropped. The engine
// never acts on the counts; they exist for the calling layer's diagnostics.
type NormalizeReport struct {
	Kept         int `json:"kept"`
	BadDate      int `json:"bad_date"`
	BadTime      int `json:"bad_time"`
	BadDirection int `json:"bad_direction"`
}

// Dropped returns the total number of rejected records.
func (r NormalizeReport) Dropped() int {
	return r.BadDate + r.BadTime + r.BadDirection
}

// NormalizeSwipes validates raw records and returns them as timestamped
// swipes sorted by instant. Records that fail to parse are dropped silently;
// equal instants keep their input order.
func NormalizeSwipes(records []RawSwipe) []Swipe {
	swipes, _ := NormalizeSwipesReport(records)
	return swipes
}

// NormalizeSwipesReport is NormalizeSwipes plus a tally of rejected records.
func NormalizeSwipesReport(records []RawSwipe) ([]Swipe, NormalizeReport) {
	var report NormalizeReport
	out := make([]Swipe, 0, len(records))

	for _, r := range records {
		dir, ok := ParseDirection(r.Direction)
		if !ok {
			report.BadDirection++
			continue
		}
		day, ok := ParseDate(r.Date)
		if !ok {
			report.BadDate++
			continue
		}
		mins, ok := ParseClock(r.Time)
		if !ok {
			report.BadTime++
			continue
		}
		out = append(out, Swipe{
			At:        day.Add(time.Duration(mins) * time.Minute),
			Direction: dir,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	report.Kept = len(out)
	return out, report
}

// ParseDirection maps "in"/"out" (any case, surrounding space ignored).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN":
		return Entry, true
	case "OUT":
		return Exit, true
	default:
		return 0, false
	}
}

// ParseDate parses a day/month/year date separated by "/", "-" or ".". Days
// past the end of the month roll into the next month, as a calendar would.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	parts := dateSeparators.Split(s, -1)
	if len(parts) < 3 {
		return time.Time{}, false
	}
	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if year < 1900 || year > 9999 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return Date(year, time.Month(month), day), true
}

// ParseClock parses H:MM, HH:MM or HH:MM:SS into minutes past midnight,
// clamped to 00:00..23:59. Seconds are accepted but not used.
func ParseClock(s string) (int, bool) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	minutes := hh*60 + mm
	if minutes > lastMinuteOfDay {
		minutes = lastMinuteOfDay
	}
	if minutes < 0 {
		minutes = 0
	}
	return minutes, true
}
