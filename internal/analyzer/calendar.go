package analyzer

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key format used throughout the snapshot.
const DateLayout = "2006-01-02"

// monthLayout is the year-month bucket key format.
const monthLayout = "2006-01"

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return Date(t.Year(), t.Month(), t.Day())
}

func dateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func monthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// parseDateKey converts a key produced by dateKey back into a day. Keys are
// only ever produced internally, so a parse failure is a programming error.
func parseDateKey(key string) time.Time {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		panic(fmt.Sprintf("analyzer: malformed date key %q", key))
	}
	return t
}

func daysBetween(a, b time.Time) int {
	return int(truncateDay(b).Sub(truncateDay(a)) / (24 * time.Hour))
}

func addDays(t time.Time, n int) time.Time {
	return truncateDay(t).AddDate(0, 0, n)
}

func nextMidnight(t time.Time) time.Time {
	return addDays(t, 1)
}

func nextHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour).Add(time.Hour)
}

func minuteOfDay(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

// formatHHMM renders a minute-of-day as zero-padded HH:MM.
func formatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func crossesMidnight(s Session) bool {
	return dateKey(s.Exit) > dateKey(s.Entry)
}
