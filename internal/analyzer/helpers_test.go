package analyzer

import (
	"testing"
	"time"
)

// at parses "2006-01-02 15:04" as UTC.
func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return ts
}

// day parses "2006-01-02" as UTC midnight.
func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return ts
}

func session(t *testing.T, from, to string) Session {
	t.Helper()
	entry, exit := at(t, from), at(t, to)
	return Session{Entry: entry, Exit: exit, Duration: exit.Sub(entry)}
}

func swipe(t *testing.T, s string, dir Direction) Swipe {
	t.Helper()
	return Swipe{At: at(t, s), Direction: dir}
}

// visit builds the raw swipe pair for one visit; dates are DD/MM/YYYY.
func visit(date, in, out string) []RawSwipe {
	return []RawSwipe{
		{Date: date, Time: in, Direction: "In"},
		{Date: date, Time: out, Direction: "Out"},
	}
}
