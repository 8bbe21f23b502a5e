package analyzer

import (
	"testing"
	"time"
)

func days(t *testing.T, keys ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, len(keys))
	for i, k := range keys {
		out[i] = day(t, k)
	}
	return out
}

func TestDetectStreaks_Empty(t *testing.T) {
	s := DetectStreaks(nil)
	if s.LongestVisit != 0 || s.LongestAway != 0 || s.SpanDays != 0 || len(s.Streaks) != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestDetectStreaks_SingleDay(t *testing.T) {
	s := DetectStreaks(days(t, "2025-03-10"))
	if s.LongestVisit != 1 {
		t.Errorf("LongestVisit = %d, want 1", s.LongestVisit)
	}
	if len(s.Streaks) != 0 {
		t.Errorf("a lone day should not be a recorded streak, got %v", s.Streaks)
	}
	if s.SpanDays != 1 || s.LongestAway != 0 {
		t.Errorf("SpanDays = %d, LongestAway = %d", s.SpanDays, s.LongestAway)
	}
}

func TestDetectStreaks_TwoConsecutiveDays(t *testing.T) {
	s := DetectStreaks(days(t, "2025-03-10", "2025-03-11"))
	if s.LongestVisit != 2 {
		t.Errorf("LongestVisit = %d, want 2", s.LongestVisit)
	}
	if len(s.Streaks) != 1 || s.Streaks[0] != (Streak{Days: 2, Start: "2025-03-10", End: "2025-03-11"}) {
		t.Errorf("unexpected streaks %v", s.Streaks)
	}
}

func TestDetectStreaks_VisitAndAway(t *testing.T) {
	s := DetectStreaks(days(t,
		"2025-02-27", "2025-02-28", "2025-03-01", // crosses a month end
		"2025-03-05",
		"2025-03-07", "2025-03-08",
		"2025-03-20",
	))

	if s.LongestVisit != 3 {
		t.Errorf("LongestVisit = %d, want 3", s.LongestVisit)
	}
	if s.LongestAway != 11 { // 03-09 .. 03-19
		t.Errorf("LongestAway = %d, want 11", s.LongestAway)
	}
	if s.SpanDays != 22 {
		t.Errorf("SpanDays = %d, want 22", s.SpanDays)
	}
	if len(s.Streaks) != 2 {
		t.Fatalf("expected 2 streaks, got %v", s.Streaks)
	}
	if s.Streaks[0].Start != "2025-02-27" || s.Streaks[0].End != "2025-03-01" {
		t.Errorf("first streak = %+v", s.Streaks[0])
	}
}

func TestStreakSummary_TopTiesKeepEarliest(t *testing.T) {
	s := DetectStreaks(days(t,
		"2025-01-01", "2025-01-02",
		"2025-01-05", "2025-01-06", "2025-01-07",
		"2025-01-10", "2025-01-11",
		"2025-01-14", "2025-01-15",
	))

	top := s.Top(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 streaks, got %d", len(top))
	}
	if top[0].Days != 3 || top[0].Start != "2025-01-05" {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Start != "2025-01-01" || top[2].Start != "2025-01-10" {
		t.Errorf("ties should keep chronological order, got %v", top)
	}
}
