package analyzer

import (
	"testing"
	"time"
)

func TestSplitByDay_SameDay(t *testing.T) {
	parts := SplitByDay(session(t, "2025-03-01 09:00", "2025-03-01 17:00"))
	if len(parts) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(parts))
	}
	if parts[0].Key != "2025-03-01" || parts[0].Duration != 8*time.Hour {
		t.Errorf("got %+v", parts[0])
	}
}

func TestSplitByDay_AcrossMidnight(t *testing.T) {
	parts := SplitByDay(session(t, "2025-03-01 23:30", "2025-03-02 01:15"))
	if len(parts) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(parts))
	}
	if parts[0].Key != "2025-03-01" || parts[0].Duration != 30*time.Minute {
		t.Errorf("first part = %+v, want 30m on 2025-03-01", parts[0])
	}
	if parts[1].Key != "2025-03-02" || parts[1].Duration != 75*time.Minute {
		t.Errorf("second part = %+v, want 75m on 2025-03-02", parts[1])
	}
}

func TestSplitByDay_SpansSeveralMidnights(t *testing.T) {
	s := session(t, "2025-02-27 22:00", "2025-03-02 02:00")
	parts := SplitByDay(s)

	// Three midnights crossed, four days touched.
	if len(parts) != 4 {
		t.Fatalf("expected 4 contributions, got %d", len(parts))
	}
	wantKeys := []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}
	var total time.Duration
	for i, p := range parts {
		if p.Key != wantKeys[i] {
			t.Errorf("part %d key = %s, want %s", i, p.Key, wantKeys[i])
		}
		total += p.Duration
	}
	if total != s.Duration {
		t.Errorf("parts sum to %v, want %v", total, s.Duration)
	}
}

func TestSplitByDay_ExitAtMidnight(t *testing.T) {
	parts := SplitByDay(session(t, "2025-03-01 22:00", "2025-03-02 00:00"))
	if len(parts) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(parts))
	}
	if parts[1].Duration != 0 {
		t.Errorf("expected zero-length tail, got %v", parts[1].Duration)
	}
}

func TestDailyTotals_SumMatchesRaw(t *testing.T) {
	raw := []Session{
		session(t, "2025-03-01 09:00", "2025-03-01 12:00"),
		session(t, "2025-03-01 23:30", "2025-03-02 01:15"),
		session(t, "2025-03-05 10:00", "2025-03-05 10:07"),
	}

	daily := DailyTotals(raw)
	if daily.Total() != sumDurations(raw) {
		t.Errorf("daily total %v, raw total %v", daily.Total(), sumDurations(raw))
	}
	if daily["2025-03-01"] != 210*time.Minute {
		t.Errorf("2025-03-01 = %v, want 3h30m", daily["2025-03-01"])
	}

	visited := daily.VisitedDays()
	if len(visited) != 3 {
		t.Fatalf("expected 3 visited days, got %d", len(visited))
	}
	if visited[2].Format(DateLayout) != "2025-03-05" {
		t.Errorf("visited days not sorted: %v", visited)
	}
}

func TestDailyMinutes_VisitedDaysSkipsZero(t *testing.T) {
	daily := DailyMinutes{
		"2025-03-02": 0,
		"2025-03-01": time.Hour,
	}
	visited := daily.VisitedDays()
	if len(visited) != 1 || visited[0].Format(DateLayout) != "2025-03-01" {
		t.Errorf("got %v, want only 2025-03-01", visited)
	}
}
