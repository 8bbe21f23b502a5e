package watcher

import (
	"testing"
)

func makeState() *WatchState {
	return &WatchState{
		TotalMinutes: 600,
		Sessions:     5,
		RawSessions:  6,
		VisitStreak:  2,
		Persona:      "daytime studier",
	}
}

func findAlert(alerts []Alert, level, title string) *Alert {
	for i := range alerts {
		if alerts[i].Level == level && alerts[i].Title == title {
			return &alerts[i]
		}
	}
	return nil
}

func TestCompare_NoChanges(t *testing.T) {
	prev := makeState()
	curr := makeState()

	alerts := Compare(prev, curr)
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts for identical states, got %d", len(alerts))
		for _, a := range alerts {
			t.Logf("  [%s] %s: %s", a.Level, a.Title, a.Message)
		}
	}
}

func TestCompare_EmptyStates(t *testing.T) {
	alerts := Compare(&WatchState{}, &WatchState{})
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts for empty identical states, got %d", len(alerts))
	}
}

func TestCompare_NewVisits(t *testing.T) {
	prev := makeState()
	curr := makeState()
	curr.Sessions = 7
	curr.TotalMinutes = 780

	a := findAlert(Compare(prev, curr), "info", "New visits")
	if a == nil {
		t.Fatal("expected info alert for new visits")
	}
	if a.Message != "2 new visit(s), +180 minutes" {
		t.Errorf("unexpected message %q", a.Message)
	}
}

func TestCompare_HistoryShrank(t *testing.T) {
	prev := makeState()
	curr := makeState()
	curr.Sessions = 3
	curr.TotalMinutes = 300

	alerts := Compare(prev, curr)
	if findAlert(alerts, "warning", "History shrank") == nil {
		t.Error("expected warning when the export loses visits")
	}
	if findAlert(alerts, "info", "New visits") != nil {
		t.Error("did not expect a new-visits alert")
	}
}

func TestCompare_UnpairedSwipes(t *testing.T) {
	tests := []struct {
		name  string
		prev  int
		curr  int
		alert bool
	}{
		{"below threshold", 1, 3, false},
		{"at threshold", 1, 4, true},
		{"decrease", 5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := makeState()
			prev.UnpairedSwipes = tt.prev
			curr := makeState()
			curr.UnpairedSwipes = tt.curr

			got := findAlert(Compare(prev, curr), "warning", "Unpaired swipes") != nil
			if got != tt.alert {
				t.Errorf("alert = %v, want %v", got, tt.alert)
			}
		})
	}
}

func TestCompare_NoSeat(t *testing.T) {
	prev := makeState()
	curr := makeState()
	curr.Sessions = 6
	curr.RawSessions = 7
	curr.TotalMinutes = 610
	curr.NoSeatCount = 1

	if findAlert(Compare(prev, curr), "warning", "No seat found") == nil {
		t.Error("expected no-seat warning for a new short visit")
	}
}

func TestCompare_NoSeatMergedIntoVisit(t *testing.T) {
	// A short swipe-in inside the merge gap adds a raw session but no visit.
	prev := makeState()
	curr := makeState()
	curr.RawSessions = 7
	curr.TotalMinutes = 610
	curr.NoSeatCount = 1

	if findAlert(Compare(prev, curr), "warning", "No seat found") == nil {
		t.Error("expected no-seat warning even though the visit count did not change")
	}
}

func TestCompare_NoSeatReclassified(t *testing.T) {
	// A higher no-seat count with no new raw sessions means the threshold
	// moved, not that a visit happened.
	prev := makeState()
	curr := makeState()
	curr.NoSeatCount = 2

	if findAlert(Compare(prev, curr), "warning", "No seat found") != nil {
		t.Error("did not expect a no-seat warning without new sessions")
	}
}

func TestCompare_Records(t *testing.T) {
	prev := makeState()
	prev.LongestMinutes = 240
	curr := makeState()
	curr.VisitStreak = 5
	curr.LongestMinutes = 400
	curr.LongestDate = "2025-03-14"

	alerts := Compare(prev, curr)

	if a := findAlert(alerts, "info", "New longest streak"); a == nil {
		t.Error("expected streak alert")
	} else if a.Message != "5 consecutive days (was 2)" {
		t.Errorf("unexpected streak message %q", a.Message)
	}

	if a := findAlert(alerts, "info", "New longest visit"); a == nil {
		t.Error("expected longest visit alert")
	} else if a.Message != "400 minutes on 2025-03-14" {
		t.Errorf("unexpected longest visit message %q", a.Message)
	}
}

func TestCompare_PersonaChanged(t *testing.T) {
	prev := makeState()
	curr := makeState()
	curr.Persona = "night owl"

	a := findAlert(Compare(prev, curr), "info", "Study persona changed")
	if a == nil {
		t.Fatal("expected persona alert")
	}
	if a.Message != "daytime studier -> night owl" {
		t.Errorf("unexpected message %q", a.Message)
	}

	// No alert when there was no previous persona.
	prev.Persona = ""
	if findAlert(Compare(prev, curr), "info", "Study persona changed") != nil {
		t.Error("did not expect persona alert from an empty baseline")
	}
}

func TestCompare_Invariant(t *testing.T) {
	prev := makeState()
	curr := makeState()
	curr.Invariant = "total minutes disagree with raw=10.0000: merged=9.0000"

	if findAlert(Compare(prev, curr), "critical", "Totals disagree") == nil {
		t.Error("expected critical alert for a new invariant violation")
	}

	// The same violation twice is not a change.
	prev.Invariant = curr.Invariant
	if findAlert(Compare(prev, curr), "critical", "Totals disagree") != nil {
		t.Error("did not expect a repeat critical alert")
	}
}
