package analyzer

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"03/02/2025", "2025-02-03", true},
		{"3-2-2025", "2025-02-03", true},
		{"03.02.2025", "2025-02-03", true},
		{" 03 / 02 / 2025 ", "2025-02-03", true},
		{"31/02/2025", "2025-03-03", true}, // rolls over like a calendar
		{"00/02/2025", "", false},
		{"32/01/2025", "", false},
		{"01/13/2025", "", false},
		{"01/00/2025", "", false},
		{"01/01/1899", "", false},
		{"31/12/9999", "9999-12-31", true},
		{"01/01/10000", "", false},
		{"01/01", "", false},
		{"aa/01/2025", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseDate(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got.Format(DateLayout) != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.input, got.Format(DateLayout), tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"09:05", 545, true},
		{"9:05", 545, true},
		{"23:59:59", 1439, true},
		{"00:00", 0, true},
		{"24:30", 1439, true}, // clamped
		{" 12:00 ", 720, true},
		{"12", 0, false},
		{"12:5", 0, false},
		{"noon", 0, false},
		{"123:00", 0, false},
	}

	for _, tc := range tests {
		got, ok := ParseClock(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseClock(%q) = (%d, %v), want (%d, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
		ok    bool
	}{
		{"In", Entry, true},
		{"IN", Entry, true},
		{" in ", Entry, true},
		{"Out", Exit, true},
		{"out", Exit, true},
		{"exit", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		got, ok := ParseDirection(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseDirection(%q) = (%v, %v), want (%v, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeSwipes_SortsAndDrops(t *testing.T) {
	records := []RawSwipe{
		{Date: "02/01/2025", Time: "10:00", Direction: "In"},
		{Date: "01/01/2025", Time: "18:00", Direction: "Out"},
		{Date: "bad", Time: "10:00", Direction: "In"},
		{Date: "01/01/2025", Time: "9am", Direction: "In"},
		{Date: "01/01/2025", Time: "09:00", Direction: "sideways"},
		{Date: "01/01/2025", Time: "09:00", Direction: "In"},
	}

	got, report := NormalizeSwipesReport(records)
	if len(got) != 3 {
		t.Fatalf("expected 3 swipes, got %d", len(got))
	}
	if report.Kept != 3 || report.BadDate != 1 || report.BadTime != 1 || report.BadDirection != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Dropped() != 3 {
		t.Errorf("Dropped() = %d, want 3", report.Dropped())
	}

	want := []time.Time{
		time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	for i, w := range want {
		if !got[i].At.Equal(w) {
			t.Errorf("swipe %d at %v, want %v", i, got[i].At, w)
		}
	}
}

func TestNormalizeSwipes_StableTies(t *testing.T) {
	records := []RawSwipe{
		{Date: "01/01/2025", Time: "10:00", Direction: "Out"},
		{Date: "01/01/2025", Time: "10:00:30", Direction: "In"},
	}

	got := NormalizeSwipes(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 swipes, got %d", len(got))
	}
	if got[0].Direction != Exit || got[1].Direction != Entry {
		t.Errorf("tie order changed: got %v then %v", got[0].Direction, got[1].Direction)
	}
}

func TestNormalizeSwipes_DoesNotModifyInput(t *testing.T) {
	records := []RawSwipe{
		{Date: "02/01/2025", Time: "10:00", Direction: "In"},
		{Date: "01/01/2025", Time: "10:00", Direction: "In"},
	}
	_ = NormalizeSwipes(records)
	if records[0].Date != "02/01/2025" {
		t.Error("input slice was reordered")
	}
}
