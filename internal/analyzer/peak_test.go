package analyzer

import (
	"math"
	"testing"
	"time"
)

func TestHourlyDistribution_CutsAtHourBoundaries(t *testing.T) {
	hours := HourlyDistribution([]Session{
		session(t, "2025-03-03 09:30", "2025-03-03 11:15"),
		session(t, "2025-03-03 23:30", "2025-03-04 00:30"),
	})

	want := map[int]time.Duration{
		9:  30 * time.Minute,
		10: time.Hour,
		11: 15 * time.Minute,
		23: 30 * time.Minute,
		0:  30 * time.Minute,
	}
	for h := 0; h < 24; h++ {
		if hours[h] != want[h] {
			t.Errorf("hour %d = %v, want %v", h, hours[h], want[h])
		}
	}
}

func TestHourlyShares_ZeroTotal(t *testing.T) {
	var hours [24]time.Duration
	for h, s := range HourlyShares(hours) {
		if s != 0 {
			t.Errorf("hour %d share = %v, want 0", h, s)
		}
	}
}

func TestHourlyShares_SumToOne(t *testing.T) {
	var hours [24]time.Duration
	hours[8] = time.Hour
	hours[14] = 3 * time.Hour
	shares := HourlyShares(hours)

	var sum float64
	for _, s := range shares {
		sum += s
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("shares sum to %v, want 1", sum)
	}
	if shares[14] != 0.75 {
		t.Errorf("hour 14 share = %v, want 0.75", shares[14])
	}
}

func TestDetectPeakWindow_LateNight(t *testing.T) {
	var shares [24]float64
	shares[22] = 0.2
	shares[23] = 0.4
	shares[0] = 0.4

	w := DetectPeakWindow(shares)
	if w.StartHour != 22 || w.EndHour != 1 {
		t.Errorf("window = %d..%d, want 22..1", w.StartHour, w.EndHour)
	}
	if math.Abs(w.Share-1) > 1e-9 {
		t.Errorf("share = %v, want 1", w.Share)
	}
	if w.Balanced {
		t.Error("expected a clear winner")
	}
	if w.Persona != PersonaNightOwl {
		t.Errorf("persona = %q, want %q", w.Persona, PersonaNightOwl)
	}
	if w.DisplayRange != "10pm–1am" {
		t.Errorf("display = %q", w.DisplayRange)
	}
}

func TestDetectPeakWindow_Balanced(t *testing.T) {
	var shares [24]float64
	shares[9] = 0.5
	shares[15] = 0.5

	w := DetectPeakWindow(shares)
	if !w.Balanced || w.Persona != PersonaBalanced {
		t.Errorf("expected balanced, got %+v", w)
	}
	// Windows starting at 7, 8 and 9 all hold 0.5; the earliest wins.
	if w.StartHour != 7 {
		t.Errorf("StartHour = %d, want 7", w.StartHour)
	}
}

func TestDetectPeakWindow_AllZero(t *testing.T) {
	var shares [24]float64
	w := DetectPeakWindow(shares)
	if w.StartHour != 0 || w.Share != 0 || w.Balanced {
		t.Errorf("got %+v", w)
	}
}

func TestPersonaForWindow(t *testing.T) {
	tests := []struct {
		start int
		want  string
	}{
		{4, PersonaEarlyBird},  // mid 5.5
		{8, PersonaEarlyBird},  // mid 9.5
		{9, PersonaDaytimeStudier},
		{13, PersonaAfternoonGrinder},
		{17, PersonaEveningWarrior},
		{19, PersonaEveningWarrior}, // mid 20.5
		{20, PersonaNightOwl},       // mid 21.5
		{22, PersonaNightOwl},
		{2, PersonaNightOwl}, // mid 3.5
	}
	for _, tt := range tests {
		if got := personaForWindow(tt.start); got != tt.want {
			t.Errorf("personaForWindow(%d) = %q, want %q", tt.start, got, tt.want)
		}
	}
}

func TestFormat12h(t *testing.T) {
	tests := map[int]string{0: "12am", 1: "1am", 11: "11am", 12: "12pm", 13: "1pm", 23: "11pm"}
	for h, want := range tests {
		if got := format12h(h); got != want {
			t.Errorf("format12h(%d) = %q, want %q", h, got, want)
		}
	}
}
