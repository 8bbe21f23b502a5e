package analyzer

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	// peakWindowHours is the width of the rolling window.
	peakWindowHours = 3

	// balancedMargin is the relative lead the top window needs over the
	// runner-up before a persona is assigned.
	balancedMargin = 0.10
)

// Persona labels.
const (
	PersonaBalanced         = "balanced"
	PersonaEarlyBird        = "early bird"
	PersonaDaytimeStudier   = "daytime studier"
	PersonaAfternoonGrinder = "afternoon grinder"
	PersonaEveningWarrior   = "evening warrior"
	PersonaNightOwl         = "night owl"
)

// HourStat is one row of the per-hour usage table.
type HourStat struct {
	Hour         int     `json:"hour"`
	TotalMinutes int     `json:"total_minutes"`
	Share        float64 `json:"share"`
}

// PeakWindow describes the 3-hour stretch with the most library time.
type PeakWindow struct {
	StartHour    int     `json:"start_hour"`
	EndHour      int     `json:"end_hour"`
	Share        float64 `json:"share"`
	DisplayRange string  `json:"display_range"`
	Persona      string  `json:"persona"`
	Balanced     bool    `json:"balanced"`
}

// HourlyDistribution spreads each session's time over the hours of the day it
// overlaps, cutting at every hour boundary.
func HourlyDistribution(sessions []Session) [24]time.Duration {
	var hours [24]time.Duration
	for _, s := range sessions {
		for _, c := range SplitByHour(s) {
			hours[c.Start.Hour()] += c.Duration
		}
	}
	return hours
}

// SplitByHour attributes a session's time to each clock hour it touches.
func SplitByHour(s Session) []Contribution {
	return splitAt(s.Entry, s.Exit, nextHour, hourKey)
}

func hourKey(t time.Time) string {
	return t.UTC().Format("2006-01-02T15")
}

// HourlyShares normalises hour buckets so they sum to 1. All shares are zero
// when there is no time at all.
func HourlyShares(hours [24]time.Duration) [24]float64 {
	var total time.Duration
	for _, h := range hours {
		total += h
	}
	var shares [24]float64
	if total <= 0 {
		return shares
	}
	for i, h := range hours {
		shares[i] = float64(h) / float64(total)
	}
	return shares
}

// DetectPeakWindow picks the circular 3-hour window with the largest share.
// Ties go to the earliest start hour. When the runner-up is within 10% of the
// winner the user is reported as balanced.
func DetectPeakWindow(shares [24]float64) PeakWindow {
	type window struct {
		hour  int
		share float64
	}
	windows := make([]window, 24)
	for h := range windows {
		var sum float64
		for k := 0; k < peakWindowHours; k++ {
			sum += shares[(h+k)%24]
		}
		windows[h] = window{hour: h, share: sum}
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].share > windows[j].share
	})

	top, second := windows[0], windows[1]
	balanced := top.share > 0 && (top.share-second.share)/top.share < balancedMargin

	persona := personaForWindow(top.hour)
	if balanced {
		persona = PersonaBalanced
	}

	return PeakWindow{
		StartHour:    top.hour,
		EndHour:      (top.hour + peakWindowHours) % 24,
		Share:        top.share,
		DisplayRange: formatHourRange(top.hour),
		Persona:      persona,
		Balanced:     balanced,
	}
}

// personaForWindow classifies by the window's midpoint hour.
func personaForWindow(startHour int) string {
	mid := math.Mod(float64(startHour)+float64(peakWindowHours)/2, 24)
	switch {
	case mid >= 5 && mid < 10:
		return PersonaEarlyBird
	case mid >= 10 && mid < 14:
		return PersonaDaytimeStudier
	case mid >= 14 && mid < 18:
		return PersonaAfternoonGrinder
	case mid >= 18 && mid < 21:
		return PersonaEveningWarrior
	default:
		return PersonaNightOwl
	}
}

func formatHourRange(startHour int) string {
	return fmt.Sprintf("%s–%s", format12h(startHour), format12h((startHour+peakWindowHours)%24))
}

func format12h(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h == 12:
		return "12pm"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}

func hourlyStats(hours [24]time.Duration, shares [24]float64) []HourStat {
	rows := make([]HourStat, 24)
	for h := range rows {
		rows[h] = HourStat{
			Hour:         h,
			TotalMinutes: roundMinutes(hours[h]),
			Share:        shares[h],
		}
	}
	return rows
}
