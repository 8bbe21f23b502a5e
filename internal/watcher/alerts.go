package watcher

import (
	"fmt"
	"time"
)

// unpairedSpike is the number of new unpaired swipes between two checks that
// raises a warning.
const unpairedSpike = 3

// Compare detects notable changes between two watch states and returns alerts.
// It checks for critical, warning, and info-level changes.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical detects critical-level changes.
func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	if curr.Invariant != "" && curr.Invariant != prev.Invariant {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Title:   "Totals disagree",
			Message: curr.Invariant,
			Time:    now,
		})
	}

	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	// Fewer visits or less time than before means the export was rewritten.
	if curr.Sessions < prev.Sessions || curr.TotalMinutes < prev.TotalMinutes {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "History shrank",
			Message: fmt.Sprintf("Visits %d -> %d, minutes %d -> %d", prev.Sessions, curr.Sessions, prev.TotalMinutes, curr.TotalMinutes),
			Time:    now,
		})
	}

	if added := curr.UnpairedSwipes - prev.UnpairedSwipes; added >= unpairedSpike {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "Unpaired swipes",
			Message: fmt.Sprintf("%d new swipes without a matching entry or exit (%d total)", added, curr.UnpairedSwipes),
			Time:    now,
		})
	}

	if added := curr.NoSeatCount - prev.NoSeatCount; added > 0 && curr.RawSessions > prev.RawSessions {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "No seat found",
			Message: fmt.Sprintf("%d new visit(s) ended within the no-seat threshold", added),
			Time:    now,
		})
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	if curr.Sessions > prev.Sessions {
		added := curr.Sessions - prev.Sessions
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "New visits",
			Message: fmt.Sprintf("%d new visit(s), +%d minutes", added, curr.TotalMinutes-prev.TotalMinutes),
			Time:    now,
		})
	}

	if curr.VisitStreak > prev.VisitStreak {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "New longest streak",
			Message: fmt.Sprintf("%d consecutive days (was %d)", curr.VisitStreak, prev.VisitStreak),
			Time:    now,
		})
	}

	if curr.LongestMinutes > prev.LongestMinutes {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "New longest visit",
			Message: fmt.Sprintf("%d minutes on %s", curr.LongestMinutes, curr.LongestDate),
			Time:    now,
		})
	}

	if prev.Persona != "" && curr.Persona != prev.Persona {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Study persona changed",
			Message: fmt.Sprintf("%s -> %s", prev.Persona, curr.Persona),
			Time:    now,
		})
	}

	return alerts
}
