// Package watcher provides background monitoring of a swipe export,
// recomputing the recap when the file changes and emitting alerts for
// notable differences.
package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/libster-app/libster/internal/analyzer"
)

// ComputeFunc produces the recap for the watched export.
type ComputeFunc func(path string) (*analyzer.Stats, error)

// WatchState captures the recap of the export at one point in time.
type WatchState struct {
	Timestamp time.Time
	ModTime   time.Time
	Size      int64

	TotalMinutes   int
	Sessions       int
	RawSessions    int
	UnpairedSwipes int
	NoSeatCount    int
	VisitStreak    int
	LongestMinutes int
	LongestDate    string
	Persona        string

	// Invariant holds the debug-totals violation, if any.
	Invariant string

	stats *analyzer.Stats
}

// Stats returns the recap the state was built from.
func (s *WatchState) Stats() *analyzer.Stats {
	return s.stats
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Watcher polls one export at a regular interval and emits alerts when the
// recap changes.
type Watcher struct {
	path          string
	interval      time.Duration
	compute       ComputeFunc
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
}

// New creates a Watcher for the export at path.
func New(path string, interval time.Duration, compute ComputeFunc, alertFn func(Alert)) *Watcher {
	return &Watcher{
		path:          path,
		interval:      interval,
		compute:       compute,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Current returns the most recent state, or nil before the first snapshot.
func (w *Watcher) Current() *WatchState {
	return w.previous
}

// Run starts the watch loop. It takes an initial snapshot, then checks at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check() {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check() []Alert {
	curr, err := w.Snapshot()
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not read %s: %v", w.path, err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot recomputes the recap. When the file's size and modification time
// match the previous snapshot the previous recap is reused.
func (w *Watcher) Snapshot() (*WatchState, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, err
	}

	if p := w.previous; p != nil && p.ModTime.Equal(info.ModTime()) && p.Size == info.Size() {
		state := *p
		state.Timestamp = time.Now()
		return &state, nil
	}

	stats, err := w.compute(w.path)
	if err != nil {
		return nil, err
	}
	state := NewState(stats)
	state.ModTime = info.ModTime()
	state.Size = info.Size()
	return state, nil
}

// NewState summarises a recap for comparison.
func NewState(s *analyzer.Stats) *WatchState {
	state := &WatchState{
		Timestamp:      time.Now(),
		TotalMinutes:   s.TotalMinutes,
		Sessions:       s.TotalSessions,
		RawSessions:    s.Orphans.RawSessions,
		UnpairedSwipes: s.Orphans.OrphanExit + s.Orphans.OrphanEntryOverwritten + s.Orphans.OrphanEntryAtEnd,
		NoSeatCount:    s.NoSeat.Count,
		VisitStreak:    s.LongestVisitStreakDays,
		LongestMinutes: s.LongestSessionMinutes,
		LongestDate:    s.LongestSessionDate,
		Persona:        s.PeakWindow.Persona,
		stats:          s,
	}
	if s.Debug != nil {
		if err := s.Debug.Check(analyzer.DefaultTolerance); err != nil {
			state.Invariant = err.Error()
		}
	}
	return state
}

