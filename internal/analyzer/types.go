// Package analyzer turns raw access-control swipes into library visits and
// derives the recap statistics. Everything in this package is a pure function
// of its inputs: no I/O, no clocks, no shared state.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// SchemaVersion identifies the shape of Stats. Bump it whenever a field is
// added, removed, or changes meaning so cached snapshots can be invalidated.
const SchemaVersion = 1

// ErrInvalidConfig is returned by Process when the configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid engine config")

// Default thresholds.
const (
	DefaultNoSeatMaxMinutes = 15.0
	DefaultMergeGapMinutes  = 60.0
)

// Config holds the engine thresholds.
type Config struct {
	// NoSeatMaxMinutes is the inclusive upper bound for a raw session to be
	// counted as a "couldn't find a seat" visit.
	NoSeatMaxMinutes float64 `json:"no_seat_max_minutes"`

	// MergeGapMinutes is the inclusive gap within which consecutive raw
	// sessions are joined into one visit.
	MergeGapMinutes float64 `json:"merge_gap_minutes"`

	// Debug enables the cross-checked totals block on the snapshot.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the stock thresholds with debug disabled.
func DefaultConfig() Config {
	return Config{
		NoSeatMaxMinutes: DefaultNoSeatMaxMinutes,
		MergeGapMinutes:  DefaultMergeGapMinutes,
	}
}

// Validate rejects thresholds that cannot be interpreted.
func (c Config) Validate() error {
	if math.IsNaN(c.NoSeatMaxMinutes) || c.NoSeatMaxMinutes < 0 {
		return fmt.Errorf("%w: no-seat threshold must be >= 0, got %v", ErrInvalidConfig, c.NoSeatMaxMinutes)
	}
	if math.IsNaN(c.MergeGapMinutes) || c.MergeGapMinutes < 0 {
		return fmt.Errorf("%w: merge gap must be >= 0, got %v", ErrInvalidConfig, c.MergeGapMinutes)
	}
	return nil
}

func (c Config) mergeGap() time.Duration {
	return minutesToDuration(c.MergeGapMinutes)
}

func (c Config) noSeatMax() time.Duration {
	return minutesToDuration(c.NoSeatMaxMinutes)
}

// RawSwipe is one untrusted record from the access-control export.
type RawSwipe struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Direction string `json:"direction"`
}

// Direction is the side of the gate a swipe was made on.
type Direction int

const (
	Entry Direction = iota + 1
	Exit
)

func (d Direction) String() string {
	switch d {
	case Entry:
		return "IN"
	case Exit:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Swipe is a validated, timestamped swipe.
type Swipe struct {
	At        time.Time
	Direction Direction
}

// Session is a contiguous stretch of library time. Raw sessions are a single
// entry/exit pair; merged sessions may span several raw sessions, in which
// case Duration excludes the gaps between them and can be shorter than
// Exit.Sub(Entry).
type Session struct {
	Entry    time.Time     `json:"entry"`
	Exit     time.Time     `json:"exit"`
	Duration time.Duration `json:"duration"`
}

// Minutes returns the occupied time in fractional minutes.
func (s Session) Minutes() float64 {
	return s.Duration.Minutes()
}

// Term is a named, inclusive date range used for bucketing usage.
type Term struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the calendar day of t lies within the term.
func (t Term) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(t.Start)) && !d.After(truncateDay(t.End))
}

// Days returns the inclusive number of calendar days in the term.
func (t Term) Days() int {
	return daysBetween(t.Start, t.End) + 1
}

func minutesToDuration(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

func sumDurations(sessions []Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}
