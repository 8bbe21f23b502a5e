package analyzer

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the allowed drift, in minutes, between independently
// computed totals.
const DefaultTolerance = 1e-6

// DebugTotals holds the same total computed along every path through the
// pipeline. All values are unrounded minutes and must agree.
type DebugTotals struct {
	RawMinutes        float64 `json:"total_minutes_raw"`
	MergedMinutes     float64 `json:"total_minutes_merged"`
	DailySplitMinutes float64 `json:"total_minutes_daily_split"`
	WeekdaySumMinutes float64 `json:"total_minutes_weekday_sum"`
	MonthSumMinutes   float64 `json:"total_minutes_month_sum"`
	TermSumMinutes    float64 `json:"total_minutes_term_sum"`
}

// InvariantError lists every total that disagrees with the raw total.
type InvariantError struct {
	Raw        float64
	Mismatches map[string]float64
}

func (e *InvariantError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, name := range debugOrder {
		if v, ok := e.Mismatches[name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.4f", name, v))
		}
	}
	return fmt.Sprintf("total minutes disagree with raw=%.4f: %s", e.Raw, strings.Join(parts, ", "))
}

var debugOrder = []string{"merged", "daily_split", "weekday_sum", "month_sum", "term_sum"}

// Check compares every total against the raw total and returns an
// *InvariantError when any differs by more than tol minutes.
func (d DebugTotals) Check(tol float64) error {
	values := map[string]float64{
		"merged":      d.MergedMinutes,
		"daily_split": d.DailySplitMinutes,
		"weekday_sum": d.WeekdaySumMinutes,
		"month_sum":   d.MonthSumMinutes,
		"term_sum":    d.TermSumMinutes,
	}
	var bad map[string]float64
	for name, v := range values {
		if math.Abs(v-d.RawMinutes) > tol {
			if bad == nil {
				bad = make(map[string]float64)
			}
			bad[name] = v
		}
	}
	if bad == nil {
		return nil
	}
	return &InvariantError{Raw: d.RawMinutes, Mismatches: bad}
}
