package analyzer

import (
	"sort"
	"time"
)

// topStreakCount is how many visit streaks the snapshot keeps for display.
const topStreakCount = 3

// Streak is a run of consecutive visited days.
type Streak struct {
	Days  int    `json:"days"`
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// StreakSummary is the result of DetectStreaks.
type StreakSummary struct {
	// LongestVisit is the longest run of consecutive visited days. A lone
	// visited day counts as 1; no visits at all is 0.
	LongestVisit int

	// LongestAway is the longest run of unvisited days between the first and
	// last visited day.
	LongestAway int

	// SpanDays is the inclusive number of days from first to last visit.
	SpanDays int

	// Streaks lists every run of two or more days in chronological order.
	Streaks []Streak
}

// Top returns up to n streaks, longest first. Equal lengths keep
// chronological order, so the earliest streak wins a tie.
func (s StreakSummary) Top(n int) []Streak {
	top := make([]Streak, len(s.Streaks))
	copy(top, s.Streaks)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Days > top[j].Days
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// DetectStreaks scans visited days (sorted ascending, no duplicates) for
// visit and away streaks.
func DetectStreaks(visited []time.Time) StreakSummary {
	if len(visited) == 0 {
		return StreakSummary{}
	}

	first, last := visited[0], visited[len(visited)-1]
	summary := StreakSummary{
		LongestVisit: 1,
		SpanDays:     daysBetween(first, last) + 1,
	}

	runStart, prev := first, first
	runLen := 1
	flush := func() {
		if runLen >= 2 {
			summary.Streaks = append(summary.Streaks, Streak{
				Days:  runLen,
				Start: dateKey(runStart),
				End:   dateKey(prev),
			})
		}
		if runLen > summary.LongestVisit {
			summary.LongestVisit = runLen
		}
	}
	for _, d := range visited[1:] {
		if daysBetween(prev, d) == 1 {
			runLen++
		} else {
			flush()
			runLen = 1
			runStart = d
		}
		prev = d
	}
	flush()

	summary.LongestAway = longestAway(visited, first, last)
	return summary
}

func longestAway(visited []time.Time, first, last time.Time) int {
	seen := make(map[string]bool, len(visited))
	for _, d := range visited {
		seen[dateKey(d)] = true
	}

	longest, cur := 0, 0
	for d := truncateDay(first); !d.After(last); d = d.AddDate(0, 0, 1) {
		if seen[dateKey(d)] {
			cur = 0
			continue
		}
		cur++
		if cur > longest {
			longest = cur
		}
	}
	return longest
}
