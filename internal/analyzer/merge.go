package analyzer

import (
	"sort"
	"time"
)

// MergeSessions joins sessions whose gap to the running visit is between zero
// and gap inclusive. Only occupied time is summed, so the total duration of
// the result always equals the total duration of the input. The input slice
// is not modified.
func MergeSessions(sessions []Session, gap time.Duration) []Session {
	if len(sessions) == 0 {
		return nil
	}

	sorted := make([]Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Entry.Before(sorted[j].Entry)
	})

	merged := make([]Session, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		g := next.Entry.Sub(cur.Exit)
		if g >= 0 && g <= gap {
			cur.Exit = next.Exit
			cur.Duration += next.Duration
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)

	return merged
}
