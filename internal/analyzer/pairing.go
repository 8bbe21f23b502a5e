package analyzer

import "time"

// MaxSessionSpan is the longest entry-to-exit span accepted as a session.
// Longer pairs are treated like an exit stamped before its entry.
const MaxSessionSpan = 366 * 24 * time.Hour

// PairResult is the outcome of pairing a swipe stream into raw sessions.
type PairResult struct {
	Sessions []Session

	// OrphanExit counts exits seen while no entry was open.
	OrphanExit int

	// OrphanEntryOverwritten counts entries replaced by a later entry before
	// any exit arrived.
	OrphanEntryOverwritten int

	// OrphanEntryAtEnd is 1 when the stream ends with an entry still open.
	OrphanEntryAtEnd int
}

// PairSessions scans swipes in order and pairs each exit with the most recent
// open entry. The input must already be sorted, as NormalizeSwipes returns it.
//
// An exit stamped before its open entry, or more than MaxSessionSpan after it,
// closes the entry without producing a session and is not counted as an orphan.
func PairSessions(swipes []Swipe) PairResult {
	var (
		res  PairResult
		open *time.Time
	)

	for _, s := range swipes {
		at := s.At
		switch s.Direction {
		case Entry:
			if open != nil {
				res.OrphanEntryOverwritten++
			}
			open = &at
		case Exit:
			if open == nil {
				res.OrphanExit++
				continue
			}
			if !at.Before(*open) && at.Sub(*open) <= MaxSessionSpan {
				res.Sessions = append(res.Sessions, Session{
					Entry:    *open,
					Exit:     at,
					Duration: at.Sub(*open),
				})
			}
			open = nil
		}
	}

	if open != nil {
		res.OrphanEntryAtEnd = 1
	}
	return res
}
