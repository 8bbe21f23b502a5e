// Package cache memoizes recap snapshots keyed by a fingerprint of the
// engine inputs. The engine itself stays stateless; this is the calling
// layer's cache.
package cache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/libster-app/libster/internal/analyzer"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	groupSep  = "\x1d"
)

// Key fingerprints one engine call. Records are hashed in input order, so a
// reordered export gets a new key even though it yields the same snapshot.
func Key(records []analyzer.RawSwipe, cfg analyzer.Config, terms []analyzer.Term) string {
	h := xxhash.New()

	_, _ = h.WriteString("v" + strconv.Itoa(analyzer.SchemaVersion) + groupSep)

	_, _ = h.WriteString(strconv.FormatFloat(cfg.NoSeatMaxMinutes, 'g', -1, 64) + fieldSep)
	_, _ = h.WriteString(strconv.FormatFloat(cfg.MergeGapMinutes, 'g', -1, 64) + fieldSep)
	_, _ = h.WriteString(strconv.FormatBool(cfg.Debug) + groupSep)

	for _, t := range terms {
		_, _ = h.WriteString(t.Name + fieldSep)
		_, _ = h.WriteString(t.Start.Format(analyzer.DateLayout) + fieldSep)
		_, _ = h.WriteString(t.End.Format(analyzer.DateLayout) + recordSep)
	}
	_, _ = h.WriteString(groupSep)

	for _, r := range records {
		_, _ = h.WriteString(r.Date + fieldSep)
		_, _ = h.WriteString(r.Time + fieldSep)
		_, _ = h.WriteString(r.Direction + recordSep)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
