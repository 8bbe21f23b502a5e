package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/cache"
	"github.com/libster-app/libster/internal/output"
	"github.com/libster-app/libster/internal/store"
)

var (
	trackInputs  inputFlags
	trackCompare int
	trackHistory int
	trackMetric  string
)

var trackCmd = &cobra.Command{
	Use:   "track [FILE]",
	Short: "Snapshot a recap and compare it with earlier ones",
	Long: `Compute the recap for a swipe export, store its headline metrics as a new
snapshot, and compare against an earlier snapshot to show deltas with trend
arrows.

With --history or --metric no file is needed: the stored snapshots are shown
instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

func init() {
	trackInputs.register(trackCmd)
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	trackCmd.Flags().StringVar(&trackMetric, "metric", "", "Show the stored values of one metric")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, j, err := trackInputs.resolve(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if len(args) == 0 {
		switch {
		case trackMetric != "":
			return showMetric(db, trackMetric, max(trackHistory, 10))
		case trackHistory > 0:
			if flagJSON {
				return outputHistoryJSON(db, trackHistory)
			}
			return renderHistory(db, trackHistory)
		}
		return fmt.Errorf("track needs a swipe export unless --history or --metric is given")
	}

	records, err := trackInputs.readSwipes(args[0], j)
	if err != nil {
		return err
	}

	stats, _, err := cache.New(db).Process(records, j.engine, j.terms)
	if err != nil {
		return err
	}

	snapshotID, err := saveSnapshot(db, &store.Snapshot{
		Command:     "track",
		Version:     appVersion,
		Source:      args[0],
		Label:       j.window.Label,
		Fingerprint: cache.Key(records, j.engine, j.terms),
	}, stats)
	if err != nil {
		return err
	}

	if n, err := db.PruneCachedStats(time.Now().Add(-staleCacheAge)); err != nil {
		log.Printf("Warning: pruning stats cache: %v", err)
	} else if n > 0 && flagVerbose {
		fmt.Fprintf(os.Stderr, "pruned %d cached recaps\n", n)
	}

	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(db, trackHistory)
		}
		return renderHistory(db, trackHistory)
	}

	// trackCompare=1 means compare against the immediate predecessor (offset 2 from newest).
	prevSnapshot, err := db.GetSnapshotN(trackCompare + 1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	currentSnapshot, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	var diff *store.SnapshotDiff
	if prevSnapshot != nil {
		prevMetrics, err := db.GetAggregateMetrics(prevSnapshot.ID)
		if err != nil {
			return fmt.Errorf("loading previous metrics: %w", err)
		}
		currMetrics, err := db.GetAggregateMetrics(snapshotID)
		if err != nil {
			return fmt.Errorf("loading current metrics: %w", err)
		}
		diff = &store.SnapshotDiff{
			Previous: prevSnapshot,
			Current:  currentSnapshot,
			Deltas:   computeDeltas(prevMetrics, currMetrics),
		}
	}

	if flagJSON {
		return outputTrackJSON(currentSnapshot, diff)
	}

	renderTrackOutput(currentSnapshot, diff)
	return nil
}

// saveSnapshot stores snap and the headline metrics of s. A recap whose debug
// totals disagree is not stored.
func saveSnapshot(db *store.DB, snap *store.Snapshot, s *analyzer.Stats) (int64, error) {
	if err := checkInvariants(snap.Source, s); err != nil {
		return 0, fmt.Errorf("not saving snapshot: %w", err)
	}

	snapshotID, err := db.CreateSnapshot(snap)
	if err != nil {
		return 0, fmt.Errorf("creating snapshot: %w", err)
	}

	metrics := buildAggregateMetrics(s)
	for _, name := range metricDisplayOrder {
		if err := db.InsertAggregateMetric(snapshotID, name, metrics[name], ""); err != nil {
			return 0, fmt.Errorf("inserting metric %s: %w", name, err)
		}
	}
	return snapshotID, nil
}

// buildAggregateMetrics flattens the headline numbers of a recap into the
// metric names stored with each snapshot.
func buildAggregateMetrics(s *analyzer.Stats) map[string]float64 {
	orphans := s.Orphans.OrphanExit + s.Orphans.OrphanEntryOverwritten + s.Orphans.OrphanEntryAtEnd

	var consistency float64
	if len(s.Terms) > 0 {
		for _, t := range s.Terms {
			consistency += t.Consistency
		}
		consistency = consistency / float64(len(s.Terms)) * 100
	}

	return map[string]float64{
		"total_hours":              s.TotalHours,
		"total_sessions":           float64(s.TotalSessions),
		"avg_session_minutes":      float64(s.AverageSessionMinutes),
		"longest_session_minutes":  float64(s.LongestSessionMinutes),
		"longest_visit_streak":     float64(s.LongestVisitStreakDays),
		"longest_away_streak":      float64(s.LongestAwayStreakDays),
		"peak_window_share":        s.PeakWindow.Share * 100,
		"avg_term_consistency":     consistency,
		"outside_term_hours":       s.OutsideTermHours,
		"no_seat_share":            s.NoSeat.SharePct,
		"orphan_swipes":            float64(orphans),
		"marathon_sessions":        float64(s.VisitTypes.Marathon),
		"dataset_span_days":        float64(s.DatasetSpanDays),
		"merged_session_reduction": float64(s.Orphans.RawSessions - s.Orphans.MergedSessions),
	}
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"total_hours":              true,
	"total_sessions":           true,
	"avg_session_minutes":      true,
	"longest_session_minutes":  true,
	"longest_visit_streak":     true,
	"longest_away_streak":      false,
	"peak_window_share":        true,
	"avg_term_consistency":     true,
	"outside_term_hours":       true,
	"no_seat_share":            false,
	"orphan_swipes":            false,
	"marathon_sessions":        true,
	"dataset_span_days":        true,
	"merged_session_reduction": false,
}

// computeDeltas compares two sets of aggregate metrics and returns MetricDelta entries.
func computeDeltas(prev, curr []store.AggregateMetric) []store.MetricDelta {
	prevMap := make(map[string]float64)
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	var deltas []store.MetricDelta
	for _, m := range curr {
		prevVal := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := "unchanged"
		if delta != 0 {
			higherIsBetter, known := metricDirection[m.MetricName]
			if !known {
				higherIsBetter = true
			}
			if (delta > 0) == higherIsBetter {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		deltas = append(deltas, store.MetricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}

	return deltas
}

func outputTrackJSON(current *store.Snapshot, diff *store.SnapshotDiff) error {
	result := map[string]any{
		"snapshot": current,
	}
	if diff != nil {
		result["diff"] = diff
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderTrackOutput(current *store.Snapshot, diff *store.SnapshotDiff) {
	fmt.Println(output.Section("Track: Snapshot Comparison"))
	fmt.Println()
	fmt.Printf(" Snapshot #%d of %s taken %s\n\n", current.ID, snapshotName(current), output.Ago(current.TakenAt))

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'libster track' again after your next export to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d of %s (%s)\n\n",
		diff.Previous.ID, snapshotName(diff.Previous), diff.Previous.TakenAt.Format("2006-01-02 15:04"))

	if diff.Previous.Fingerprint != "" && diff.Previous.Fingerprint == current.Fingerprint {
		fmt.Println(output.StyleMuted.Render(" Same input as the previous snapshot."))
		fmt.Println()
	}

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		higherIsBetter, known := metricDirection[d.Name]
		if !known {
			higherIsBetter = true
		}
		tbl.AddRow(
			metricShortName(d.Name),
			output.Decimal(d.Previous, 1),
			output.Decimal(d.Current, 1),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter),
		)
	}
	tbl.Print()
}

func snapshotName(s *store.Snapshot) string {
	if s.Label != "" {
		return s.Source + " (" + s.Label + ")"
	}
	return s.Source
}

// metricDisplayOrder defines the order metrics are stored and displayed.
var metricDisplayOrder = []string{
	"total_hours",
	"total_sessions",
	"avg_session_minutes",
	"longest_session_minutes",
	"longest_visit_streak",
	"longest_away_streak",
	"peak_window_share",
	"avg_term_consistency",
	"outside_term_hours",
	"no_seat_share",
	"marathon_sessions",
	"orphan_swipes",
	"merged_session_reduction",
	"dataset_span_days",
}

// metricShortName returns a compact label for display in tables.
func metricShortName(name string) string {
	short := map[string]string{
		"total_hours":              "Total Hours",
		"total_sessions":           "Visits",
		"avg_session_minutes":      "Avg Visit (min)",
		"longest_session_minutes":  "Longest Visit (min)",
		"longest_visit_streak":     "Visit Streak (days)",
		"longest_away_streak":      "Away Streak (days)",
		"peak_window_share":        "Peak Window %",
		"avg_term_consistency":     "Term Consistency %",
		"outside_term_hours":       "Outside Term (h)",
		"no_seat_share":            "No Seat %",
		"marathon_sessions":        "6h+ Visits",
		"orphan_swipes":            "Unpaired Swipes",
		"merged_session_reduction": "Breaks Merged",
		"dataset_span_days":        "Span (days)",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

// recentSnapshots returns up to n snapshots, oldest first.
func recentSnapshots(db *store.DB, n int) ([]store.Snapshot, error) {
	snapshots, err := db.GetRecentSnapshots(n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(db *store.DB, n int) error {
	snapshots, err := recentSnapshots(db, n)
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Println(" No snapshots found. Run 'libster track FILE' to create one.")
		return nil
	}

	type snapshotMetrics struct {
		snapshot store.Snapshot
		metrics  map[string]float64
	}
	var timeline []snapshotMetrics
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		m := make(map[string]float64)
		for _, am := range metrics {
			m[am.MetricName] = am.MetricValue
		}
		timeline = append(timeline, snapshotMetrics{snapshot: s, metrics: m})
	}

	fmt.Println(output.Section("Track: Metric History"))
	fmt.Println()
	fmt.Printf(" Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	for _, sm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", sm.snapshot.ID, sm.snapshot.TakenAt.Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		var vals []float64
		for _, sm := range timeline {
			v := sm.metrics[name]
			vals = append(vals, v)
			row = append(row, output.Decimal(v, 1))
		}

		trend := ""
		if len(vals) >= 2 {
			higherIsBetter, known := metricDirection[name]
			if !known {
				higherIsBetter = true
			}
			trend = output.TrendArrow(vals[len(vals)-1]-vals[0], higherIsBetter)
		}
		row = append(row, trend)
		tbl.AddRow(row...)
	}

	tbl.Print()
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(db *store.DB, n int) error {
	snapshots, err := recentSnapshots(db, n)
	if err != nil {
		return err
	}

	type snapshotEntry struct {
		Snapshot store.Snapshot          `json:"snapshot"`
		Metrics  []store.AggregateMetric `json:"metrics"`
	}

	entries := []snapshotEntry{}
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, snapshotEntry{Snapshot: s, Metrics: metrics})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"history": entries})
}

// showMetric prints the stored values of one metric, oldest first.
func showMetric(db *store.DB, name string, limit int) error {
	if _, ok := metricDirection[name]; !ok {
		return fmt.Errorf("unknown metric %q", name)
	}
	points, err := db.GetMetricHistory(name, limit)
	if err != nil {
		return fmt.Errorf("loading metric history: %w", err)
	}

	if flagJSON {
		if points == nil {
			points = []store.MetricPoint{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"metric": name, "points": points})
	}

	fmt.Println(output.Section("Track: " + metricShortName(name)))
	fmt.Println()
	if len(points) == 0 {
		fmt.Println(" No values recorded yet.")
		return nil
	}

	var peak float64
	for _, p := range points {
		peak = max(peak, p.Value)
	}
	tbl := output.NewTable("#", "Taken", "Range", "Value", "")
	for _, p := range points {
		tbl.AddRow(
			fmt.Sprint(p.SnapshotID),
			output.Ago(p.TakenAt),
			p.Label,
			output.Decimal(p.Value, 1),
			output.Bar(p.Value, peak, 20),
		)
	}
	tbl.Print()
	return nil
}

// staleCacheAge is how long cached recaps are kept before 'track' prunes them.
const staleCacheAge = 90 * 24 * time.Hour
