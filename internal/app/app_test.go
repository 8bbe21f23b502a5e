package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/store"
	"github.com/libster-app/libster/internal/terms"
)

func TestCommands_Registered(t *testing.T) {
	want := map[string]bool{
		"stats": false, "ranges": false, "track": false, "batch": false,
		"sessions": false, "watch": false, "doctor": false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestPresetYear(t *testing.T) {
	ts := terms.DefaultTerms()

	assert.Equal(t, 2023, presetYear(2023, ts), "explicit flag wins")
	assert.Equal(t, 2025, presetYear(0, ts), "year of the last term")
	assert.Equal(t, time.Now().Year(), presetYear(0, nil), "falls back to now")
}

func TestWindow_Range(t *testing.T) {
	f := inputFlags{rangeName: "summer 2025"}

	w, err := f.window(terms.DefaultTerms())
	require.NoError(t, err)
	assert.Equal(t, "Summer 2025", w.Label)
	assert.Equal(t, "2025-04-26", w.From.Format(analyzer.DateLayout))
	assert.Equal(t, "2025-06-27", w.To.Format(analyzer.DateLayout))
}

func TestWindow_FullYearWithOverride(t *testing.T) {
	f := inputFlags{rangeName: "2025 (Full)", to: "2025-06-30"}

	w, err := f.window(terms.DefaultTerms())
	require.NoError(t, err)
	assert.Equal(t, "2025 (Full)", w.Label)
	assert.Equal(t, "2025-01-01", w.From.Format(analyzer.DateLayout))
	assert.Equal(t, "2025-06-30", w.To.Format(analyzer.DateLayout))
}

func TestWindow_Dates(t *testing.T) {
	f := inputFlags{from: "2025-02-01"}

	w, err := f.window(nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01 – …", w.Label)
	assert.True(t, w.To.IsZero())
}

func TestWindow_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags inputFlags
	}{
		{"unknown range", inputFlags{rangeName: "Winter 1999"}},
		{"bad from", inputFlags{from: "01/02/2025"}},
		{"bad to", inputFlags{to: "tomorrow"}},
		{"reversed", inputFlags{from: "2025-03-01", to: "2025-02-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.window(terms.DefaultTerms())
			assert.Error(t, err)
		})
	}
}

func TestWindow_Empty(t *testing.T) {
	w, err := (&inputFlags{}).window(terms.DefaultTerms())
	require.NoError(t, err)
	assert.Equal(t, terms.Range{}, w)
}

func TestComputeDeltas(t *testing.T) {
	prev := []store.AggregateMetric{
		{MetricName: "total_hours", MetricValue: 10},
		{MetricName: "orphan_swipes", MetricValue: 2},
		{MetricName: "total_sessions", MetricValue: 4},
	}
	curr := []store.AggregateMetric{
		{MetricName: "total_hours", MetricValue: 12.5},
		{MetricName: "orphan_swipes", MetricValue: 5},
		{MetricName: "total_sessions", MetricValue: 4},
		{MetricName: "marathon_sessions", MetricValue: 1},
	}

	deltas := computeDeltas(prev, curr)
	require.Len(t, deltas, 4)

	byName := make(map[string]store.MetricDelta)
	for _, d := range deltas {
		byName[d.Name] = d
	}

	assert.Equal(t, 2.5, byName["total_hours"].Delta)
	assert.Equal(t, "improved", byName["total_hours"].Direction)
	assert.Equal(t, "regressed", byName["orphan_swipes"].Direction, "more unpaired swipes is worse")
	assert.Equal(t, "unchanged", byName["total_sessions"].Direction)
	assert.Equal(t, 0.0, byName["marathon_sessions"].Previous, "new metric compares against zero")
	assert.Equal(t, "improved", byName["marathon_sessions"].Direction)
}

func TestBuildAggregateMetrics(t *testing.T) {
	s := &analyzer.Stats{
		TotalHours:             12.5,
		TotalSessions:          6,
		AverageSessionMinutes:  125,
		LongestVisitStreakDays: 3,
		Terms: []analyzer.TermBreakdown{
			{Consistency: 0.5},
			{Consistency: 0.25},
		},
		NoSeat:     analyzer.NoSeatStats{SharePct: 12.5},
		PeakWindow: analyzer.PeakWindow{Share: 0.4},
		Orphans: analyzer.OrphanStats{
			OrphanExit: 1, OrphanEntryAtEnd: 1,
			RawSessions: 8, MergedSessions: 6,
		},
	}

	m := buildAggregateMetrics(s)

	assert.Equal(t, 12.5, m["total_hours"])
	assert.Equal(t, 6.0, m["total_sessions"])
	assert.Equal(t, 125.0, m["avg_session_minutes"])
	assert.Equal(t, 3.0, m["longest_visit_streak"])
	assert.InDelta(t, 37.5, m["avg_term_consistency"], 1e-9)
	assert.InDelta(t, 40.0, m["peak_window_share"], 1e-9)
	assert.Equal(t, 2.0, m["orphan_swipes"])
	assert.Equal(t, 2.0, m["merged_session_reduction"])

	// Every stored metric has a display name and a direction.
	for _, name := range metricDisplayOrder {
		_, ok := m[name]
		assert.True(t, ok, "metric %s not built", name)
		_, ok = metricDirection[name]
		assert.True(t, ok, "metric %s has no direction", name)
		assert.NotEqual(t, name, metricShortName(name), "metric %s has no short name", name)
	}
	assert.Len(t, m, len(metricDisplayOrder))
}

func TestBuildAggregateMetrics_Empty(t *testing.T) {
	m := buildAggregateMetrics(analyzer.EmptyStats(analyzer.DefaultConfig()))
	assert.Equal(t, 0.0, m["avg_term_consistency"])
	assert.Equal(t, 0.0, m["total_hours"])
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 day", plural(1, "day"))
	assert.Equal(t, "0 days", plural(0, "day"))
	assert.Equal(t, "1,200 days", plural(1200, "day"))
}

func TestSaveSnapshot(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	good := &analyzer.Stats{
		TotalHours: 2,
		Debug:      &analyzer.DebugTotals{RawMinutes: 120, MergedMinutes: 120, DailySplitMinutes: 120, WeekdaySumMinutes: 120, MonthSumMinutes: 120, TermSumMinutes: 120},
	}
	id, err := saveSnapshot(db, &store.Snapshot{Command: "track", Source: "good.csv"}, good)
	require.NoError(t, err)

	metrics, err := db.GetAggregateMetrics(id)
	require.NoError(t, err)
	assert.Len(t, metrics, len(metricDisplayOrder))

	bad := &analyzer.Stats{
		TotalHours: 2,
		Debug:      &analyzer.DebugTotals{RawMinutes: 120, MergedMinutes: 120, DailySplitMinutes: 90, WeekdaySumMinutes: 120, MonthSumMinutes: 120, TermSumMinutes: 120},
	}
	_, err = saveSnapshot(db, &store.Snapshot{Command: "track", Source: "bad.csv"}, bad)
	require.Error(t, err)

	var inv *analyzer.InvariantError
	assert.ErrorAs(t, err, &inv)

	latest, err := db.GetLatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.ID, "the disagreeing recap was not stored")
}
