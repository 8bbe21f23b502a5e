package app

import (
	"fmt"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/output"
)

func renderStats(source, rangeLabel string, s *analyzer.Stats) {
	title := "Library Recap"
	if rangeLabel != "" {
		title += " · " + rangeLabel
	}
	fmt.Println(output.Section(title))
	fmt.Printf(" %s\n", output.StyleMuted.Render(source))

	if s.Empty() {
		fmt.Println()
		fmt.Println(" No library visits in this period.")
		renderDataQuality(s)
		return
	}

	renderOverview(s)
	renderStreaks(s)
	renderTimeOfDay(s)
	renderWeekdays(s)
	renderMonths(s)
	renderTerms(s)
	renderVisitTypes(s)
	renderTopSessions(s)
	renderDataQuality(s)
	if s.Debug != nil {
		renderDebug(s.Debug)
	}
}

func renderOverview(s *analyzer.Stats) {
	fmt.Println(output.Section("Overview"))
	fmt.Println(output.KeyValue("Time in the library", output.Duration(s.TotalMinutes)))
	fmt.Printf(" %s\n", output.StyleMuted.Render(s.Analogy))
	fmt.Println(output.KeyValue("Visits", output.Number(s.TotalSessions)))
	fmt.Println(output.KeyValue("Longest visit", fmt.Sprintf("%s on %s", output.Duration(s.LongestSessionMinutes), s.LongestSessionDate)))
	fmt.Println(output.KeyValue("Average visit", output.Duration(s.AverageSessionMinutes)))
}

func renderStreaks(s *analyzer.Stats) {
	fmt.Println(output.Section("Streaks"))
	fmt.Println(output.KeyValue("Longest visit streak", plural(s.LongestVisitStreakDays, "day")))
	fmt.Println(output.KeyValue("Longest time away", plural(s.LongestAwayStreakDays, "day")))
	fmt.Println(output.KeyValue("Dataset span", plural(s.DatasetSpanDays, "day")))

	if len(s.TopStreaks) == 0 {
		return
	}
	fmt.Println()
	tbl := output.NewTable("", "Days", "From", "To")
	for i, st := range s.TopStreaks {
		tbl.AddRow(output.Ordinal(i+1), fmt.Sprint(st.Days), st.Start, st.End)
	}
	tbl.Print()
}

func renderTimeOfDay(s *analyzer.Stats) {
	fmt.Println(output.Section("Time of Day"))

	arrival := s.EarliestArrival + " (" + s.EarliestArrivalLabel + ")"
	departure := s.LatestDeparture + " (" + s.LatestDepartureLabel + ")"
	if s.LatestDeparturePostMidnight {
		departure += ", after midnight from " + s.LatestDepartureEntryDate
	}
	fmt.Println(output.KeyValue("Earliest arrival", arrival))
	fmt.Println(output.KeyValue("Latest departure", departure))

	pw := s.PeakWindow
	fmt.Println(output.KeyValue("Peak hours", fmt.Sprintf("%s (%.0f%% of your time)", pw.DisplayRange, pw.Share*100)))
	fmt.Println(output.KeyValue("Study persona", output.StyleAccent.Render(pw.Persona)))
	fmt.Println()

	var peak float64
	for _, h := range s.Hourly {
		peak = max(peak, h.Share)
	}
	for _, h := range s.Hourly {
		if h.TotalMinutes == 0 {
			continue
		}
		fmt.Printf(" %02d:00  %s %s\n", h.Hour, output.Bar(h.Share, peak, 30), output.StyleMuted.Render(output.Duration(h.TotalMinutes)))
	}
}

func renderWeekdays(s *analyzer.Stats) {
	fmt.Println(output.Section("Days of the Week"))

	var most int
	for _, d := range s.DayOfWeek {
		most = max(most, d.Minutes)
	}
	tbl := output.NewTable("Day", "Time", "Visit days", "Avg / day", "Share", "")
	for _, d := range s.DayOfWeek {
		tbl.AddRow(
			d.Day,
			output.Duration(d.Minutes),
			fmt.Sprint(d.VisitDays),
			output.Duration(d.AverageMinutes),
			fmt.Sprintf("%.1f%%", d.SharePercent),
			output.Bar(float64(d.Minutes), float64(most), 20),
		)
	}
	tbl.AddSeparator()
	tbl.AddRow("Most", s.MostDay)
	tbl.AddRow("Least", s.LeastDay)
	tbl.Print()
}

func renderMonths(s *analyzer.Stats) {
	fmt.Println(output.Section("Months"))

	var most int
	for _, m := range s.Monthly {
		most = max(most, m.Minutes)
	}
	tbl := output.NewTable("Month", "Time", "Visits", "")
	for _, m := range s.Monthly {
		tbl.AddRow(m.Label, output.Duration(m.Minutes), fmt.Sprint(m.Sessions), output.Bar(float64(m.Minutes), float64(most), 24))
	}
	tbl.Print()
}

func renderTerms(s *analyzer.Stats) {
	if len(s.Terms) == 0 {
		return
	}
	fmt.Println(output.Section("Terms"))

	tbl := output.NewTable("Term", "Dates", "Time", "Days visited", "Consistency", "Style")
	for _, t := range s.Terms {
		tbl.AddRow(
			t.Name,
			t.Start+" – "+t.End,
			output.Duration(t.Minutes),
			fmt.Sprintf("%d / %d", t.VisitedDays, t.TotalDays),
			output.ShareBar(t.Consistency, 10),
			t.Style,
		)
	}
	tbl.AddSeparator()
	tbl.AddRow(analyzer.OutsideTermLabel, "", output.Duration(s.OutsideTermMinutes))
	tbl.Print()
}

func renderVisitTypes(s *analyzer.Stats) {
	fmt.Println(output.Section("Visit Types"))

	v := s.VisitTypes
	tbl := output.NewTable("Type", "Length", "Visits")
	tbl.AddRow("Quick", "< 1 hour", fmt.Sprint(v.Quick))
	tbl.AddRow("Standard", "1-3 hours", fmt.Sprint(v.Standard))
	tbl.AddRow("Long", "3-6 hours", fmt.Sprint(v.Long))
	tbl.AddRow("Locked in", "6+ hours", fmt.Sprint(v.Marathon))
	tbl.Print()

	ns := s.NoSeat
	fmt.Println()
	fmt.Println(output.KeyValue("No seat found", fmt.Sprintf("%d visits (%.1f%%) under %s", ns.Count, ns.SharePct, output.Duration(int(ns.MaxMinutes)))))
	fmt.Println(output.KeyValue("Time lost looking", output.Duration(ns.TotalMinutes)))
	fmt.Println(output.KeyValue("Seated visits", fmt.Sprintf("%d, %s", ns.SeatedCount, output.Duration(ns.SeatedMinutes))))
}

func renderTopSessions(s *analyzer.Stats) {
	fmt.Println(output.Section("Longest Visits"))
	tbl := output.NewTable("", "Date", "From", "To", "Length")
	for i, ts := range s.TopSessions {
		tbl.AddRow(output.Ordinal(i+1), ts.Date, ts.Start, ts.End, output.Duration(ts.Minutes))
	}
	tbl.Print()
}

func renderDataQuality(s *analyzer.Stats) {
	o := s.Orphans
	if o.OrphanExit+o.OrphanEntryOverwritten+o.OrphanEntryAtEnd == 0 && !flagVerbose {
		return
	}
	fmt.Println(output.Section("Data Quality"))
	fmt.Println(output.KeyValue("Exits with no entry", fmt.Sprint(o.OrphanExit)))
	fmt.Println(output.KeyValue("Entries never closed", fmt.Sprint(o.OrphanEntryOverwritten+o.OrphanEntryAtEnd)))
	fmt.Println(output.KeyValue("Raw / merged sessions", fmt.Sprintf("%d / %d", o.RawSessions, o.MergedSessions)))
}

func renderDebug(d *analyzer.DebugTotals) {
	fmt.Println(output.Section("Debug Totals (minutes)"))
	rows := []struct {
		name  string
		value float64
	}{
		{"raw", d.RawMinutes},
		{"merged", d.MergedMinutes},
		{"daily split", d.DailySplitMinutes},
		{"weekday sum", d.WeekdaySumMinutes},
		{"month sum", d.MonthSumMinutes},
		{"term sum", d.TermSumMinutes},
	}
	for _, r := range rows {
		fmt.Println(output.KeyValue(r.name, output.Decimal(r.value, 2)))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%s %s", output.Number(n), unit+"s")
}

