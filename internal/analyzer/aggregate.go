package analyzer

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	topSessionCount = 5

	// OutsideTermLabel names the bucket for days not covered by any term.
	OutsideTermLabel = "Outside term time"
)

// weekOrder is the display order for weekday breakdowns.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Process runs the whole pipeline over one user's swipe history:
// normalise, pair, merge, split by day and hour, then aggregate. Only an
// unusable configuration is an error; dirty records are filtered and a
// history without a single complete session yields EmptyStats.
func Process(records []RawSwipe, cfg Config, terms []Term) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	paired := PairSessions(NormalizeSwipes(records))
	if len(paired.Sessions) == 0 {
		s := EmptyStats(cfg)
		s.Orphans = OrphanStats{
			OrphanExit:             paired.OrphanExit,
			OrphanEntryOverwritten: paired.OrphanEntryOverwritten,
			OrphanEntryAtEnd:       paired.OrphanEntryAtEnd,
		}
		return s, nil
	}
	return aggregate(paired, cfg, terms), nil
}

func aggregate(paired PairResult, cfg Config, terms []Term) *Stats {
	raw := paired.Sessions
	merged := MergeSessions(raw, cfg.mergeGap())

	rawTotal := sumDurations(raw)
	mergedTotal := sumDurations(merged)

	daily := DailyTotals(raw)
	visited := daily.VisitedDays()
	streaks := DetectStreaks(visited)
	topStreaks := streaks.Top(topStreakCount)

	longest := longestSession(merged)
	avg := mergedTotal / time.Duration(len(merged))

	earliest := earliestArrival(raw)
	latest := latestDeparture(merged)

	weekdays := bucketByWeekday(daily)
	weekdayRows := weekdayTotals(weekdays)
	months := bucketByMonth(daily)
	termRows, termTotal, outside := termBreakdown(daily, visited, terms)

	hours := HourlyDistribution(raw)
	shares := HourlyShares(hours)

	s := &Stats{
		SchemaVersion: SchemaVersion,

		TotalMinutes:  roundMinutes(rawTotal),
		TotalHours:    rawTotal.Hours(),
		Analogy:       analogy(rawTotal),
		TotalSessions: len(merged),

		LongestSessionMinutes: roundMinutes(longest.Duration),
		LongestSessionHours:   longest.Duration.Hours(),
		LongestSessionDate:    dateKey(longest.Entry),
		AverageSessionMinutes: roundMinutes(avg),
		AverageSessionHours:   avg.Hours(),

		LongestVisitStreakDays: streaks.LongestVisit,
		LongestAwayStreakDays:  streaks.LongestAway,
		DatasetSpanDays:        streaks.SpanDays,

		EarliestArrival:             formatHHMM(earliest),
		EarliestArrivalLabel:        arrivalLabel(earliest),
		LatestDeparture:             formatHHMM(latest.minute),
		LatestDepartureLabel:        departureLabel(latest.minute),
		LatestDeparturePostMidnight: latest.postMidnight,

		WeekdayTotals: weekdayRows,
		DayOfWeek:     dayOfWeekStats(daily, weekdays),
		MonthTotals:   monthTotals(months),

		Terms:              termRows,
		OutsideTermMinutes: roundMinutes(outside),
		OutsideTermHours:   outside.Hours(),

		VisitTypes: visitTypes(merged),
		NoSeat:     noSeatStats(raw, cfg),
		Orphans: OrphanStats{
			OrphanExit:             paired.OrphanExit,
			OrphanEntryOverwritten: paired.OrphanEntryOverwritten,
			OrphanEntryAtEnd:       paired.OrphanEntryAtEnd,
			RawSessions:            len(raw),
			MergedSessions:         len(merged),
		},

		TopSessions: topSessions(merged),
		TopStreaks:  topStreaks,
		BestStreak:  bestStreak(topStreaks, visited),

		Hourly:     hourlyStats(hours, shares),
		PeakWindow: DetectPeakWindow(shares),
		Monthly:    monthlyStats(months, merged),
	}
	if latest.postMidnight {
		s.LatestDepartureEntryDate = dateKey(latest.entry)
	}
	s.MostDay, s.LeastDay = mostAndLeastDay(weekdayRows)

	if cfg.Debug {
		s.Debug = &DebugTotals{
			RawMinutes:        rawTotal.Minutes(),
			MergedMinutes:     mergedTotal.Minutes(),
			DailySplitMinutes: daily.Total().Minutes(),
			WeekdaySumMinutes: sumBuckets(weekdays).Minutes(),
			MonthSumMinutes:   sumBuckets(months).Minutes(),
			TermSumMinutes:    (termTotal + outside).Minutes(),
		}
	}
	return s
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

func analogy(total time.Duration) string {
	h := total.Hours()
	return fmt.Sprintf("~%.2f× 8-hour days, or ~%.2f× 40-hour work weeks", h/8, h/40)
}

// longestSession returns the first session with the greatest duration.
func longestSession(sessions []Session) Session {
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.Duration > best.Duration {
			best = s
		}
	}
	return best
}

func earliestArrival(sessions []Session) int {
	earliest := minuteOfDay(sessions[0].Entry)
	for _, s := range sessions[1:] {
		if m := minuteOfDay(s.Entry); m < earliest {
			earliest = m
		}
	}
	return earliest
}

type departure struct {
	entry        time.Time
	minute       int
	postMidnight bool
}

// latestDeparture prefers visits that ran past midnight, then the latest
// clock time. Earlier visits win exact ties.
func latestDeparture(sessions []Session) departure {
	pick := func(s Session) departure {
		return departure{entry: s.Entry, minute: minuteOfDay(s.Exit), postMidnight: crossesMidnight(s)}
	}
	best := pick(sessions[0])
	for _, s := range sessions[1:] {
		d := pick(s)
		switch {
		case d.postMidnight && !best.postMidnight:
			best = d
		case d.postMidnight == best.postMidnight && d.minute > best.minute:
			best = d
		}
	}
	return best
}

func arrivalLabel(minute int) string {
	switch {
	case minute <= 8*60:
		return "early bird"
	case minute >= 11*60:
		return "late starter"
	default:
		return "regular"
	}
}

func departureLabel(minute int) string {
	switch {
	case minute >= 23*60:
		return "night owl"
	case minute <= 18*60:
		return "early finisher"
	default:
		return "regular"
	}
}

func sumBuckets[K comparable](m map[K]time.Duration) time.Duration {
	var total time.Duration
	for _, v := range m {
		total += v
	}
	return total
}

func bucketByWeekday(daily DailyMinutes) map[time.Weekday]time.Duration {
	out := make(map[time.Weekday]time.Duration, 7)
	for key, d := range daily {
		out[parseDateKey(key).Weekday()] += d
	}
	return out
}

func weekdayTotals(buckets map[time.Weekday]time.Duration) []WeekdayTotal {
	rows := make([]WeekdayTotal, len(weekOrder))
	for i, wd := range weekOrder {
		rows[i] = WeekdayTotal{Day: wd.String(), Minutes: roundMinutes(buckets[wd])}
	}
	return rows
}

// mostAndLeastDay returns the first weekday (Monday first) holding the
// maximum and the minimum rounded total.
func mostAndLeastDay(rows []WeekdayTotal) (most, least string) {
	hi, lo := rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.Minutes > hi.Minutes {
			hi = r
		}
		if r.Minutes < lo.Minutes {
			lo = r
		}
	}
	return hi.Day, lo.Day
}

func dayOfWeekStats(daily DailyMinutes, buckets map[time.Weekday]time.Duration) []DayOfWeekStat {
	visits := make(map[time.Weekday]int, 7)
	for key, d := range daily {
		if d > 0 {
			visits[parseDateKey(key).Weekday()]++
		}
	}
	total := sumBuckets(buckets)

	rows := make([]DayOfWeekStat, len(weekOrder))
	for i, wd := range weekOrder {
		d := buckets[wd]
		row := DayOfWeekStat{
			Day:       wd.String()[:3],
			Minutes:   roundMinutes(d),
			VisitDays: visits[wd],
		}
		if row.VisitDays > 0 {
			row.AverageMinutes = roundMinutes(d / time.Duration(row.VisitDays))
		}
		if total > 0 {
			row.SharePercent = math.Round(float64(d)/float64(total)*1000) / 10
		}
		rows[i] = row
	}
	return rows
}

func bucketByMonth(daily DailyMinutes) map[string]time.Duration {
	out := make(map[string]time.Duration)
	for key, d := range daily {
		out[key[:len(monthLayout)]] += d
	}
	return out
}

func monthTotals(buckets map[string]time.Duration) []MonthTotal {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]MonthTotal, len(keys))
	for i, k := range keys {
		rows[i] = MonthTotal{Month: k, Minutes: roundMinutes(buckets[k])}
	}
	return rows
}

func monthlyStats(buckets map[string]time.Duration, merged []Session) []MonthStat {
	sessions := make(map[string]int)
	for _, s := range merged {
		sessions[monthKey(s.Entry)]++
	}

	totals := monthTotals(buckets)
	rows := make([]MonthStat, len(totals))
	for i, m := range totals {
		label := m.Month
		if t, err := time.Parse(monthLayout, m.Month); err == nil {
			label = t.Format("Jan 2006")
		}
		rows[i] = MonthStat{Label: label, Minutes: m.Minutes, Sessions: sessions[m.Month]}
	}
	return rows
}

// TermFor returns the first term containing day, or false when the day is
// outside every term.
func TermFor(day time.Time, terms []Term) (Term, bool) {
	for _, t := range terms {
		if t.Contains(day) {
			return t, true
		}
	}
	return Term{}, false
}

// termBreakdown assigns each day's time to the first matching term. It also
// returns the summed in-term time and the outside-term time.
func termBreakdown(daily DailyMinutes, visited []time.Time, terms []Term) ([]TermBreakdown, time.Duration, time.Duration) {
	inTerm := make(map[string]time.Duration, len(terms))
	var inTotal, outside time.Duration
	for key, d := range daily {
		t, ok := TermFor(parseDateKey(key), terms)
		if !ok {
			outside += d
			continue
		}
		inTerm[t.Name] += d
		inTotal += d
	}

	rows := make([]TermBreakdown, 0, len(terms))
	for _, t := range terms {
		visitedDays := 0
		for _, day := range visited {
			if t.Contains(day) {
				visitedDays++
			}
		}
		total := t.Days()
		var consistency float64
		if total > 0 {
			consistency = float64(visitedDays) / float64(total)
		}
		d := inTerm[t.Name]
		rows = append(rows, TermBreakdown{
			Name:        t.Name,
			Start:       dateKey(t.Start),
			End:         dateKey(t.End),
			Minutes:     roundMinutes(d),
			Hours:       d.Hours(),
			VisitedDays: visitedDays,
			TotalDays:   total,
			Consistency: consistency,
			Style:       StudyStyle(d.Hours(), consistency),
		})
	}
	return rows, inTotal, outside
}

// StudyStyle labels a term from its total hours and the fraction of its days
// with a visit.
func StudyStyle(hours, consistency float64) string {
	switch {
	case hours >= 60 && consistency < 0.35:
		return "crammer (high hours, low consistency)"
	case hours >= 25 && hours < 60 && consistency >= 0.45:
		return "steady grinder (medium hours, high consistency)"
	case hours >= 60 && consistency >= 0.45:
		return "machine (high hours, high consistency)"
	case hours < 25 && consistency < 0.35:
		return "dabbler (low hours, low consistency)"
	default:
		return "mixed"
	}
}

func visitTypes(merged []Session) VisitTypes {
	var v VisitTypes
	for _, s := range merged {
		switch m := s.Minutes(); {
		case m < 60:
			v.Quick++
		case m < 180:
			v.Standard++
		case m < 360:
			v.Long++
		default:
			v.Marathon++
		}
	}
	return v
}

func noSeatStats(raw []Session, cfg Config) NoSeatStats {
	limit := cfg.noSeatMax()
	var (
		count, seated       int
		short, seatedMinute time.Duration
	)
	for _, s := range raw {
		if s.Duration <= limit {
			count++
			short += s.Duration
			continue
		}
		seated++
		seatedMinute += s.Duration
	}
	return NoSeatStats{
		MaxMinutes:    cfg.NoSeatMaxMinutes,
		Count:         count,
		SharePct:      float64(count) / float64(len(raw)) * 100,
		TotalMinutes:  roundMinutes(short),
		TotalHours:    short.Hours(),
		SeatedCount:   seated,
		SeatedMinutes: roundMinutes(seatedMinute),
		SeatedHours:   seatedMinute.Hours(),
	}
}

// topSessions returns the longest merged visits; equal lengths keep
// chronological order.
func topSessions(merged []Session) []TopSession {
	sorted := make([]Session, len(merged))
	copy(sorted, merged)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})
	if len(sorted) > topSessionCount {
		sorted = sorted[:topSessionCount]
	}

	rows := make([]TopSession, len(sorted))
	for i, s := range sorted {
		rows[i] = TopSession{
			Date:    dateKey(s.Entry),
			Start:   formatHHMM(minuteOfDay(s.Entry)),
			End:     formatHHMM(minuteOfDay(s.Exit)),
			Minutes: roundMinutes(s.Duration),
		}
	}
	return rows
}

// bestStreak is the longest recorded streak, or a one-day streak on the
// first visit when no two visited days are adjacent.
func bestStreak(top []Streak, visited []time.Time) Streak {
	if len(top) > 0 {
		return top[0]
	}
	if len(visited) == 0 {
		return Streak{}
	}
	day := dateKey(visited[0])
	return Streak{Days: 1, Start: day, End: day}
}
