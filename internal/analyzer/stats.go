package analyzer

// Stats is the immutable recap snapshot produced by Process. Minute fields
// without a fractional counterpart are rounded to the nearest minute.
type Stats struct {
	SchemaVersion int `json:"schema_version"`

	// Total library time, from raw (unmerged) sessions.
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	Analogy      string  `json:"analogy"`

	// TotalSessions counts merged visits.
	TotalSessions int `json:"total_sessions"`

	LongestSessionMinutes int     `json:"longest_session_minutes"`
	LongestSessionHours   float64 `json:"longest_session_hours"`
	LongestSessionDate    string  `json:"longest_session_date"`

	AverageSessionMinutes int     `json:"average_session_minutes"`
	AverageSessionHours   float64 `json:"average_session_hours"`

	LongestVisitStreakDays int `json:"longest_visit_streak_days"`
	LongestAwayStreakDays  int `json:"longest_away_streak_days"`
	DatasetSpanDays        int `json:"dataset_span_days"`

	EarliestArrival             string `json:"earliest_arrival"`
	EarliestArrivalLabel        string `json:"earliest_arrival_label"`
	LatestDeparture             string `json:"latest_departure"`
	LatestDepartureLabel        string `json:"latest_departure_label"`
	LatestDeparturePostMidnight bool   `json:"latest_departure_post_midnight"`

	// LatestDepartureEntryDate is the day the latest visit started, set only
	// when that visit ran past midnight.
	LatestDepartureEntryDate string `json:"latest_departure_entry_date,omitempty"`

	WeekdayTotals []WeekdayTotal  `json:"weekday_totals"`
	MostDay       string          `json:"most_day"`
	LeastDay      string          `json:"least_day"`
	DayOfWeek     []DayOfWeekStat `json:"day_of_week"`

	MonthTotals []MonthTotal `json:"month_totals"`

	Terms              []TermBreakdown `json:"terms"`
	OutsideTermMinutes int             `json:"outside_term_minutes"`
	OutsideTermHours   float64         `json:"outside_term_hours"`

	VisitTypes VisitTypes  `json:"visit_types"`
	NoSeat     NoSeatStats `json:"no_seat"`
	Orphans    OrphanStats `json:"orphans"`

	TopSessions []TopSession `json:"top_sessions"`
	TopStreaks  []Streak     `json:"top_streaks"`
	BestStreak  Streak       `json:"best_streak"`

	Hourly     []HourStat  `json:"hourly"`
	PeakWindow PeakWindow  `json:"peak_window"`
	Monthly    []MonthStat `json:"monthly"`

	// Debug is populated only when Config.Debug is set.
	Debug *DebugTotals `json:"debug,omitempty"`
}

// Empty reports whether the snapshot was built from zero sessions.
func (s *Stats) Empty() bool {
	return s.Orphans.RawSessions == 0
}

// WeekdayTotal is the time spent on one day of the week.
type WeekdayTotal struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// DayOfWeekStat is the chart row for one day of the week.
type DayOfWeekStat struct {
	Day            string  `json:"day"`
	Minutes        int     `json:"minutes"`
	VisitDays      int     `json:"visit_days"`
	AverageMinutes int     `json:"average_minutes"`
	SharePercent   float64 `json:"share_percent"`
}

// MonthTotal is the time spent in one calendar month (YYYY-MM).
type MonthTotal struct {
	Month   string `json:"month"`
	Minutes int    `json:"minutes"`
}

// MonthStat is the chart row for one month.
type MonthStat struct {
	Label    string `json:"label"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

// TermBreakdown summarises library use within one term.
type TermBreakdown struct {
	Name        string  `json:"name"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Minutes     int     `json:"minutes"`
	Hours       float64 `json:"hours"`
	VisitedDays int     `json:"visited_days"`
	TotalDays   int     `json:"total_days"`
	Consistency float64 `json:"consistency"`
	Style       string  `json:"style"`
}

// VisitTypes is the histogram of merged visits by length.
type VisitTypes struct {
	Quick    int `json:"quick"`    // < 1h
	Standard int `json:"standard"` // 1-3h
	Long     int `json:"long"`     // 3-6h
	Marathon int `json:"marathon"` // >= 6h
}

// NoSeatStats splits raw sessions into very short "no seat" visits and the rest.
type NoSeatStats struct {
	MaxMinutes    float64 `json:"max_minutes"`
	Count         int     `json:"count"`
	SharePct      float64 `json:"share_pct"`
	TotalMinutes  int     `json:"total_minutes"`
	TotalHours    float64 `json:"total_hours"`
	SeatedCount   int     `json:"seated_count"`
	SeatedMinutes int     `json:"seated_minutes"`
	SeatedHours   float64 `json:"seated_hours"`
}

// OrphanStats reports swipes that could not be paired.
type OrphanStats struct {
	OrphanExit             int `json:"orphan_exit"`
	OrphanEntryOverwritten int `json:"orphan_entry_overwritten"`
	OrphanEntryAtEnd       int `json:"orphan_entry_at_end"`
	RawSessions            int `json:"raw_sessions"`
	MergedSessions         int `json:"merged_sessions"`
}

// TopSession is one of the longest merged visits.
type TopSession struct {
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Minutes int    `json:"minutes"`
}

// EmptyStats is the snapshot for a dataset with no complete sessions.
func EmptyStats(cfg Config) *Stats {
	return &Stats{
		SchemaVersion: SchemaVersion,
		WeekdayTotals: []WeekdayTotal{},
		DayOfWeek:     []DayOfWeekStat{},
		MonthTotals:   []MonthTotal{},
		Terms:         []TermBreakdown{},
		NoSeat:        NoSeatStats{MaxMinutes: cfg.NoSeatMaxMinutes},
		TopSessions:   []TopSession{},
		TopStreaks:    []Streak{},
		Hourly:        []HourStat{},
		PeakWindow:    PeakWindow{StartHour: 0, EndHour: peakWindowHours},
		Monthly:       []MonthStat{},
	}
}
