package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/output"
)

var (
	sessionsInputs    inputFlags
	sessionsFlagSort  string
	sessionsFlagLimit int
	sessionsFlagRaw   bool
	sessionsFlagDay   string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions FILE",
	Short: "List individual library visits",
	Long: `List the visits reconstructed from a swipe export, after pairing and
merging. Useful for checking how entries and exits were matched or where a
long day went.

Examples:
  libster sessions swipes.csv                    # most recent visits
  libster sessions swipes.csv --sort duration    # longest first
  libster sessions swipes.csv --raw              # before merging short breaks
  libster sessions swipes.csv --day 2025-03-14   # time attributed to one day`,
	Args: cobra.ExactArgs(1),
	RunE: runSessions,
}

func init() {
	sessionsInputs.register(sessionsCmd)
	sessionsCmd.Flags().StringVar(&sessionsFlagSort, "sort", "recent", "Sort by: recent, duration, oldest")
	sessionsCmd.Flags().IntVar(&sessionsFlagLimit, "limit", 15, "Maximum visits to display (0 = all)")
	sessionsCmd.Flags().BoolVar(&sessionsFlagRaw, "raw", false, "Show entry/exit pairs before merging")
	sessionsCmd.Flags().StringVar(&sessionsFlagDay, "day", "", "Only visits that touch this day (YYYY-MM-DD)")
	rootCmd.AddCommand(sessionsCmd)
}

// sessionRow is one visit as listed by the sessions command.
type sessionRow struct {
	Entry     time.Time `json:"entry"`
	Exit      time.Time `json:"exit"`
	Minutes   float64   `json:"minutes"`
	Breaks    float64   `json:"break_minutes"`
	Midnights int       `json:"midnights"`

	// DayMinutes is set with --day: the part of the visit on that day.
	DayMinutes *float64 `json:"day_minutes,omitempty"`
}

func runSessions(cmd *cobra.Command, args []string) error {
	_, j, err := sessionsInputs.resolve(cmd)
	if err != nil {
		return err
	}

	records, err := sessionsInputs.readSwipes(args[0], j)
	if err != nil {
		return err
	}

	visits := buildVisits(records, j.engine, sessionsFlagRaw)

	var day string
	if sessionsFlagDay != "" {
		d, err := time.Parse(analyzer.DateLayout, sessionsFlagDay)
		if err != nil {
			return fmt.Errorf("invalid --day %q: want YYYY-MM-DD", sessionsFlagDay)
		}
		day = d.Format(analyzer.DateLayout)
	}

	rows := sessionRows(visits, day)
	if len(rows) == 0 {
		if flagJSON {
			fmt.Println("[]")
			return nil
		}
		fmt.Println(" No visits found matching filters.")
		return nil
	}

	if err := sortSessionRows(rows, sessionsFlagSort); err != nil {
		return err
	}
	if sessionsFlagLimit > 0 && len(rows) > sessionsFlagLimit {
		rows = rows[:sessionsFlagLimit]
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	renderSessions(rows, day)
	return nil
}

// buildVisits runs the pipeline up to merging.
func buildVisits(records []analyzer.RawSwipe, cfg analyzer.Config, raw bool) []analyzer.Session {
	paired := analyzer.PairSessions(analyzer.NormalizeSwipes(records))
	if raw {
		return paired.Sessions
	}
	gap := time.Duration(cfg.MergeGapMinutes * float64(time.Minute))
	return analyzer.MergeSessions(paired.Sessions, gap)
}

// sessionRows converts visits to rows. When day is set only visits that put
// time on that day are kept.
func sessionRows(visits []analyzer.Session, day string) []sessionRow {
	var rows []sessionRow
	for _, v := range visits {
		parts := analyzer.SplitByDay(v)
		row := sessionRow{
			Entry:     v.Entry,
			Exit:      v.Exit,
			Minutes:   v.Minutes(),
			Breaks:    (v.Exit.Sub(v.Entry) - v.Duration).Minutes(),
			Midnights: len(parts) - 1,
		}
		if day != "" {
			var on time.Duration
			for _, p := range parts {
				if p.Key == day {
					on += p.Duration
				}
			}
			if on == 0 {
				continue
			}
			m := on.Minutes()
			row.DayMinutes = &m
		}
		rows = append(rows, row)
	}
	return rows
}

func sortSessionRows(rows []sessionRow, key string) error {
	switch key {
	case "duration":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Minutes > rows[j].Minutes
		})
	case "oldest":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Entry.Before(rows[j].Entry)
		})
	case "recent", "":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Entry.After(rows[j].Entry)
		})
	default:
		return fmt.Errorf("unknown sort %q: want recent, duration or oldest", key)
	}
	return nil
}

func renderSessions(rows []sessionRow, day string) {
	title := "Visits"
	if sessionsFlagRaw {
		title = "Visits (unmerged)"
	}
	fmt.Println(output.Section(title))
	fmt.Println()

	headers := []string{"Entry", "Exit", "Length", "Breaks"}
	if day != "" {
		headers = append(headers, "On "+day)
	}
	tbl := output.NewTable(headers...)
	for _, r := range rows {
		exit := r.Exit.Format("15:04")
		if r.Midnights > 0 {
			exit = r.Exit.Format("2006-01-02 15:04")
		}
		breaks := ""
		if r.Breaks > 0 {
			breaks = output.StyleMuted.Render(output.Duration(int(r.Breaks + 0.5)))
		}
		cells := []string{
			r.Entry.Format("2006-01-02 15:04"),
			exit,
			output.Duration(int(r.Minutes + 0.5)),
			breaks,
		}
		if r.DayMinutes != nil {
			cells = append(cells, output.Duration(int(*r.DayMinutes+0.5)))
		}
		tbl.AddRow(cells...)
	}
	tbl.Print()
}
