package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/cache"
	"github.com/libster-app/libster/internal/config"
	"github.com/libster-app/libster/internal/store"
)

var (
	statsInputs inputFlags
	statsStrict bool
	statsCache  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats FILE",
	Short: "Recap library visits from a swipe export",
	Long: `Read a swipe export (CSV, JSON or JSON Lines with date, time and direction
columns), pair entries with exits, merge visits separated by short breaks,
and print the recap: totals, streaks, peak hours, weekday, month and term
breakdowns.

Records that cannot be parsed are skipped. Unpaired swipes are counted and
reported under "Data quality".`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsInputs.register(statsCmd)
	statsCmd.Flags().BoolVar(&statsStrict, "strict", false, "Exit non-zero if --debug totals disagree")
	statsCmd.Flags().BoolVar(&statsCache, "cache", false, "Reuse results stored in the local database")
	rootCmd.AddCommand(statsCmd)
}

// statsOutput is the JSON-serializable output for the stats command.
type statsOutput struct {
	Source string          `json:"source"`
	Range  string          `json:"range,omitempty"`
	Cached bool            `json:"cached"`
	Stats  *analyzer.Stats `json:"stats"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, j, err := statsInputs.resolve(cmd)
	if err != nil {
		return err
	}

	records, err := statsInputs.readSwipes(args[0], j)
	if err != nil {
		return err
	}

	stats, cached, err := computeStats(cfg, j, records, statsCache)
	if err != nil {
		return err
	}

	if err := checkInvariants(args[0], stats); err != nil && statsStrict {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statsOutput{Source: args[0], Range: j.window.Label, Cached: cached, Stats: stats})
	}

	renderStats(args[0], j.window.Label, stats)
	return nil
}

// computeStats runs the engine, going through the persistent cache when
// useCache is set. A cache that cannot be opened is skipped with a warning.
func computeStats(cfg *config.Config, j *job, records []analyzer.RawSwipe, useCache bool) (*analyzer.Stats, bool, error) {
	if !useCache {
		s, err := analyzer.Process(records, j.engine, j.terms)
		return s, false, err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Printf("Warning: stats cache unavailable: %v", err)
		s, err := analyzer.Process(records, j.engine, j.terms)
		return s, false, err
	}
	defer func() { _ = db.Close() }()

	return cache.New(db).Process(records, j.engine, j.terms)
}

// checkInvariants logs any disagreement between the debug totals. It
// returns the violation so --strict can fail the command.
func checkInvariants(source string, s *analyzer.Stats) error {
	if s.Debug == nil {
		return nil
	}
	err := s.Debug.Check(analyzer.DefaultTolerance)
	if err == nil {
		if flagVerbose {
			fmt.Fprintf(os.Stderr, "%s: debug totals agree (%.2f minutes)\n", source, s.Debug.RawMinutes)
		}
		return nil
	}

	var inv *analyzer.InvariantError
	if errors.As(err, &inv) {
		log.Printf("Warning: %s: invariant violation: %v", source, inv)
	}
	return fmt.Errorf("%s: %w", source, err)
}
