package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/config"
	"github.com/libster-app/libster/internal/output"
	"github.com/libster-app/libster/internal/swipes"
	"github.com/libster-app/libster/internal/terms"
)

// inputFlags are the flags shared by every command that runs the engine.
type inputFlags struct {
	from      string
	to        string
	rangeName string
	year      int
	termsFile string
	format    string
	noSeat    float64
	mergeGap  float64
	debug     bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "Only include swipes on or after this date (YYYY-MM-DD)")
	fl.StringVar(&f.to, "to", "", "Only include swipes on or before this date (YYYY-MM-DD)")
	fl.StringVar(&f.rangeName, "range", "", `Preset range label, e.g. "Spring 2025" (see 'libster ranges')`)
	fl.IntVar(&f.year, "year", 0, "Year for the full-year preset (default: year of the last term)")
	fl.StringVar(&f.termsFile, "terms", "", "Term calendar file (.yaml or .toml)")
	fl.StringVar(&f.format, "format", "", "Input format: csv, json or jsonl (default: from extension)")
	fl.Float64Var(&f.noSeat, "no-seat", analyzer.DefaultNoSeatMaxMinutes, "Max minutes for a visit to count as 'no seat'")
	fl.Float64Var(&f.mergeGap, "merge-gap", analyzer.DefaultMergeGapMinutes, "Join visits separated by at most this many minutes")
	fl.BoolVar(&f.debug, "debug", false, "Cross-check totals computed along every path")
}

// job is everything one engine call needs.
type job struct {
	engine analyzer.Config
	terms  []analyzer.Term
	window terms.Range
}

// resolve merges config file values with command-line overrides.
func (f *inputFlags) resolve(cmd *cobra.Command) (*config.Config, *job, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	output.SetWidth(cfg.Output.Width)
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}

	engine := cfg.EngineConfig()
	if cmd.Flags().Changed("no-seat") {
		engine.NoSeatMaxMinutes = f.noSeat
	}
	if cmd.Flags().Changed("merge-gap") {
		engine.MergeGapMinutes = f.mergeGap
	}
	if f.debug {
		engine.Debug = true
	}
	if err := engine.Validate(); err != nil {
		return nil, nil, err
	}

	if f.termsFile != "" {
		cfg.TermsFile = f.termsFile
	}
	ts, err := cfg.LoadTerms()
	if err != nil {
		return nil, nil, fmt.Errorf("loading terms: %w", err)
	}

	window, err := f.window(ts)
	if err != nil {
		return nil, nil, err
	}

	return cfg, &job{engine: engine, terms: ts, window: window}, nil
}

// window resolves --range, --from and --to. Explicit dates override the
// preset's bounds.
func (f *inputFlags) window(ts []analyzer.Term) (terms.Range, error) {
	var w terms.Range
	if f.rangeName != "" {
		presets := terms.Ranges(presetYear(f.year, ts), ts)
		r, ok := terms.FindRange(presets, f.rangeName)
		if !ok {
			return w, fmt.Errorf("unknown range %q (see 'libster ranges')", f.rangeName)
		}
		w = r
	}
	if f.from != "" {
		d, err := time.Parse(analyzer.DateLayout, f.from)
		if err != nil {
			return w, fmt.Errorf("invalid --from %q: want YYYY-MM-DD", f.from)
		}
		w.From = d
	}
	if f.to != "" {
		d, err := time.Parse(analyzer.DateLayout, f.to)
		if err != nil {
			return w, fmt.Errorf("invalid --to %q: want YYYY-MM-DD", f.to)
		}
		w.To = d
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return w, fmt.Errorf("--to %s is before --from %s", w.To.Format(analyzer.DateLayout), w.From.Format(analyzer.DateLayout))
	}
	if w.Label == "" && (!w.From.IsZero() || !w.To.IsZero()) {
		w.Label = windowLabel(w)
	}
	return w, nil
}

func windowLabel(w terms.Range) string {
	from, to := "…", "…"
	if !w.From.IsZero() {
		from = w.From.Format(analyzer.DateLayout)
	}
	if !w.To.IsZero() {
		to = w.To.Format(analyzer.DateLayout)
	}
	return from + " – " + to
}

// presetYear picks the year for the full-year preset: the explicit flag, else
// the year the last term ends in, else the current year.
func presetYear(flag int, ts []analyzer.Term) int {
	if flag > 0 {
		return flag
	}
	year := 0
	for _, t := range ts {
		if y := t.End.Year(); y > year {
			year = y
		}
	}
	if year == 0 {
		year = time.Now().Year()
	}
	return year
}

// readSwipes loads one export and applies the job's date window.
func (f *inputFlags) readSwipes(path string, j *job) ([]analyzer.RawSwipe, error) {
	var format swipes.Format
	if f.format != "" {
		var err error
		if format, err = swipes.ParseFormat(f.format); err != nil {
			return nil, err
		}
	}
	records, err := swipes.ReadFile(path, format)
	if err != nil {
		return nil, err
	}
	records = swipes.FilterByDate(records, j.window.From, j.window.To)

	if flagVerbose {
		_, report := analyzer.NormalizeSwipesReport(records)
		fmt.Fprintf(os.Stderr, "%s: %d swipes kept, %d dropped (date %d, time %d, direction %d)\n",
			path, report.Kept, report.Dropped(), report.BadDate, report.BadTime, report.BadDirection)
	}
	return records, nil
}
