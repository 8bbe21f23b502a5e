package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/config"
	"github.com/libster-app/libster/internal/output"
	"github.com/libster-app/libster/internal/store"
	"github.com/libster-app/libster/internal/swipes"
	"github.com/libster-app/libster/internal/terms"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [FILE]",
	Short: "Check whether the libster setup is healthy",
	Long: `Run a series of health checks against your libster configuration, term
calendar and local database. Given a swipe export, also report how many of
its records are usable. Prints a pass/fail line for each check and a summary
of how many checks passed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		// A broken config is itself a finding.
		checks := []doctorCheck{{Name: "Config", Message: err.Error()}}
		return reportDoctor(checks)
	}

	checks := []doctorCheck{
		checkConfig(cfg),
	}

	ts, termCheck := checkTerms(cfg)
	checks = append(checks, termCheck)
	if ts != nil {
		checks = append(checks, checkTermOverlaps(ts))
	}

	checks = append(checks, checkDatabase(cfg.DBPath))

	if len(args) == 1 {
		checks = append(checks, checkExport(args[0])...)
	}

	return reportDoctor(checks)
}

func reportDoctor(checks []doctorCheck) error {
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		out := doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()

	for _, c := range checks {
		renderDoctorCheck(c)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}

	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	var indicator string
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	} else {
		indicator = output.StyleWarning.Render("✗")
	}
	label := output.StyleBold.Render(c.Name)
	detail := output.StyleMuted.Render(c.Message)
	fmt.Printf("  %s  %-30s %s\n", indicator, label, detail)
}

// checkConfig reports the thresholds the engine will run with.
func checkConfig(cfg *config.Config) doctorCheck {
	e := cfg.EngineConfig()
	if err := e.Validate(); err != nil {
		return doctorCheck{Name: "Config", Message: err.Error()}
	}
	return doctorCheck{
		Name:    "Config",
		Passed:  true,
		Message: fmt.Sprintf("no-seat <= %gm, merge gap <= %gm", e.NoSeatMaxMinutes, e.MergeGapMinutes),
	}
}

// checkTerms loads the term calendar. The terms are returned only when they
// loaded cleanly.
func checkTerms(cfg *config.Config) ([]analyzer.Term, doctorCheck) {
	source := "config"
	if cfg.TermsFile != "" {
		source = cfg.TermsFile
	}

	ts, err := cfg.LoadTerms()
	if err != nil {
		return nil, doctorCheck{Name: "Term calendar", Message: err.Error()}
	}
	if len(ts) == 0 {
		return ts, doctorCheck{Name: "Term calendar", Message: "no terms defined; term breakdown will be empty"}
	}
	return ts, doctorCheck{
		Name:    "Term calendar",
		Passed:  true,
		Message: fmt.Sprintf("%d terms from %s", len(ts), source),
	}
}

// checkTermOverlaps flags terms that share days. Minutes on shared days go to
// the first listed term.
func checkTermOverlaps(ts []analyzer.Term) doctorCheck {
	overlaps := terms.Overlaps(ts)
	if len(overlaps) == 0 {
		return doctorCheck{Name: "Term overlaps", Passed: true, Message: "none"}
	}
	o := overlaps[0]
	msg := fmt.Sprintf("%q overlaps %q", o.First, o.Second)
	if len(overlaps) > 1 {
		msg += fmt.Sprintf(" (+%d more)", len(overlaps)-1)
	}
	return doctorCheck{Name: "Term overlaps", Message: msg}
}

// checkDatabase opens the snapshot database and reports its schema version.
func checkDatabase(path string) doctorCheck {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return doctorCheck{
			Name:    "Database",
			Passed:  true,
			Message: "not created yet (run 'libster track FILE')",
		}
	}

	db, err := store.Open(path)
	if err != nil {
		return doctorCheck{Name: "Database", Message: err.Error()}
	}
	defer func() { _ = db.Close() }()

	v, err := db.SchemaVersion()
	if err != nil {
		return doctorCheck{Name: "Database", Message: fmt.Sprintf("reading schema version: %v", err)}
	}
	latest, err := db.GetLatestSnapshot()
	if err != nil {
		return doctorCheck{Name: "Database", Message: fmt.Sprintf("reading snapshots: %v", err)}
	}
	last := "no snapshots"
	if latest != nil {
		last = "last snapshot " + output.Ago(latest.TakenAt)
	}
	return doctorCheck{
		Name:    "Database",
		Passed:  true,
		Message: fmt.Sprintf("schema v%d, %s", v, last),
	}
}

// checkExport reads a swipe export and reports how usable it is.
func checkExport(path string) []doctorCheck {
	records, err := swipes.ReadFile(path, "")
	if err != nil {
		return []doctorCheck{{Name: "Swipe export", Message: err.Error()}}
	}

	_, report := analyzer.NormalizeSwipesReport(records)
	read := doctorCheck{
		Name:    "Swipe export",
		Passed:  report.Kept > 0,
		Message: fmt.Sprintf("%s records, %s usable", output.Number(len(records)), output.Number(report.Kept)),
	}

	paired := analyzer.PairSessions(analyzer.NormalizeSwipes(records))
	orphans := paired.OrphanExit + paired.OrphanEntryOverwritten + paired.OrphanEntryAtEnd
	pairs := doctorCheck{
		Name:    "Entry/exit pairing",
		Passed:  len(paired.Sessions) > 0 && orphans <= len(paired.Sessions),
		Message: fmt.Sprintf("%d visits, %d unpaired swipes", len(paired.Sessions), orphans),
	}
	return []doctorCheck{read, pairs}
}
