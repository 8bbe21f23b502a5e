// Package app contains the Cobra command tree for libster.
package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "libster",
	Short: "Library visit recaps from access-control swipes",
	Long: `libster turns a library gate's swipe export into a recap of your visits:
total hours, streaks, peak study hours, weekday, month and term breakdowns,
and how your habits change over time.

Run 'libster stats swipes.csv' to get started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetNoColor(flagNoColor || !isTerminal(os.Stdout))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("libster", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  stats     Recap library visits from a swipe export")
		fmt.Println("  ranges    List the date-range presets from the term calendar")
		fmt.Println("  track     Snapshot a recap and compare it with earlier ones")
		fmt.Println("  batch     Recap several exports in parallel")
		fmt.Println("  sessions  List individual visits")
		fmt.Println("  watch     Watch an export and alert on changes")
		fmt.Println("  doctor    Check configuration, terms and database")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/libster/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
