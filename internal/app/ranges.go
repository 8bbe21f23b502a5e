package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/config"
	"github.com/libster-app/libster/internal/output"
	"github.com/libster-app/libster/internal/terms"
)

var (
	rangesYear  int
	rangesTerms string
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "List the date-range presets from the term calendar",
	Long: `List the presets accepted by --range: the whole calendar year followed by
every term that falls within it.`,
	Args: cobra.NoArgs,
	RunE: runRanges,
}

func init() {
	rangesCmd.Flags().IntVar(&rangesYear, "year", 0, "Year to list presets for (default: year of the last term)")
	rangesCmd.Flags().StringVar(&rangesTerms, "terms", "", "Term calendar file (.yaml or .toml)")
	rootCmd.AddCommand(rangesCmd)
}

func runRanges(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if rangesTerms != "" {
		cfg.TermsFile = rangesTerms
	}
	ts, err := cfg.LoadTerms()
	if err != nil {
		return fmt.Errorf("loading terms: %w", err)
	}

	presets := terms.Ranges(presetYear(rangesYear, ts), ts)

	if flagJSON {
		type rangeRow struct {
			Label string `json:"label"`
			From  string `json:"from"`
			To    string `json:"to"`
			Days  int    `json:"days"`
		}
		rows := make([]rangeRow, 0, len(presets))
		for _, r := range presets {
			rows = append(rows, rangeRow{
				Label: r.Label,
				From:  r.From.Format(analyzer.DateLayout),
				To:    r.To.Format(analyzer.DateLayout),
				Days:  rangeDays(r),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"ranges": rows})
	}

	fmt.Println(output.Section("Date Ranges"))
	fmt.Println()
	tbl := output.NewTable("Label", "From", "To", "Days")
	for _, r := range presets {
		tbl.AddRow(r.Label, r.From.Format(analyzer.DateLayout), r.To.Format(analyzer.DateLayout), fmt.Sprint(rangeDays(r)))
	}
	tbl.Print()
	fmt.Println()
	fmt.Println(output.StyleMuted.Render(` Use with: libster stats FILE --range "<label>"`))
	return nil
}

func rangeDays(r terms.Range) int {
	return analyzer.Term{Start: r.From, End: r.To}.Days()
}
