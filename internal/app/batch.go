package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/cache"
	"github.com/libster-app/libster/internal/output"
	"github.com/libster-app/libster/internal/store"
)

var (
	batchInputs inputFlags
	batchJobs   int
	batchCache  bool
	batchStrict bool
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Recap several exports in parallel",
	Long: `Compute the recap for each swipe export independently, one per user,
using up to --jobs workers, and print a summary row per file.

A file that cannot be read is reported and skipped; the command fails only
if every file fails, or with --strict if any does.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchInputs.register(batchCmd)
	batchCmd.Flags().IntVar(&batchJobs, "jobs", 0, "Files processed in parallel (default from config)")
	batchCmd.Flags().BoolVar(&batchCache, "cache", false, "Reuse results stored in the local database")
	batchCmd.Flags().BoolVar(&batchStrict, "strict", false, "Fail if any file fails or its --debug totals disagree")
	rootCmd.AddCommand(batchCmd)
}

// batchResult is the outcome for one input file.
type batchResult struct {
	Source string          `json:"source"`
	Cached bool            `json:"cached"`
	Error  string          `json:"error,omitempty"`
	Stats  *analyzer.Stats `json:"stats,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, j, err := batchInputs.resolve(cmd)
	if err != nil {
		return err
	}

	jobs := cfg.Batch.Jobs
	if batchJobs > 0 {
		jobs = batchJobs
	}

	var backend cache.Backend
	if batchCache {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Printf("Warning: stats cache unavailable: %v", err)
		} else {
			defer func() { _ = db.Close() }()
			backend = db
		}
	}

	results, err := processFiles(cmd.Context(), args, jobs, cache.New(backend), func(path string) ([]analyzer.RawSwipe, error) {
		return batchInputs.readSwipes(path, j)
	}, j)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			log.Printf("Warning: %s: %s", r.Source, r.Error)
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"range": j.window.Label, "results": results}); err != nil {
			return err
		}
	} else {
		renderBatch(j.window.Label, results)
	}

	switch {
	case failed == len(results):
		return fmt.Errorf("all %d files failed", failed)
	case failed > 0 && batchStrict:
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// processFiles recaps every path with at most jobs running at once. Per-file
// failures are recorded in the result; only context cancellation aborts the
// whole batch. Results keep the order of paths.
func processFiles(
	ctx context.Context,
	paths []string,
	jobs int,
	c *cache.Cache,
	read func(path string) ([]analyzer.RawSwipe, error),
	j *job,
) ([]batchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]batchResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := batchResult{Source: path}
			defer func() { results[i] = r }()

			records, err := read(path)
			if err != nil {
				r.Error = err.Error()
				return nil
			}
			stats, hit, err := c.Process(records, j.engine, j.terms)
			if err != nil {
				r.Error = err.Error()
				return nil
			}
			if err := checkInvariants(path, stats); err != nil && batchStrict {
				r.Error = err.Error()
			}
			r.Stats, r.Cached = stats, hit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderBatch(rangeLabel string, results []batchResult) {
	title := "Batch Recap"
	if rangeLabel != "" {
		title += " · " + rangeLabel
	}
	fmt.Println(output.Section(title))
	fmt.Println()

	tbl := output.NewTable("File", "Time", "Visits", "Streak", "Peak", "Persona", "")
	for _, r := range results {
		if r.Stats == nil {
			tbl.AddRow(r.Source, output.StyleError.Render("error"))
			continue
		}
		s := r.Stats
		note := ""
		if r.Cached {
			note = output.StyleMuted.Render("cached")
		}
		if s.Empty() {
			tbl.AddRow(r.Source, "-", "0", "-", "-", "-", note)
			continue
		}
		tbl.AddRow(
			r.Source,
			output.Duration(s.TotalMinutes),
			output.Number(s.TotalSessions),
			plural(s.LongestVisitStreakDays, "day"),
			s.PeakWindow.DisplayRange,
			s.PeakWindow.Persona,
			note,
		)
	}
	tbl.Print()
}
