package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chriserin/reqtrace/internal/config"
	"github.com/chriserin/reqtrace/internal/coverage"
	"github.com/chriserin/reqtrace/internal/db"
	"github.com/chriserin/reqtrace/internal/extract"
	"github.com/chriserin/reqtrace/internal/source"
	"github.com/chriserin/reqtrace/internal/ui"
)

var quietFlag bool

var extractCmd = &cobra.Command{
	Use:   "extract [root...]",
	Short: "Extract requirement coverage from feature files into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		var progress io.Writer
		if !quietFlag {
			progress = cmd.ErrOrStderr()
		}
		return RunExtract(cmd.Context(), cmd.OutOrStdout(), progress, cfg, args)
	},
}

func init() {
	extractCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Hide the progress bar")
	rootCmd.AddCommand(extractCmd)
}

// RunExtract extracts every discovered file and saves the successes. Files
// that failed are reported and make RunExtract return an error. With no
// roots, files no longer found under the configured search are removed from
// the database.
func RunExtract(ctx context.Context, w, progress io.Writer, cfg *config.Config, roots []string) error {
	if err := requireInit(); err != nil {
		return err
	}

	results, err := extractFiles(ctx, progress, cfg, filtersFor(cfg, roots))
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()
	store := db.NewStore(sqlDB)

	id := uuid.NewString()
	if err := store.Save(ctx, id, results); err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}
	slog.Debug("extraction saved", "id", id, "files", len(results))

	if len(roots) == 0 {
		paths := make([]string, len(results))
		for i, r := range results {
			paths[i] = r.Path
		}
		removed, err := store.Prune(ctx, paths)
		if err != nil {
			return fmt.Errorf("removing stale files: %w", err)
		}
		if removed > 0 {
			slog.Info("removed files no longer found", "count", removed)
		}
	}

	if failed := printResults(w, results); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// filtersFor returns the configured search, or one recursive *.feature
// filter per root given on the command line.
func filtersFor(cfg *config.Config, roots []string) []source.Filter {
	if len(roots) == 0 {
		return cfg.Search
	}
	filters := make([]source.Filter, len(roots))
	for i, root := range roots {
		filters[i] = source.Filter{Root: root, Recursive: true, Pattern: "*.feature"}
	}
	return filters
}

func extractFiles(ctx context.Context, progress io.Writer, cfg *config.Config, filters []source.Filter) ([]extract.Result, error) {
	fs := source.NewFS(nil)
	paths, err := fs.Search(filters...)
	if err != nil {
		return nil, err
	}
	slog.Debug("discovered feature files", "count", len(paths))

	ex := extract.New(fs, slog.Default(), cfg.Workers)
	results, err := ex.Run(ctx, paths, progressFunc(progress, len(paths)))
	if err != nil {
		slog.Debug("extraction finished with errors", "error", err)
	}
	return results, nil
}

func progressFunc(w io.Writer, total int) func(extract.Result) {
	if w == nil || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return func(extract.Result) {
		bar.Add(1)
	}
}

// printResults writes one line per file and the summary, and returns the
// number of failed files.
func printResults(w io.Writer, results []extract.Result) int {
	if len(results) == 0 {
		fmt.Fprintln(w, "no feature files found")
		return 0
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			ui.ErrLine(w, r.Path, r.Err)
			continue
		}
		ui.OkLine(w, r.Path, len(r.Records))
	}

	records := extract.Records(results)
	ui.SummaryLine(w, len(results), failed, len(records), len(coverage.Matrix(records)))
	return failed
}
