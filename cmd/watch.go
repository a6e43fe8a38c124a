package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/reqtrace/internal/config"
	"github.com/chriserin/reqtrace/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract again whenever a feature file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunWatch(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// RunWatch extracts once, then again after every batch of changes, until ctx
// is done. Failed files are reported without stopping the watch.
func RunWatch(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if err := requireInit(); err != nil {
		return err
	}

	rerun := func() {
		if err := RunExtract(ctx, w, nil, cfg, nil); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("extraction failed", "error", err)
		}
	}
	rerun()

	watcher, err := watch.New(cfg.Search, watch.DefaultDebounce, slog.Default())
	if err != nil {
		return err
	}

	roots := make([]string, len(cfg.Search))
	for i, f := range cfg.Search {
		roots[i] = f.Root
	}
	fmt.Fprintf(w, "watching %s\n", strings.Join(roots, ", "))

	return watcher.Run(ctx, func(paths []string) {
		fmt.Fprintf(w, "\nchanged: %s\n", strings.Join(paths, ", "))
		rerun()
	})
}
