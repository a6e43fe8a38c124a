package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/reqtrace/internal/config"
	"github.com/chriserin/reqtrace/internal/db"
	"github.com/chriserin/reqtrace/internal/ui"
)

var idFlag string

var requirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "List requirement coverage recorded by the last extraction",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunRequirements(cmd.Context(), cmd.OutOrStdout(), cfg, idFlag)
	},
}

func init() {
	requirementsCmd.Flags().StringVar(&idFlag, "id", "", "List the parts covering one requirement")
	rootCmd.AddCommand(requirementsCmd)
}

func RunRequirements(ctx context.Context, w io.Writer, cfg *config.Config, id string) error {
	if err := requireInit(); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()
	store := db.NewStore(sqlDB)

	if id != "" {
		parts, err := store.Parts(ctx, id)
		if err != nil {
			return err
		}
		if len(parts) == 0 {
			return fmt.Errorf("requirement %s is not covered", id)
		}

		titleWidth := 0
		for _, p := range parts {
			titleWidth = max(titleWidth, len(p.Title()))
		}
		for _, p := range parts {
			ui.PartRow(w, p.Title(), p.File, p.Line, titleWidth)
		}
		return nil
	}

	reqs, err := store.Requirements(ctx)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(w, "no requirements recorded, run `reqtrace extract`")
		return nil
	}

	if last, err := store.LastExtraction(ctx); err == nil {
		ui.ExtractionLine(w, last.ID, last.StartedAt, last.FileCount)
	}

	idWidth := 0
	for _, r := range reqs {
		idWidth = max(idWidth, len(r.ID))
	}
	for _, r := range reqs {
		ui.RequirementRow(w, r.ID, r.Parts, r.Files, idWidth)
	}
	return nil
}
