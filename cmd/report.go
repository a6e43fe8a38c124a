package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/reqtrace/internal/config"
	"github.com/chriserin/reqtrace/internal/coverage"
	"github.com/chriserin/reqtrace/internal/db"
	"github.com/chriserin/reqtrace/internal/extract"
	"github.com/chriserin/reqtrace/internal/report"
)

var (
	formatFlag string
	outputFlag string
)

var reportCmd = &cobra.Command{
	Use:   "report [root...]",
	Short: "Write a requirement coverage report",
	Long: `Write a requirement coverage report.

Without roots the report covers the last extraction stored in the database.
With roots the feature files under them are extracted first and nothing is
stored. An output of "-" writes to standard output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunReport(cmd.Context(), cmd.OutOrStdout(), cfg, formatFlag, outputFlag, args)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Report format ("+strings.Join(report.Formats(), ", ")+")")
	reportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file, - for standard output")
	rootCmd.AddCommand(reportCmd)
}

func RunReport(ctx context.Context, w io.Writer, cfg *config.Config, format, output string, roots []string) error {
	format, output = reportTarget(cfg, format, output)
	writer, err := report.ForFormat(format)
	if err != nil {
		return err
	}

	var records []coverage.Record
	failed := 0
	if len(roots) > 0 {
		results, err := extractFiles(ctx, nil, cfg, filtersFor(cfg, roots))
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		records = extract.Records(results)
	} else {
		if err := requireInit(); err != nil {
			return err
		}
		sqlDB, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer sqlDB.Close()
		if records, err = db.NewStore(sqlDB).Records(ctx); err != nil {
			return err
		}
	}

	if output == "-" {
		if err := writer.Write(w, records); err != nil {
			return fmt.Errorf("writing %s report: %w", format, err)
		}
	} else {
		if err := writeReportFile(output, writer, records); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s (%d parts, %d requirements)\n", output, len(records), len(coverage.Matrix(records)))
	}

	if failed > 0 {
		return fmt.Errorf("%d files failed", failed)
	}
	return nil
}

// reportTarget settles the format and output. An explicit format wins, then
// the output's extension, then the configured format. A configured output
// whose extension disagrees with the format gets the format's extension.
func reportTarget(cfg *config.Config, format, output string) (string, string) {
	if format == "" {
		format = report.FormatOf(output)
	}
	if format == "" {
		format = cfg.Report.Format
	}
	format = strings.ToLower(format)

	if output == "" {
		output = cfg.Report.Output
		if report.FormatOf(output) != format {
			output = strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
		}
	}
	return format, output
}

func writeReportFile(path string, writer report.Writer, records []coverage.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := writer.Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
