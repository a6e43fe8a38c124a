package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/reqtrace/internal/extract"
	"github.com/chriserin/reqtrace/internal/source"
	"github.com/chriserin/reqtrace/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show the testing scenario parts of a feature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, path string) error {
	res, err := extract.New(source.NewFS(nil), nil, 1).File(path)
	if err != nil {
		return err
	}

	if len(res.Records) == 0 {
		fmt.Fprintf(w, "no scenarios in %s\n", path)
		return nil
	}

	for i, r := range res.Records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		ui.ShowPart(w, r)
	}
	return nil
}
