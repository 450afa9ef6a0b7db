package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/datar-psa/lazarsfeld/report"
	"github.com/datar-psa/lazarsfeld/store"
)

type showFlags struct {
	table    bool
	noColor  bool
	text     bool
	averages string
	csv      string
}

func newShowCommand() *cobra.Command {
	var flags showFlags
	cmd := &cobra.Command{
		Use:   "show <results>",
		Short: "Print a saved result set",
		Long: `Print every text of a result set as a coloured score tree (red below 0.4,
yellow below 0.7, green otherwise), as markdown tables, as per-model averages
across texts, or as flat CSV rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.table, "table", false, "Print markdown tables instead of trees")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colours")
	cmd.Flags().BoolVar(&flags.text, "text", false, "Include the input text")
	cmd.Flags().StringVar(&flags.averages, "averages", "", "Print per-model averages at a level: text, concept, dimension or question")
	cmd.Flags().StringVar(&flags.csv, "csv", "", "Write flat score rows to this CSV file")

	return cmd
}

func runShow(ctx context.Context, w io.Writer, location string, flags showFlags) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	results, err := store.Load(ctx, location, cfg.storeOptions()...)
	if err != nil {
		return err
	}

	switch {
	case flags.csv != "":
		f, err := os.Create(flags.csv)
		if err != nil {
			return err
		}
		if err := report.WriteCSV(f, report.Flatten(results)); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()

	case flags.averages != "":
		level, err := parseLevel(flags.averages)
		if err != nil {
			return err
		}
		return report.RenderAverages(w, report.AverageByModel(report.Flatten(results), level))

	case flags.table:
		for _, te := range results {
			if err := report.RenderTable(w, te); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		return nil

	default:
		for _, te := range results {
			if err := report.PrintTree(w, te, report.TreeOptions{NoColor: flags.noColor, ShowText: flags.text}); err != nil {
				return err
			}
		}
		return nil
	}
}

func parseLevel(s string) (report.Level, error) {
	for _, l := range []report.Level{report.LevelText, report.LevelConcept, report.LevelDimension, report.LevelQuestion} {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, &usageError{msg: fmt.Sprintf("unknown level %q: must be text, concept, dimension or question", s)}
}
