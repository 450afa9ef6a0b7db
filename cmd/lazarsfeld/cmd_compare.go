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

type compareFlags struct {
	csv string
}

func newCompareCommand() *cobra.Command {
	var flags compareFlags
	cmd := &cobra.Command{
		Use:   "compare <base> <new>",
		Short: "Compare the scores of two result sets",
		Long: `Flatten two result sets into (label, model, concept, dimension, question) rows,
join them and report the score difference new - base for every node.

Typical use: compare human validation results with model results.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.csv, "csv", "", "Write the full comparison to this CSV file instead of printing changed nodes")

	return cmd
}

func runCompare(ctx context.Context, w io.Writer, basePath, otherPath string, flags compareFlags) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	base, err := store.Load(ctx, basePath, cfg.storeOptions()...)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", basePath, err)
	}
	other, err := store.Load(ctx, otherPath, cfg.storeOptions()...)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", otherPath, err)
	}

	comparisons := report.Compare(report.Flatten(base), report.Flatten(other))

	if flags.csv == "" {
		return report.RenderComparison(w, comparisons)
	}

	f, err := os.Create(flags.csv)
	if err != nil {
		return err
	}
	if err := report.WriteComparisonCSV(f, comparisons); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Wrote %d comparison rows to %s\n", len(comparisons), flags.csv)
	return err
}
