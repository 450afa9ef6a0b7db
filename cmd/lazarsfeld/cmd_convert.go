package main

import (
	"context"
	"fmt"
	"io"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/datar-psa/lazarsfeld/concept"
)

type convertFlags struct {
	csv  string
	out  string
	name string
}

func newConvertCommand() *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a question CSV into a concept configuration file",
		Long: `Convert a CSV with the columns Dimension, Label, Question, positive_contribution
and Examples into a single-concept configuration. Each dimension is weighted by its
share of the questions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.csv, "csv", "", "Question CSV file")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output file, .json or .yaml (default eval_concepts/<name>_concept.json)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Concept description (default: CSV file name)")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func runConvert(ctx context.Context, w io.Writer, flags convertFlags) error {
	set, err := concept.ConvertFile(flags.csv, flags.name)
	if err != nil {
		return err
	}
	if err := concept.Validate(set); err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		out = concept.DefaultOutputPath(flags.csv)
	}
	if err := concept.Write(out, set); err != nil {
		return err
	}

	questions := 0
	for _, dim := range set.Concepts[0].Dimensions {
		questions += len(dim.Questions)
	}
	clog.FromContext(ctx).With("path", out).Debugf("wrote concept %q", set.Concepts[0].Description)
	_, err = fmt.Fprintf(w, "Wrote %s: %d dimensions, %d questions\n", out, len(set.Concepts[0].Dimensions), questions)
	return err
}
