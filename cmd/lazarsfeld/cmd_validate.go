package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/datar-psa/lazarsfeld"
	"github.com/datar-psa/lazarsfeld/ratings"
)

// DefaultRater is the model name human ratings are recorded under.
const DefaultRater = "human"

type validateFlags struct {
	concepts   string
	texts      string
	ratings    []string
	sheet      string
	sheetNames []string
	rater      string
	out        string
	quiet      bool
}

func newValidateCommand() *cobra.Command {
	var flags validateFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Score texts from human 1-5 ratings",
		Long: `Build a validation result set from human ratings instead of model calls.

Ratings come either from CSV files (one per text, named after the text label) or
from a Google Sheets spreadsheet (one sheet per text label). Columns: question label
in column 1, rating 1-5 in column 3. The results use the same tree as eval and can be
compared with it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.concepts, "concepts", "", "Concept configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&flags.texts, "texts", "", "Texts file mapping labels to texts (JSON or YAML)")
	cmd.Flags().StringSliceVar(&flags.ratings, "ratings", nil, "Ratings CSV file, named <text label>.csv (repeatable)")
	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Google Sheets spreadsheet ID")
	cmd.Flags().StringSliceVar(&flags.sheetNames, "sheet-name", nil, "Sheet to read, named after a text label (repeatable)")
	cmd.Flags().StringVar(&flags.rater, "rater", DefaultRater, "Name recorded as the model of the ratings")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "evaluation_results/validation_data.json", "Result location: file path, s3://bucket/prefix or gs://bucket/prefix")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not print the score tables")
	_ = cmd.MarkFlagRequired("concepts")
	_ = cmd.MarkFlagRequired("texts")
	cmd.MarkFlagsMutuallyExclusive("ratings", "sheet")
	cmd.MarkFlagsRequiredTogether("sheet", "sheet-name")

	return cmd
}

func runValidate(ctx context.Context, w io.Writer, flags validateFlags) error {
	if len(flags.ratings) == 0 && flags.sheet == "" {
		return &usageError{msg: "one of --ratings or --sheet is required"}
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	concepts, texts, err := loadInputs(flags.concepts, flags.texts)
	if err != nil {
		return err
	}

	table, err := loadRatings(ctx, flags)
	if err != nil {
		return err
	}

	evaluator, err := lazarsfeld.NewEvaluator(lazarsfeld.WithQuestionScorer(ratings.Scorer(table, flags.rater)))
	if err != nil {
		return err
	}
	results, err := evaluator.EvaluateTexts(ctx, texts, concepts, []string{flags.rater})
	if err != nil {
		return err
	}

	return saveAndPrint(ctx, w, cfg, flags.out, results, flags.quiet)
}

func loadRatings(ctx context.Context, flags validateFlags) (ratings.Table, error) {
	if flags.sheet == "" {
		return ratings.LoadCSVFiles(ctx, flags.ratings...)
	}
	loader, err := ratings.NewSheetsLoader(ctx)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, flags.sheet, flags.sheetNames...)
}
