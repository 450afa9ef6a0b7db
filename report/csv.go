package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var (
	rowHeader        = []string{"label", "model", "concept", "dimension", "question", "score"}
	comparisonHeader = []string{"label", "model", "concept", "dimension", "question", "base", "other", "difference"}
)

// WriteCSV writes rows with a header line. Null scores are written as empty cells.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rowHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Label, r.Model, r.Concept, r.Dimension, r.Question, formatScore(r.Score)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComparisonCSV writes a comparison with a header line.
func WriteComparisonCSV(w io.Writer, comparisons []Comparison) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(comparisonHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range comparisons {
		record := []string{
			c.Label, c.Model, c.Concept, c.Dimension, c.Question,
			formatScore(c.Base), formatScore(c.Other), formatScore(c.Difference),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
