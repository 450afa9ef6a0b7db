package concept

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/datar-psa/lazarsfeld/api"
)

// Columns of the tabular concept format.
const (
	ColumnDimension            = "Dimension"
	ColumnLabel                = "Label"
	ColumnQuestion             = "Question"
	ColumnPositiveContribution = "positive_contribution"
	ColumnExamples             = "Examples"
)

var requiredColumns = []string{
	ColumnDimension,
	ColumnLabel,
	ColumnQuestion,
	ColumnPositiveContribution,
	ColumnExamples,
}

// ConvertFile converts a concept CSV file into a single-concept set.
// An empty name defaults to the file stem.
func ConvertFile(path, name string) (*api.ConceptSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	set, err := Convert(f, name)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return set, nil
}

// DefaultOutputPath is where a converted CSV is written when no output path is given:
// eval_concepts/<lower-cased stem with spaces as underscores>_concept.json.
func DefaultOutputPath(csvPath string) string {
	stem := strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	stem = strings.ReplaceAll(strings.ToLower(stem), " ", "_")
	return filepath.Join("eval_concepts", stem+"_concept.json")
}

// Convert reads rows of (Dimension, Label, Question, positive_contribution, Examples) and groups the
// questions into dimensions in order of first appearance. Each dimension is weighted by its share of
// all questions; the single resulting concept has weight 1.0.
func Convert(r io.Reader, name string) (*api.ConceptSet, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", api.ErrInvalidConfig, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: csv has no data rows", api.ErrInvalidConfig)
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", api.ErrInvalidConfig, col)
		}
	}

	var order []string
	byDimension := make(map[string][]api.Question)
	for i, record := range records[1:] {
		field := func(col string) string {
			j := index[col]
			if j >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[j])
		}

		positive, err := strconv.ParseBool(field(ColumnPositiveContribution))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid %s %q", api.ErrInvalidConfig, i+2, ColumnPositiveContribution, field(ColumnPositiveContribution))
		}

		dim := field(ColumnDimension)
		if _, seen := byDimension[dim]; !seen {
			order = append(order, dim)
		}
		byDimension[dim] = append(byDimension[dim], api.Question{
			Label:                field(ColumnLabel),
			Question:             field(ColumnQuestion),
			PositiveContribution: positive,
			Examples:             field(ColumnExamples),
		})
	}

	total := float64(len(records) - 1)
	dimensions := make([]api.Dimension, 0, len(order))
	for _, dim := range order {
		questions := byDimension[dim]
		weight := float64(len(questions)) / total
		dimensions = append(dimensions, api.Dimension{
			Description: dim,
			Weight:      &weight,
			Questions:   questions,
		})
	}

	weight := api.DefaultWeight
	return &api.ConceptSet{Concepts: []api.Concept{{
		Description: name,
		Weight:      &weight,
		Dimensions:  dimensions,
	}}}, nil
}
