// Package ratings turns human 1-5 ratings into question evaluations so that a human rater can be
// scored through the same aggregation tree as a language model.
package ratings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/datar-psa/lazarsfeld/api"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Table holds ratings keyed by text label, then question label.
type Table map[string]map[string]int

// Set records rating r for question q of text. Ratings outside 1..5 are rejected.
func (t Table) Set(text, q string, r int) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %s/%s = %d", api.ErrRatingOutOfRange, text, q, r)
	}
	if t[text] == nil {
		t[text] = make(map[string]int)
	}
	t[text][q] = r
	return nil
}

// Get returns the rating for question q of text.
func (t Table) Get(text, q string) (int, bool) {
	r, ok := t[text][q]
	return r, ok
}

// parseRows reads a sheet-shaped block: the first row is a header, column 0 holds the question
// label and column 2 the rating. Short rows are skipped with a warning; rows with an empty label or
// rating are ignored.
func parseRows(ctx context.Context, t Table, text string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no data found for %q", text)
	}
	log := clog.FromContext(ctx).With("text", text)

	for i, row := range rows[1:] {
		if len(row) < 3 {
			log.Warnf("Skipping row %d due to insufficient elements: %v", i+2, row)
			continue
		}
		label := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[2])
		if label == "" || value == "" {
			continue
		}
		r, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s row %d: rating %q is not an integer", text, i+2, value)
		}
		if err := t.Set(text, label, r); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return nil
}
