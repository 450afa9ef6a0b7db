package ratings

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadCSV adds the ratings in r for the given text label to t.
// The layout matches an exported rating sheet: label in column 0, rating in column 2.
func ReadCSV(ctx context.Context, t Table, text string, r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("csv: parse ratings for %q: %w", text, err)
	}
	return parseRows(ctx, t, text, records)
}

// LoadCSVFiles reads one ratings CSV per text. The text label is the file stem.
func LoadCSVFiles(ctx context.Context, paths ...string) (Table, error) {
	t := make(Table)
	for _, path := range paths {
		if err := loadCSVFile(ctx, t, path); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func loadCSVFile(ctx context.Context, t Table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	text := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(ctx, t, text, f)
}
