package ratings

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsReadonlyScope is the OAuth scope needed to read rating sheets.
const SheetsReadonlyScope = sheets.SpreadsheetsReadonlyScope

// SheetRange is the cell block read from every rating sheet.
const SheetRange = "A1:I99"

// SheetsLoader reads ratings from a Google Sheets spreadsheet with one sheet per text.
type SheetsLoader struct {
	svc *sheets.Service
}

// NewSheetsLoader creates a loader. Authentication is taken from opts or application default
// credentials.
func NewSheetsLoader(ctx context.Context, opts ...option.ClientOption) (*SheetsLoader, error) {
	opts = append([]option.ClientOption{option.WithScopes(SheetsReadonlyScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsLoader{svc: svc}, nil
}

// Load reads every named sheet of spreadsheetID. The sheet name is used as the text label.
func (l *SheetsLoader) Load(ctx context.Context, spreadsheetID string, sheetNames ...string) (Table, error) {
	t := make(Table)
	for _, name := range sheetNames {
		name = strings.TrimSpace(name)
		rng := fmt.Sprintf("%s!%s", name, SheetRange)

		resp, err := l.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		clog.FromContext(ctx).With("text", name).Debugf("read %d rows from %s", len(resp.Values), resp.Range)

		if err := parseRows(ctx, t, name, toStrings(resp.Values)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		row := make([]string, len(v))
		for i, cell := range v {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows
}
