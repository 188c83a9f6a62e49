package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsReader reads a Google Sheets tab. Credentials come from
// Source.CredentialsFile, falling back to application default credentials.
type SheetsReader struct{}

func (r *SheetsReader) Read(ctx context.Context, source Source) (*RawTable, error) {
	spreadsheetID, sheet, err := source.sheetsLocation()
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithScopes(gsheet.SpreadsheetsReadonlyScope)}
	if path := strings.TrimSpace(source.CredentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	if sheet == "" {
		meta, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("read spreadsheet %s: %w", spreadsheetID, err)
		}
		if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
			return nil, fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
		}
		sheet = meta.Sheets[0].Properties.Title
	}

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, sheet).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	headers, rows := rowsFromGrid(gridFromValues(resp.Values), 2)
	return &RawTable{Headers: headers, Rows: rows, SerialDates: true}, nil
}

// gridFromValues stringifies the API's untyped cell values.
func gridFromValues(values [][]interface{}) [][]string {
	grid := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		grid = append(grid, cells)
	}
	return grid
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
