package loader

import (
	"context"
	"fmt"
	"strings"
)

// RawRow is one source row keyed by normalized header.
type RawRow struct {
	RowNumber int
	Values    map[string]string
}

func (r RawRow) Get(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := r.Values[normalizeHeader(key)]; ok {
			return value, true
		}
	}
	return "", false
}

// RawTable is the untyped content of a source before normalization.
type RawTable struct {
	Headers []string
	Rows    []RawRow
	// SerialDates is set when numeric date cells are spreadsheet serial numbers.
	SerialDates bool
}

type Reader interface {
	Read(ctx context.Context, source Source) (*RawTable, error)
}

func ReaderForFormat(format Format) (Reader, error) {
	switch format {
	case FormatCSV:
		return &CSVReader{}, nil
	case FormatExcel:
		return &ExcelReader{}, nil
	case FormatSnapshot:
		return &SnapshotReader{}, nil
	case FormatSheets:
		return &SheetsReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// normalizeHeader trims and lowercases a column name.
func normalizeHeader(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// rowsFromGrid turns a header row plus data rows into RawRows. Rows shorter
// than the header are padded with empty values; fully blank rows are skipped.
func rowsFromGrid(grid [][]string, firstDataRow int) ([]string, []RawRow) {
	if len(grid) == 0 {
		return nil, nil
	}

	headers := make([]string, len(grid[0]))
	for i, header := range grid[0] {
		headers[i] = normalizeHeader(header)
	}

	rows := make([]RawRow, 0, len(grid)-1)
	for i, row := range grid[1:] {
		if isBlankRow(row) {
			continue
		}
		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}
		rows = append(rows, RawRow{RowNumber: firstDataRow + i, Values: values})
	}
	return headers, rows
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
