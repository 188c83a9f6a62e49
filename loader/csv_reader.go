package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type CSVReader struct{}

func (r *CSVReader) Read(_ context.Context, source Source) (*RawTable, error) {
	file, err := os.Open(source.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", source.Path, err)
	}
	defer file.Close()

	// Spreadsheet exports often carry a UTF-8 or UTF-16 BOM; both decode to UTF-8.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	grid := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(grid)+1, err)
		}
		grid = append(grid, row)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("read csv header: %w", io.ErrUnexpectedEOF)
	}

	headers, rows := rowsFromGrid(grid, 2)
	return &RawTable{Headers: headers, Rows: rows}, nil
}
