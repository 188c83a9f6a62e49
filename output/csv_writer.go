package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"roadboard/roadmap"
)

type CSVWriter struct{}

func (w *CSVWriter) Extension() string   { return ".csv" }
func (w *CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

func (w *CSVWriter) Write(out io.Writer, table *roadmap.Table) error {
	writer := csv.NewWriter(out)

	columns := Columns(table)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, record := range table.Records {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, CellText(record, column))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", record.RowNumber, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
