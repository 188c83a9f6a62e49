package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"roadboard/roadmap"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExcelWriter struct{}

func (w *ExcelWriter) Extension() string   { return ".xlsx" }
func (w *ExcelWriter) ContentType() string { return excelContentType }

func (w *ExcelWriter) Write(out io.Writer, table *roadmap.Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	columns := Columns(table)
	if err := setRow(file, sheet, 1, stringsToCells(columns)); err != nil {
		return err
	}

	for i, record := range table.Records {
		values := make([]any, 0, len(columns))
		for _, column := range columns {
			values = append(values, excelCell(record, column))
		}
		if err := setRow(file, sheet, i+2, values); err != nil {
			return err
		}
	}

	if err := file.Write(out); err != nil {
		return fmt.Errorf("write excel output: %w", err)
	}

	return nil
}

// excelCell keeps hours numeric so the workbook can be summed directly.
func excelCell(record roadmap.Record, column string) any {
	if roadmap.HeaderAliases[column] == roadmap.ColumnTime {
		return record.Time
	}
	if _, sourced := record.Extra[column]; !sourced && column == columnYear && record.Year != nil {
		return *record.Year
	}
	return CellText(record, column)
}

func setRow(file *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("resolve excel cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel value %s: %w", cell, err)
		}
	}
	return nil
}

func stringsToCells(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}
