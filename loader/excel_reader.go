package loader

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

func (r *ExcelReader) Read(_ context.Context, source Source) (*RawTable, error) {
	file, err := excelize.OpenFile(source.Path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", source.Path, err)
	}
	defer file.Close()

	sheetName := source.Sheet
	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", source.Path)
	}
	if index, err := file.GetSheetIndex(sheetName); err != nil || index < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheetName, source.Path)
	}

	// Raw values keep date cells as serial numbers instead of the
	// locale-dependent display format.
	grid, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	headers, rows := rowsFromGrid(grid, 2)
	return &RawTable{Headers: headers, Rows: rows, SerialDates: true}, nil
}
