package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"roadboard/roadmap"
)

// Writer renders the records of a table in one file format.
type Writer interface {
	Write(w io.Writer, table *roadmap.Table) error
	Extension() string
	ContentType() string
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile writes table to path using writer.
func WriteFile(path string, writer Writer, table *roadmap.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer file.Close()

	if err := writer.Write(file, table); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

const (
	columnGroupList = "group_list"
	columnYear      = "year"
	columnMonth     = "month"
)

// Columns returns the source headers followed by the derived columns the
// table supports. A derived column is left out when the source already has a
// header of the same name.
func Columns(table *roadmap.Table) []string {
	out := make([]string, 0, len(table.Headers)+3)
	seen := make(map[string]struct{}, len(table.Headers))
	for _, header := range table.Headers {
		if header == "" {
			continue
		}
		if _, dup := seen[header]; dup {
			continue
		}
		seen[header] = struct{}{}
		out = append(out, header)
	}

	derived := make([]string, 0, 3)
	if table.Columns.Has(roadmap.ColumnGroup) {
		derived = append(derived, columnGroupList)
	}
	if table.Columns.Has(roadmap.ColumnStartDate) {
		derived = append(derived, columnYear, columnMonth)
	}
	for _, column := range derived {
		if _, sourced := seen[column]; !sourced {
			out = append(out, column)
		}
	}
	return out
}

// CellText renders one column of a record. Source cells win over derived
// columns of the same name.
func CellText(record roadmap.Record, column string) string {
	if value, sourced := record.Extra[column]; sourced {
		return value
	}
	switch column {
	case columnGroupList:
		ids := make([]string, 0, len(record.GroupList))
		for _, id := range record.GroupList {
			ids = append(ids, strconv.Itoa(int(id)))
		}
		return strings.Join(ids, ";")
	case columnYear:
		if record.Year == nil {
			return ""
		}
		return strconv.Itoa(*record.Year)
	case columnMonth:
		return record.Month
	default:
		return record.Value(column)
	}
}
