package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatExcel    Format = "excel"
	FormatCSV      Format = "csv"
	FormatSnapshot Format = "snapshot"
	FormatSheets   Format = "gsheet"
)

const sheetsScheme = "gsheet://"

// Source describes where the canonical table is read from.
type Source struct {
	Path            string
	Format          Format
	Sheet           string
	CredentialsFile string
}

// ResolveFormat returns the explicit format, or infers it from the path.
func (s Source) ResolveFormat() (Format, error) {
	if explicit := strings.TrimSpace(string(s.Format)); explicit != "" {
		return ParseFormat(explicit)
	}
	if strings.HasPrefix(strings.TrimSpace(s.Path), sheetsScheme) {
		return FormatSheets, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(s.Path), "."))
	switch extension {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "xlsm", "xls":
		return FormatExcel, nil
	case "db", "sqlite", "sqlite3":
		return FormatSnapshot, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", s.Path)
	}
}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "excel", "xlsx", "xlsm", "xls":
		return FormatExcel, nil
	case "csv":
		return FormatCSV, nil
	case "snapshot", "sqlite", "db":
		return FormatSnapshot, nil
	case "gsheet", "sheets", "google":
		return FormatSheets, nil
	default:
		return "", fmt.Errorf("unsupported source format: %s (supported: excel|csv|snapshot|gsheet)", value)
	}
}

// sheetsLocation splits "gsheet://<spreadsheet-id>[/<sheet>]".
func (s Source) sheetsLocation() (spreadsheetID, sheet string, err error) {
	rest := strings.TrimPrefix(strings.TrimSpace(s.Path), sheetsScheme)
	spreadsheetID, sheet, _ = strings.Cut(rest, "/")
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return "", "", fmt.Errorf("missing spreadsheet id in %q (expected gsheet://<id>[/<sheet>])", s.Path)
	}
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		sheet = strings.TrimSpace(s.Sheet)
	}
	return spreadsheetID, sheet, nil
}
