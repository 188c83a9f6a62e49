package loader

import (
	"math"
	"strconv"
	"strings"
	"time"

	"roadboard/internal/timeutil"
	"roadboard/roadmap"

	"github.com/xuri/excelize/v2"
)

// Notes counts cells that were degraded instead of failing the load.
type Notes struct {
	UnparsedDates      int
	DroppedGroupTokens int
	UnparsedTimes      int
}

func (n Notes) Empty() bool {
	return n.UnparsedDates == 0 && n.DroppedGroupTokens == 0 && n.UnparsedTimes == 0
}

var (
	startDateHeaders = []string{"start date", "start_date"}
	endDateHeaders   = []string{"end date", "end_date"}
)

func buildTable(raw *RawTable) (*roadmap.Table, Notes) {
	columns := roadmap.ColumnSet{}
	for _, header := range raw.Headers {
		if column, ok := roadmap.HeaderAliases[header]; ok {
			columns[column] = true
		}
	}

	var notes Notes
	records := make([]roadmap.Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		records = append(records, buildRecord(row, raw.SerialDates, &notes))
	}

	return roadmap.NewTable(records, raw.Headers, columns), notes
}

func buildRecord(row RawRow, serialDates bool, notes *Notes) roadmap.Record {
	status, _ := row.Get(string(roadmap.ColumnStatus))
	record := roadmap.Record{
		RowNumber: row.RowNumber,
		Status:    normalizeStatus(status),
		GroupList: []roadmap.GroupID{},
	}
	record.Department = text(row, roadmap.ColumnDepartment)
	record.Person = text(row, roadmap.ColumnPerson)
	record.Subject = text(row, roadmap.ColumnSubject)
	record.Comment = text(row, roadmap.ColumnComment)

	if raw, ok := row.Get(string(roadmap.ColumnTime)); ok {
		hours, parsed := parseHours(raw)
		if !parsed {
			notes.UnparsedTimes++
		}
		record.Time = hours
	}

	if raw, ok := row.Get(startDateHeaders...); ok {
		record.StartDate = parseDate(raw, serialDates, notes)
	}
	if raw, ok := row.Get(endDateHeaders...); ok {
		record.EndDate = parseDate(raw, serialDates, notes)
	}
	if record.StartDate != nil {
		year := record.StartDate.Year()
		record.Year = &year
		record.Month = record.StartDate.Month().String()
		record.MonthNum = int(record.StartDate.Month())
	}

	if raw, ok := row.Get(string(roadmap.ColumnGroup)); ok {
		record.Group = strings.TrimSpace(raw)
		var dropped int
		record.GroupList, dropped = parseGroupList(record.Group)
		notes.DroppedGroupTokens += dropped
	}

	for header, value := range row.Values {
		if _, known := roadmap.HeaderAliases[header]; known {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		record.Extra[header] = strings.TrimSpace(value)
	}

	return record
}

func text(row RawRow, column roadmap.Column) string {
	value, _ := row.Get(string(column))
	return strings.TrimSpace(value)
}

// normalizeStatus maps missing, empty and "nan" statuses to the default.
func normalizeStatus(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") {
		return roadmap.DefaultStatus
	}
	return value
}

// parseGroupList splits a ";"-separated group cell. A token is kept when it
// is all digits after removing at most one decimal point; it is then
// truncated to an integer. Other non-empty tokens are counted as dropped.
func parseGroupList(raw string) ([]roadmap.GroupID, int) {
	ids := []roadmap.GroupID{}
	dropped := 0
	for _, token := range strings.Split(raw, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, ok := parseGroupToken(token)
		if !ok {
			dropped++
			continue
		}
		ids = append(ids, id)
	}
	return ids, dropped
}

func parseGroupToken(token string) (roadmap.GroupID, bool) {
	digits := strings.Replace(token, ".", "", 1)
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	// Only ids that do not fit an int are dropped.
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value >= math.MaxInt {
		return 0, false
	}
	return roadmap.GroupID(int(value)), true
}

// parseHours reads the time column. Empty cells are 0 and count as parsed.
func parseHours(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, true
	}
	if strings.Contains(cleaned, ",") && !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, false
	}
	return hours, true
}

func parseDate(raw string, serialDates bool, notes *Notes) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	if parsed, ok := timeutil.ParseDayFirst(value); ok {
		return &parsed
	}
	if serialDates {
		if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				day := timeutil.StartOfDay(parsed)
				return &day
			}
		}
	}
	notes.UnparsedDates++
	return nil
}
