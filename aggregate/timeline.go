package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"roadboard/internal/timeutil"
	"roadboard/roadmap"
)

type TimelineKey string

const (
	TimelineBySubject TimelineKey = "subject"
	TimelineByPerson  TimelineKey = "person"
)

func ParseTimelineKey(value string) (TimelineKey, error) {
	switch TimelineKey(strings.ToLower(strings.TrimSpace(value))) {
	case "", TimelineBySubject:
		return TimelineBySubject, nil
	case TimelineByPerson:
		return TimelineByPerson, nil
	default:
		return "", fmt.Errorf("unsupported timeline key: %s", value)
	}
}

// TimelineBar is one record placed between its start and end date.
type TimelineBar struct {
	RowNumber int       `json:"row_number"`
	Label     string    `json:"label"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Days      int       `json:"days"`
	Color     string    `json:"color"`
	Hover     string    `json:"hover"`
}

// Timeline returns one bar per record that has both dates, in record order.
// Bars are colored by status, or by department when the table has no status
// column. It returns nil when the table lacks a date column.
func Timeline(table *roadmap.Table, key TimelineKey) []TimelineBar {
	if !table.Columns.HasDateRange() {
		return nil
	}

	labelOf := labelFunc(table.Columns, key)
	colorOf := func(r roadmap.Record) string { return r.Department }
	if table.Columns.Has(roadmap.ColumnStatus) {
		colorOf = func(r roadmap.Record) string { return r.Status }
	}

	out := make([]TimelineBar, 0, table.Len())
	for _, record := range table.Records {
		if !record.HasDates() {
			continue
		}
		out = append(out, TimelineBar{
			RowNumber: record.RowNumber,
			Label:     labelOf(record),
			Start:     *record.StartDate,
			End:       *record.EndDate,
			Days:      timeutil.DaysInclusive(*record.StartDate, *record.EndDate),
			Color:     colorOf(record),
			Hover:     hoverText(table.Columns, record),
		})
	}
	return out
}

func labelFunc(columns roadmap.ColumnSet, key TimelineKey) func(roadmap.Record) string {
	if key == TimelineByPerson || !columns.Has(roadmap.ColumnSubject) {
		return func(r roadmap.Record) string { return r.Person }
	}
	return func(r roadmap.Record) string { return r.Subject }
}

func hoverText(columns roadmap.ColumnSet, record roadmap.Record) string {
	parts := make([]string, 0, 3)
	if columns.Has(roadmap.ColumnPerson) {
		parts = append(parts, "Person: "+record.Person)
	}
	if columns.Has(roadmap.ColumnStatus) {
		parts = append(parts, "Status: "+record.Status)
	}
	if columns.Has(roadmap.ColumnComment) && record.Comment != "" {
		parts = append(parts, "Comment: "+record.Comment)
	}
	return strings.Join(parts, "\n")
}

// PersonSpan describes how much calendar time a person's dated records cover.
// Overlapping records are merged, so CoveredDays never exceeds the span.
type PersonSpan struct {
	Person      string    `json:"person"`
	First       time.Time `json:"first"`
	Last        time.Time `json:"last"`
	CoveredDays int       `json:"covered_days"`
	Records     int       `json:"records"`
}

type interval struct {
	start time.Time
	end   time.Time
}

// ByPersonSpan groups timeline records per person, ordered by person name.
func ByPersonSpan(table *roadmap.Table) []PersonSpan {
	if !table.Columns.HasDateRange() || !table.Columns.Has(roadmap.ColumnPerson) {
		return nil
	}

	byPerson := make(map[string][]interval)
	for _, record := range table.Records {
		if !record.HasDates() {
			continue
		}
		end := record.EndDate.AddDate(0, 0, 1)
		if end.Before(*record.StartDate) {
			end = *record.StartDate
		}
		byPerson[record.Person] = append(byPerson[record.Person], interval{start: *record.StartDate, end: end})
	}

	persons := make([]string, 0, len(byPerson))
	for person := range byPerson {
		persons = append(persons, person)
	}
	sort.Strings(persons)

	out := make([]PersonSpan, 0, len(persons))
	for _, person := range persons {
		intervals := byPerson[person]
		sort.Slice(intervals, func(i, j int) bool {
			return intervals[i].start.Before(intervals[j].start)
		})

		last := intervals[0].end
		for _, candidate := range intervals[1:] {
			if candidate.end.After(last) {
				last = candidate.end
			}
		}

		out = append(out, PersonSpan{
			Person:      person,
			First:       intervals[0].start,
			Last:        last.AddDate(0, 0, -1),
			CoveredDays: int(mergedCoverage(intervals).Hours() / 24),
			Records:     len(intervals),
		})
	}
	return out
}

// mergedCoverage expects intervals sorted by start.
func mergedCoverage(intervals []interval) time.Duration {
	if len(intervals) == 0 {
		return 0
	}

	currentStart := intervals[0].start
	currentEnd := intervals[0].end
	covered := time.Duration(0)

	for _, candidate := range intervals[1:] {
		if candidate.start.After(currentEnd) {
			covered += currentEnd.Sub(currentStart)
			currentStart = candidate.start
			currentEnd = candidate.end
			continue
		}
		if candidate.end.After(currentEnd) {
			currentEnd = candidate.end
		}
	}

	covered += currentEnd.Sub(currentStart)
	return covered
}
