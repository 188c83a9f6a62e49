package timeutil

import (
	"strings"
	"time"
)

// dayFirstLayouts are tried in order; numeric forms always read day before month.
var dayFirstLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04",
	"2.1.2006",
	"2.1.2006 15:04",
	"2/1/06",
	"2-1-06",
	"2.1.06",
	"2 January 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDayFirst parses a calendar date, reading ambiguous numeric dates as
// day/month/year. The result is truncated to midnight UTC. ok is false when
// no layout matches.
func ParseDayFirst(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return StartOfDay(parsed), true
		}
	}
	return time.Time{}, false
}

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from start to end, never negative.
func DaysBetween(start, end time.Time) int {
	days := int(StartOfDay(end).Sub(StartOfDay(start)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DaysInclusive counts the calendar days covered by start through end, so a
// same-day range is 1. It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	if StartOfDay(end).Before(StartOfDay(start)) {
		return 0
	}
	return DaysBetween(start, end) + 1
}
