package roadmap

import (
	"strconv"
	"time"
)

// DefaultStatus is assigned to records whose status cell is missing, empty or "nan".
const DefaultStatus = "Ongoing"

// Record is one normalized roadmap row used across loaders, filters and outputs.
type Record struct {
	RowNumber  int
	Department string
	Person     string
	Subject    string
	Comment    string
	Status     string
	Time       float64
	StartDate  *time.Time
	EndDate    *time.Time
	Group      string
	GroupList  []GroupID
	Year       *int
	Month      string
	MonthNum   int
	Extra      map[string]string
}

// HasDates reports whether the record can be placed on a timeline.
func (r Record) HasDates() bool {
	return r.StartDate != nil && r.EndDate != nil
}

// InGroup reports whether any of the record's groups is in ids.
func (r Record) InGroup(ids map[GroupID]struct{}) bool {
	for _, id := range r.GroupList {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	return false
}

// Value renders the field behind a normalized header as text. Unrecognized
// headers read from Extra; dates use ISO format and are empty when unset.
func (r Record) Value(header string) string {
	column, ok := HeaderAliases[header]
	if !ok {
		return r.Extra[header]
	}
	switch column {
	case ColumnDepartment:
		return r.Department
	case ColumnPerson:
		return r.Person
	case ColumnSubject:
		return r.Subject
	case ColumnComment:
		return r.Comment
	case ColumnStatus:
		return r.Status
	case ColumnTime:
		return strconv.FormatFloat(r.Time, 'f', -1, 64)
	case ColumnStartDate:
		return FormatDate(r.StartDate)
	case ColumnEndDate:
		return FormatDate(r.EndDate)
	case ColumnGroup:
		return r.Group
	default:
		return ""
	}
}

// FormatDate returns value as YYYY-MM-DD, or "" for nil.
func FormatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}
