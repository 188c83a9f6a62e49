package roadmap

// Column identifies a recognized source column. Date columns accept both the
// spaced and the underscored header variant.
type Column string

const (
	ColumnDepartment Column = "department"
	ColumnPerson     Column = "person"
	ColumnSubject    Column = "subject"
	ColumnComment    Column = "comment"
	ColumnStatus     Column = "status"
	ColumnTime       Column = "time"
	ColumnStartDate  Column = "start date"
	ColumnEndDate    Column = "end date"
	ColumnGroup      Column = "group"
)

// TextColumns are coerced to string and trimmed on load.
var TextColumns = []Column{ColumnStatus, ColumnDepartment, ColumnPerson, ColumnSubject, ColumnComment}

// HeaderAliases maps every accepted normalized header to its column.
var HeaderAliases = map[string]Column{
	"department": ColumnDepartment,
	"person":     ColumnPerson,
	"subject":    ColumnSubject,
	"comment":    ColumnComment,
	"status":     ColumnStatus,
	"time":       ColumnTime,
	"start date": ColumnStartDate,
	"start_date": ColumnStartDate,
	"end date":   ColumnEndDate,
	"end_date":   ColumnEndDate,
	"group":      ColumnGroup,
}

// ColumnSet records which recognized columns a table was loaded with.
type ColumnSet map[Column]bool

func NewColumnSet(columns ...Column) ColumnSet {
	set := make(ColumnSet, len(columns))
	for _, column := range columns {
		set[column] = true
	}
	return set
}

func (s ColumnSet) Has(column Column) bool {
	return s[column]
}

// HasDateRange reports whether both timeline columns are present.
func (s ColumnSet) HasDateRange() bool {
	return s.Has(ColumnStartDate) && s.Has(ColumnEndDate)
}
