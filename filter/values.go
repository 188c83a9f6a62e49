package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Parameter names shared by the web query string and the CLI flags.
const (
	ParamStatus     = "status"
	ParamYear       = "year"
	ParamMonth      = "month"
	ParamDepartment = "department"
	ParamPerson     = "person"
	ParamGroup      = "group"

	// BlankValue selects records whose cell is empty.
	BlankValue = "(blank)"
)

// FromValues reads repeatable filter parameters. An absent key selects
// everything; a key that is present with only empty values is an explicit
// empty selection. Selections that cover every available value are widened
// back to All. Group values are labels, unparseable years are ignored.
func FromValues(values url.Values, available Available) Criteria {
	var criteria Criteria

	if v, ok := present(values, ParamStatus); ok {
		criteria.Statuses = Only(v...)
	}
	if v, ok := present(values, ParamMonth); ok {
		criteria.Months = Only(v...)
	}
	if v, ok := present(values, ParamDepartment); ok {
		criteria.Departments = Only(v...)
	}
	if v, ok := present(values, ParamPerson); ok {
		criteria.Persons = Only(v...)
	}
	if v, ok := present(values, ParamYear); ok {
		years := make([]int, 0, len(v))
		for _, raw := range v {
			if year, err := strconv.Atoi(raw); err == nil {
				years = append(years, year)
			}
		}
		criteria.Years = Only(years...)
	}
	if v, ok := present(values, ParamGroup); ok {
		criteria.GroupIDs = GroupIDsForLabels(v, available)
	}

	return criteria.Simplify(available)
}

func present(values url.Values, key string) ([]string, bool) {
	raw, ok := values[key]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		switch trimmed := strings.TrimSpace(value); {
		case trimmed == BlankValue:
			out = append(out, "")
		case trimmed != "":
			out = append(out, trimmed)
		}
	}
	return out, true
}
