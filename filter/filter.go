package filter

import "roadboard/roadmap"

// Criteria holds one Selection per filterable dimension. The zero value
// selects every record.
type Criteria struct {
	Statuses    Selection[string]
	Years       Selection[int]
	Months      Selection[string]
	Departments Selection[string]
	Persons     Selection[string]
	GroupIDs    Selection[roadmap.GroupID]
}

type check func(roadmap.Record) bool

// Apply returns a new table with the records that satisfy every active
// dimension. Dimensions whose column is missing from the table are skipped.
// Within GroupIDs a record matches when any of its groups is selected.
func Apply(table *roadmap.Table, criteria Criteria) *roadmap.Table {
	checks := activeChecks(table.Columns, criteria)

	indices := make([]int, 0, table.Len())
	for i, record := range table.Records {
		if matchesAll(record, checks) {
			indices = append(indices, i)
		}
	}
	return table.Subset(indices)
}

func activeChecks(columns roadmap.ColumnSet, criteria Criteria) []check {
	checks := make([]check, 0, 6)

	if columns.Has(roadmap.ColumnStatus) && !criteria.Statuses.IsAll() {
		checks = append(checks, func(r roadmap.Record) bool {
			return criteria.Statuses.Contains(r.Status)
		})
	}
	if columns.Has(roadmap.ColumnStartDate) && !criteria.Years.IsAll() {
		checks = append(checks, func(r roadmap.Record) bool {
			return r.Year != nil && criteria.Years.Contains(*r.Year)
		})
	}
	if columns.Has(roadmap.ColumnStartDate) && !criteria.Months.IsAll() {
		checks = append(checks, func(r roadmap.Record) bool {
			return r.Month != "" && criteria.Months.Contains(r.Month)
		})
	}
	if columns.Has(roadmap.ColumnDepartment) && !criteria.Departments.IsAll() {
		checks = append(checks, func(r roadmap.Record) bool {
			return criteria.Departments.Contains(r.Department)
		})
	}
	if columns.Has(roadmap.ColumnPerson) && !criteria.Persons.IsAll() {
		checks = append(checks, func(r roadmap.Record) bool {
			return criteria.Persons.Contains(r.Person)
		})
	}
	if columns.Has(roadmap.ColumnGroup) && !criteria.GroupIDs.IsAll() {
		ids := criteria.GroupIDs.values
		checks = append(checks, func(r roadmap.Record) bool {
			return r.InGroup(ids)
		})
	}

	return checks
}

func matchesAll(record roadmap.Record, checks []check) bool {
	for _, c := range checks {
		if !c(record) {
			return false
		}
	}
	return true
}

// Simplify turns every explicit selection that covers all available values
// back into All, so a fully ticked UI filter keeps records that have no
// value for that dimension (for example rows without a start date).
func (c Criteria) Simplify(available Available) Criteria {
	out := c
	if c.Statuses.covers(available.Statuses) {
		out.Statuses = All[string]()
	}
	if c.Years.covers(available.Years) {
		out.Years = All[int]()
	}
	if c.Months.covers(available.Months) {
		out.Months = All[string]()
	}
	if c.Departments.covers(available.Departments) {
		out.Departments = All[string]()
	}
	if c.Persons.covers(available.Persons) {
		out.Persons = All[string]()
	}
	if c.GroupIDs.covers(available.GroupIDs()) {
		out.GroupIDs = All[roadmap.GroupID]()
	}
	return out
}
