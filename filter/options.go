package filter

import (
	"slices"
	"sort"

	"roadboard/roadmap"
)

type GroupOption struct {
	ID    roadmap.GroupID `json:"id"`
	Label string          `json:"label"`
}

// Available lists the values a user can pick per dimension. A nil slice means
// the table has no column for that dimension.
type Available struct {
	Statuses    []string      `json:"statuses,omitempty"`
	Years       []int         `json:"years,omitempty"`
	Months      []string      `json:"months,omitempty"`
	Departments []string      `json:"departments,omitempty"`
	Persons     []string      `json:"persons,omitempty"`
	Groups      []GroupOption `json:"groups,omitempty"`

	labels roadmap.GroupLabels
}

// Options derives the selectable values from the canonical table. Text values
// keep first-seen order, years are ascending and months follow the calendar.
func Options(table *roadmap.Table) Available {
	var out Available
	columns := table.Columns

	if columns.Has(roadmap.ColumnStatus) {
		out.Statuses = distinct(table, func(r roadmap.Record) string { return r.Status })
	}
	if columns.Has(roadmap.ColumnDepartment) {
		out.Departments = distinct(table, func(r roadmap.Record) string { return r.Department })
	}
	if columns.Has(roadmap.ColumnPerson) {
		out.Persons = distinct(table, func(r roadmap.Record) string { return r.Person })
	}
	if columns.Has(roadmap.ColumnStartDate) {
		out.Years, out.Months = calendar(table)
	}

	var present []roadmap.GroupID
	seen := make(map[roadmap.GroupID]struct{})
	for _, record := range table.Records {
		for _, id := range record.GroupList {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			present = append(present, id)
		}
	}
	out.labels = roadmap.NewGroupLabels(present...)
	if columns.Has(roadmap.ColumnGroup) {
		for _, id := range out.labels.IDs() {
			out.Groups = append(out.Groups, GroupOption{ID: id, Label: id.Label()})
		}
	}

	return out
}

// GroupIDs returns the ids of every group option, ascending.
func (a Available) GroupIDs() []roadmap.GroupID {
	out := make([]roadmap.GroupID, 0, len(a.Groups))
	for _, g := range a.Groups {
		out = append(out, g.ID)
	}
	return out
}

// GroupLabels lists the group labels in id order.
func (a Available) GroupLabels() []string {
	out := make([]string, 0, len(a.Groups))
	for _, g := range a.Groups {
		out = append(out, g.Label)
	}
	return out
}

// GroupIDsForLabels maps UI labels back to group ids. Labels that match no
// known or present group are ignored, so a selection of only unknown labels
// is an explicit empty selection.
func GroupIDsForLabels(labels []string, available Available) Selection[roadmap.GroupID] {
	lookup := available.labels
	if len(lookup.IDs()) == 0 {
		lookup = roadmap.NewGroupLabels()
	}
	ids := make([]roadmap.GroupID, 0, len(labels))
	for _, label := range labels {
		if id, ok := lookup.Lookup(label); ok {
			ids = append(ids, id)
		}
	}
	return Only(ids...)
}

func distinct(table *roadmap.Table, value func(roadmap.Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, record := range table.Records {
		v := value(record)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func calendar(table *roadmap.Table) ([]int, []string) {
	years := make([]int, 0)
	seenYears := make(map[int]struct{})
	monthNames := make(map[int]string)

	for _, record := range table.Records {
		if record.Year != nil {
			if _, ok := seenYears[*record.Year]; !ok {
				seenYears[*record.Year] = struct{}{}
				years = append(years, *record.Year)
			}
		}
		if record.MonthNum > 0 {
			monthNames[record.MonthNum] = record.Month
		}
	}
	slices.Sort(years)

	nums := make([]int, 0, len(monthNames))
	for num := range monthNames {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	months := make([]string, 0, len(nums))
	for _, num := range nums {
		months = append(months, monthNames[num])
	}
	return years, months
}
