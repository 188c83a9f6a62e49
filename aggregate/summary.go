package aggregate

import (
	"sort"

	"roadboard/roadmap"
)

// Summary holds the headline metrics of a table. Time figures are zero when
// the table has no time column or no records.
type Summary struct {
	Count     int     `json:"count"`
	TotalTime float64 `json:"total_time"`
	AvgTime   float64 `json:"avg_time"`
	HasTime   bool    `json:"has_time"`
}

type DepartmentTime struct {
	Department string  `json:"department"`
	Time       float64 `json:"time"`
}

type PersonDepartmentTime struct {
	Person     string  `json:"person"`
	Department string  `json:"department"`
	Time       float64 `json:"time"`
}

func Summarize(table *roadmap.Table) Summary {
	summary := Summary{Count: table.Len()}
	if table.Len() == 0 || !table.Columns.Has(roadmap.ColumnTime) {
		return summary
	}

	summary.HasTime = true
	for _, record := range table.Records {
		summary.TotalTime += record.Time
	}
	summary.AvgTime = summary.TotalTime / float64(summary.Count)
	return summary
}

// ByDepartment sums time per distinct department, ordered by department name.
// It returns nil when the table has no department or time column.
func ByDepartment(table *roadmap.Table) []DepartmentTime {
	if !table.Columns.Has(roadmap.ColumnDepartment) || !table.Columns.Has(roadmap.ColumnTime) {
		return nil
	}

	totals := make(map[string]float64)
	for _, record := range table.Records {
		totals[record.Department] += record.Time
	}

	departments := make([]string, 0, len(totals))
	for department := range totals {
		departments = append(departments, department)
	}
	sort.Strings(departments)

	out := make([]DepartmentTime, 0, len(departments))
	for _, department := range departments {
		out = append(out, DepartmentTime{Department: department, Time: totals[department]})
	}
	return out
}

// ByPersonDepartment sums time per (person, department) pair, largest first.
// Equal totals keep the order in which the pair first appeared. Without a
// department column every person is grouped under an empty department.
func ByPersonDepartment(table *roadmap.Table) []PersonDepartmentTime {
	if !table.Columns.Has(roadmap.ColumnPerson) || !table.Columns.Has(roadmap.ColumnTime) {
		return nil
	}

	type key struct{ person, department string }
	index := make(map[key]int)
	out := make([]PersonDepartmentTime, 0)

	for _, record := range table.Records {
		k := key{person: record.Person, department: record.Department}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, PersonDepartmentTime{Person: k.person, Department: k.department})
		}
		out[i].Time += record.Time
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time > out[j].Time
	})
	return out
}
