package aggregate

import "roadboard/roadmap"

// Dashboard bundles every aggregate a renderer needs for one filtered table.
type Dashboard struct {
	Summary            Summary                `json:"summary"`
	ByDepartment       []DepartmentTime       `json:"by_department"`
	ByPersonDepartment []PersonDepartmentTime `json:"by_person_department"`
	Timeline           []TimelineBar          `json:"timeline"`
	PersonSpans        []PersonSpan           `json:"person_spans"`
}

func Build(table *roadmap.Table, key TimelineKey) Dashboard {
	return Dashboard{
		Summary:            Summarize(table),
		ByDepartment:       ByDepartment(table),
		ByPersonDepartment: ByPersonDepartment(table),
		Timeline:           Timeline(table, key),
		PersonSpans:        ByPersonSpan(table),
	}
}

// Empty reports whether there is nothing to chart.
func (d Dashboard) Empty() bool {
	return d.Summary.Count == 0
}
