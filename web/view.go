package web

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"roadboard/aggregate"
	"roadboard/filter"
	"roadboard/output"
	"roadboard/roadmap"
)

var palette = []string{"#4c78a8", "#f58518", "#54a24b", "#e45756", "#72b7b2", "#eeca3b", "#b279a2", "#9d755d"}

type optionView struct {
	Value   string
	Label   string
	Checked bool
}

type filterGroupView struct {
	Param   string
	Title   string
	Options []optionView
}

type barView struct {
	Label   string
	Detail  string
	Value   float64
	Percent float64
}

type timelineRowView struct {
	Label        string
	Start        time.Time
	End          time.Time
	Days         int
	Legend       string
	Color        string
	Hover        string
	OffsetPct    float64
	WidthPct     float64
	RowReference int
}

type legendView struct {
	Label string
	Color string
}

type pageView struct {
	Title           string
	Source          string
	Total           int
	Filters         []filterGroupView
	TimelineBy      string
	Summary         aggregate.Summary
	Empty           bool
	DepartmentBars  []barView
	PersonBars      []barView
	Timeline        []timelineRowView
	Legend          []legendView
	Columns         []string
	Rows            [][]string
	ExportCSV       template.URL
	ExportExcel     template.URL
	ExportDashboard template.URL
}

func buildPageView(source string, result filtered, query url.Values) pageView {
	dashboard := aggregate.Build(result.table, result.timeline)

	view := pageView{
		Title:      "roadboard",
		Source:     source,
		Total:      result.canonical.Len(),
		Filters:    buildFilterGroups(result.available, result.criteria),
		TimelineBy: string(result.timeline),
		Summary:    dashboard.Summary,
		Empty:      dashboard.Empty(),
		Columns:    output.Columns(result.table),
	}

	encoded := query.Encode()
	view.ExportCSV = exportLink("/export.csv", encoded)
	view.ExportExcel = exportLink("/export.xlsx", encoded)
	view.ExportDashboard = exportLink("/export/dashboard.xlsx", encoded)

	for _, entry := range dashboard.ByDepartment {
		view.DepartmentBars = append(view.DepartmentBars, barView{Label: entry.Department, Value: entry.Time})
	}
	for _, entry := range dashboard.ByPersonDepartment {
		view.PersonBars = append(view.PersonBars, barView{Label: entry.Person, Detail: entry.Department, Value: entry.Time})
	}
	scaleBars(view.DepartmentBars)
	scaleBars(view.PersonBars)

	view.Timeline, view.Legend = buildTimelineRows(dashboard.Timeline)

	for _, record := range result.table.Records {
		row := make([]string, 0, len(view.Columns))
		for _, column := range view.Columns {
			row = append(row, output.CellText(record, column))
		}
		view.Rows = append(view.Rows, row)
	}

	return view
}

func buildFilterGroups(available filter.Available, criteria filter.Criteria) []filterGroupView {
	groups := make([]filterGroupView, 0, 6)

	text := func(param, title string, values []string, selection filter.Selection[string]) {
		if values == nil {
			return
		}
		group := filterGroupView{Param: param, Title: title}
		for _, value := range values {
			option := optionView{Value: value, Label: value, Checked: selection.Contains(value)}
			if value == "" {
				option.Value = filter.BlankValue
				option.Label = filter.BlankValue
			}
			group.Options = append(group.Options, option)
		}
		groups = append(groups, group)
	}

	text(filter.ParamStatus, "Status", available.Statuses, criteria.Statuses)
	if available.Years != nil {
		group := filterGroupView{Param: filter.ParamYear, Title: "Year"}
		for _, year := range available.Years {
			value := strconv.Itoa(year)
			group.Options = append(group.Options, optionView{Value: value, Label: value, Checked: criteria.Years.Contains(year)})
		}
		groups = append(groups, group)
	}
	text(filter.ParamMonth, "Month", available.Months, criteria.Months)
	text(filter.ParamDepartment, "Department", available.Departments, criteria.Departments)
	text(filter.ParamPerson, "Person", available.Persons, criteria.Persons)
	if available.Groups != nil {
		group := filterGroupView{Param: filter.ParamGroup, Title: "Group"}
		for _, option := range available.Groups {
			group.Options = append(group.Options, optionView{
				Value:   option.Label,
				Label:   option.Label,
				Checked: criteria.GroupIDs.Contains(option.ID),
			})
		}
		groups = append(groups, group)
	}

	return groups
}

// scaleBars sets each bar's width relative to the largest value.
func scaleBars(bars []barView) {
	var largest float64
	for _, bar := range bars {
		if bar.Value > largest {
			largest = bar.Value
		}
	}
	if largest <= 0 {
		return
	}
	for i := range bars {
		bars[i].Percent = bars[i].Value / largest * 100
	}
}

// buildTimelineRows positions every bar on a shared axis from the earliest
// start to the latest end and assigns one palette color per legend entry.
func buildTimelineRows(bars []aggregate.TimelineBar) ([]timelineRowView, []legendView) {
	if len(bars) == 0 {
		return nil, nil
	}

	axisStart, axisEnd := bars[0].Start, bars[0].End
	for _, bar := range bars {
		if bar.Start.Before(axisStart) {
			axisStart = bar.Start
		}
		if bar.End.After(axisEnd) {
			axisEnd = bar.End
		}
	}
	span := axisEnd.Sub(axisStart)

	colors := make(map[string]string)
	var legend []legendView
	rows := make([]timelineRowView, 0, len(bars))
	for _, bar := range bars {
		color, ok := colors[bar.Color]
		if !ok {
			color = palette[len(colors)%len(palette)]
			colors[bar.Color] = color
			legend = append(legend, legendView{Label: bar.Color, Color: color})
		}

		row := timelineRowView{
			Label:        bar.Label,
			Start:        bar.Start,
			End:          bar.End,
			Days:         bar.Days,
			Legend:       bar.Color,
			Color:        color,
			Hover:        bar.Hover,
			WidthPct:     100,
			RowReference: bar.RowNumber,
		}
		if span > 0 {
			row.OffsetPct = float64(bar.Start.Sub(axisStart)) / float64(span) * 100
			width := bar.End.Sub(bar.Start)
			if width < 0 {
				width = 0
			}
			row.WidthPct = float64(width) / float64(span) * 100
			if row.WidthPct < 0.5 {
				row.WidthPct = 0.5
			}
		}
		rows = append(rows, row)
	}

	return rows, legend
}

// exportLink keeps the active filters on download links.
func exportLink(path, encoded string) template.URL {
	if encoded == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + encoded)
}

type criteriaView struct {
	Statuses    []string          `json:"statuses"`
	Years       []int             `json:"years"`
	Months      []string          `json:"months"`
	Departments []string          `json:"departments"`
	Persons     []string          `json:"persons"`
	Groups      []roadmap.GroupID `json:"groups"`
}

// newCriteriaView lists the explicit selections; dimensions left at All
// encode as null.
func newCriteriaView(criteria filter.Criteria) criteriaView {
	return criteriaView{
		Statuses:    criteria.Statuses.Values(),
		Years:       criteria.Years.Values(),
		Months:      criteria.Months.Values(),
		Departments: criteria.Departments.Values(),
		Persons:     criteria.Persons.Values(),
		Groups:      criteria.GroupIDs.Values(),
	}
}
