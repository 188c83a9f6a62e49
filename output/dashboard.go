package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"roadboard/aggregate"
	"roadboard/roadmap"
)

const (
	sheetSummary      = "Summary"
	sheetByDepartment = "By Department"
	sheetByPerson     = "By Person"
	sheetTimeline     = "Timeline"
)

// WriteDashboardExcel writes the aggregates as a workbook with one sheet per
// view and a bar chart for time by department.
func WriteDashboardExcel(out io.Writer, dashboard aggregate.Dashboard) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), sheetSummary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, sheet := range []string{sheetByDepartment, sheetByPerson, sheetTimeline} {
		if _, err := file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	summary := dashboard.Summary
	rows := [][]any{
		{"Metric", "Value"},
		{"Records", summary.Count},
	}
	if summary.HasTime {
		rows = append(rows,
			[]any{"Total time (hours)", roundHours(summary.TotalTime)},
			[]any{"Average time (hours)", roundHours(summary.AvgTime)},
		)
	}
	if err := setRows(file, sheetSummary, rows); err != nil {
		return err
	}

	rows = [][]any{{"Department", "Time"}}
	for _, entry := range dashboard.ByDepartment {
		rows = append(rows, []any{entry.Department, roundHours(entry.Time)})
	}
	if err := setRows(file, sheetByDepartment, rows); err != nil {
		return err
	}
	if len(dashboard.ByDepartment) > 0 {
		if err := addDepartmentChart(file, len(dashboard.ByDepartment)); err != nil {
			return err
		}
	}

	rows = [][]any{{"Person", "Department", "Time"}}
	for _, entry := range dashboard.ByPersonDepartment {
		rows = append(rows, []any{entry.Person, entry.Department, roundHours(entry.Time)})
	}
	if err := setRows(file, sheetByPerson, rows); err != nil {
		return err
	}

	rows = [][]any{{"Row", "Label", "Start", "End", "Color"}}
	for _, bar := range dashboard.Timeline {
		rows = append(rows, []any{bar.RowNumber, bar.Label, roadmap.FormatDate(&bar.Start), roadmap.FormatDate(&bar.End), bar.Color})
	}
	if err := setRows(file, sheetTimeline, rows); err != nil {
		return err
	}

	if err := file.Write(out); err != nil {
		return fmt.Errorf("write dashboard workbook: %w", err)
	}
	return nil
}

func WriteDashboardExcelFile(path string, dashboard aggregate.Dashboard) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard output %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteDashboardExcel(file, dashboard); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close dashboard output %s: %w", path, err)
	}
	return nil
}

func addDepartmentChart(file *excelize.File, entries int) error {
	ref := fmt.Sprintf("'%s'!$%%s$2:$%%s$%d", sheetByDepartment, entries+1)
	chart := &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       "Time",
			Categories: fmt.Sprintf(ref, "A", "A"),
			Values:     fmt.Sprintf(ref, "B", "B"),
		}},
		Title: []excelize.RichTextRun{{Text: "Time by department"}},
	}
	if err := file.AddChart(sheetByDepartment, "D2", chart); err != nil {
		return fmt.Errorf("add department chart: %w", err)
	}
	return nil
}

func setRows(file *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		if err := setRow(file, sheet, i+1, values); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaryText prints the metrics and grouped totals as aligned text.
func WriteSummaryText(out io.Writer, dashboard aggregate.Dashboard) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	summary := dashboard.Summary
	fmt.Fprintf(tw, "Records:\t%d\n", summary.Count)
	if summary.HasTime {
		fmt.Fprintf(tw, "Total time:\t%.2f\n", summary.TotalTime)
		fmt.Fprintf(tw, "Average time:\t%.2f\n", summary.AvgTime)
	}

	if dashboard.Empty() {
		fmt.Fprintln(tw, "\nNo records match the current filters.")
		return tw.Flush()
	}

	if len(dashboard.ByDepartment) > 0 {
		fmt.Fprintln(tw, "\nDEPARTMENT\tTIME")
		for _, entry := range dashboard.ByDepartment {
			fmt.Fprintf(tw, "%s\t%.2f\n", entry.Department, entry.Time)
		}
	}
	if len(dashboard.ByPersonDepartment) > 0 {
		fmt.Fprintln(tw, "\nPERSON\tDEPARTMENT\tTIME")
		for _, entry := range dashboard.ByPersonDepartment {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\n", entry.Person, entry.Department, entry.Time)
		}
	}
	if len(dashboard.Timeline) > 0 {
		fmt.Fprintln(tw, "\nTIMELINE\tSTART\tEND\tCOLOR")
		for _, bar := range dashboard.Timeline {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bar.Label, roadmap.FormatDate(&bar.Start), roadmap.FormatDate(&bar.End), bar.Color)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}
