package loader

import (
	"testing"
	"time"

	"roadboard/roadmap"
)

func TestParseGroupList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		want        []roadmap.GroupID
		wantDropped int
	}{
		{name: "mixed tokens", input: "1;2.0;x", want: []roadmap.GroupID{1, 2}, wantDropped: 1},
		{name: "spaces", input: " 0 ; 3 ", want: []roadmap.GroupID{0, 3}},
		{name: "fraction truncated", input: "2.7", want: []roadmap.GroupID{2}},
		{name: "two decimal points", input: "1.2.3;4", want: []roadmap.GroupID{4}, wantDropped: 1},
		{name: "negative dropped", input: "-1;5", want: []roadmap.GroupID{5}, wantDropped: 1},
		{name: "trailing separator", input: "4;", want: []roadmap.GroupID{4}},
		{name: "lone dot", input: ".", want: []roadmap.GroupID{}, wantDropped: 1},
		{name: "empty", input: "", want: []roadmap.GroupID{}},
		{name: "large id kept", input: "3000000000;7", want: []roadmap.GroupID{3000000000, 7}},
		{name: "id beyond int dropped", input: "99999999999999999999;7", want: []roadmap.GroupID{7}, wantDropped: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, dropped := parseGroupList(tc.input)
			if dropped != tc.wantDropped {
				t.Fatalf("dropped for %q: want %d, got %d", tc.input, tc.wantDropped, dropped)
			}
			if got == nil {
				t.Fatalf("expected non-nil group list for %q", tc.input)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("group list for %q: want %v, got %v", tc.input, tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("group list for %q: want %v, got %v", tc.input, tc.want, got)
				}
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":          roadmap.DefaultStatus,
		"   ":       roadmap.DefaultStatus,
		"nan":       roadmap.DefaultStatus,
		"NaN":       roadmap.DefaultStatus,
		" Done ":    "Done",
		"Blocked":   "Blocked",
		"nan today": "nan today",
	}
	for input, want := range tests {
		if got := normalizeStatus(input); got != want {
			t.Fatalf("normalizeStatus(%q): want %q, got %q", input, want, got)
		}
	}
}

func TestParseHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "", want: 0, ok: true},
		{input: "7.5", want: 7.5, ok: true},
		{input: "7,5", want: 7.5, ok: true},
		{input: "12", want: 12, ok: true},
		{input: "NaN", want: 0, ok: false},
		{input: "lots", want: 0, ok: false},
	}
	for _, tc := range tests {
		got, ok := parseHours(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseHours(%q) = %v, %v; want %v, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBuildTable_DerivesFieldsAndDegradesGracefully(t *testing.T) {
	t.Parallel()

	raw := &RawTable{
		Headers: []string{"subject", "status", "start_date", "end date", "group", "time", "owner team"},
		Rows: []RawRow{
			{RowNumber: 2, Values: map[string]string{
				"subject": " Launch ", "status": "nan", "start_date": "15/03/2025", "end date": "30/04/2025",
				"group": "0;3", "time": "10", "owner team": " Blue ",
			}},
			{RowNumber: 3, Values: map[string]string{
				"subject": "Broken", "status": "", "start_date": "not-a-date", "end date": "",
				"group": "x", "time": "abc", "owner team": "",
			}},
		},
	}

	table, notes := buildTable(raw)
	if table.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", table.Len())
	}
	if !table.Columns.Has(roadmap.ColumnStartDate) || !table.Columns.Has(roadmap.ColumnEndDate) {
		t.Fatalf("expected both date columns to be recognized: %v", table.Columns)
	}
	if table.Columns.Has(roadmap.ColumnDepartment) {
		t.Fatalf("department column must not be reported as present")
	}

	first := table.Records[0]
	if first.Subject != "Launch" || first.Status != roadmap.DefaultStatus {
		t.Fatalf("unexpected text normalization: %+v", first)
	}
	if first.StartDate == nil || !first.StartDate.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date: %v", first.StartDate)
	}
	if first.Year == nil || *first.Year != 2025 || first.Month != "March" || first.MonthNum != 3 {
		t.Fatalf("unexpected derived month fields: year=%v month=%q num=%d", first.Year, first.Month, first.MonthNum)
	}
	if len(first.GroupList) != 2 || first.Time != 10 {
		t.Fatalf("unexpected group list/time: %v %v", first.GroupList, first.Time)
	}
	if first.Extra["owner team"] != "Blue" {
		t.Fatalf("expected extra column to be kept and trimmed, got %v", first.Extra)
	}

	second := table.Records[1]
	if second.StartDate != nil || second.EndDate != nil || second.Year != nil || second.Month != "" || second.MonthNum != 0 {
		t.Fatalf("expected null dates and derived fields, got %+v", second)
	}
	if second.Status != roadmap.DefaultStatus {
		t.Fatalf("expected empty status to default, got %q", second.Status)
	}
	if notes.UnparsedDates != 1 || notes.DroppedGroupTokens != 1 || notes.UnparsedTimes != 1 {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}

func TestBuildTable_MissingOptionalColumns(t *testing.T) {
	t.Parallel()

	raw := &RawTable{
		Headers: []string{"person"},
		Rows:    []RawRow{{RowNumber: 2, Values: map[string]string{"person": "Ana"}}},
	}

	table, notes := buildTable(raw)
	record := table.Records[0]
	if record.Status != roadmap.DefaultStatus {
		t.Fatalf("expected default status without a status column, got %q", record.Status)
	}
	if record.GroupList == nil || len(record.GroupList) != 0 {
		t.Fatalf("expected empty group list, got %v", record.GroupList)
	}
	if table.Columns.Has(roadmap.ColumnStatus) || table.Columns.Has(roadmap.ColumnGroup) {
		t.Fatalf("absent columns reported as present: %v", table.Columns)
	}
	if !notes.Empty() {
		t.Fatalf("expected no notes, got %+v", notes)
	}
}

func TestParseDate_SerialOnlyForSpreadsheets(t *testing.T) {
	t.Parallel()

	var notes Notes
	got := parseDate("45658", true, &notes)
	if got == nil || !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected serial 45658 to be 2025-01-01, got %v", got)
	}

	if got := parseDate("45658", false, &notes); got != nil {
		t.Fatalf("expected plain number in csv to stay unparsed, got %v", got)
	}
	if notes.UnparsedDates != 1 {
		t.Fatalf("expected one unparsed date note, got %d", notes.UnparsedDates)
	}
}
