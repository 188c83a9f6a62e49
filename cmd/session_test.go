package cmd

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"roadboard/aggregate"
	"roadboard/config"
)

func newFilterCommand(flags *filterFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.register(cmd)
	return cmd
}

func TestFilterFlags_ValuesOnlyForChangedFlags(t *testing.T) {
	t.Parallel()

	var flags filterFlags
	cmd := newFilterCommand(&flags)
	if err := cmd.ParseFlags([]string{"--department", "A", "--department", "B", "--status="}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	values := flags.values(cmd)
	if !reflect.DeepEqual(values["department"], []string{"A", "B"}) {
		t.Fatalf("expected departments [A B], got %v", values["department"])
	}
	status, ok := values["status"]
	if !ok || !reflect.DeepEqual(status, []string{""}) {
		t.Fatalf("expected explicit empty status, got %v (present %v)", status, ok)
	}
	if _, ok := values["person"]; ok {
		t.Fatalf("did not expect person filter")
	}
}

func TestFilterFlags_RejectsInvalidYear(t *testing.T) {
	t.Parallel()

	var flags filterFlags
	cmd := newFilterCommand(&flags)
	if err := cmd.ParseFlags([]string{"--year", "next"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if err := flags.validate(); err == nil {
		t.Fatalf("expected invalid year error")
	}
}

func TestSession_FilteredTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roadmap.csv")
	content := "Department,Person,Status,Time\nA,Ann,Done,2\nB,Bob,,3\nA,Cid,Ongoing,5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var flags filterFlags
	cmd := newFilterCommand(&flags)
	if err := cmd.ParseFlags([]string{"--status", "Ongoing"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	rt := testSession(t, path)
	table, err := rt.filteredTable(context.Background(), cmd, &flags)
	if err != nil {
		t.Fatalf("filtered table: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected Bob and Cid (default status Ongoing), got %d records", table.Len())
	}
	if rt.timelineKey() != aggregate.TimelineByPerson {
		t.Fatalf("expected timeline key from config, got %q", rt.timelineKey())
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := newLogger(config.LogConfig{Level: "loud", Format: "text"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"out.csv":        "csv",
		"out.XLSX":       "excel",
		"report.xlsm":    "excel",
		"no-extension":   "csv",
		"dashboard.xls":  "excel",
		"./dir/data.txt": "csv",
	}
	for path, want := range tests {
		if got := detectExportFormat(path); got != want {
			t.Fatalf("detectExportFormat(%q) = %q, expected %q", path, got, want)
		}
	}
}
