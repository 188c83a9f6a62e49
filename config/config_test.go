package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_AcceptsExample(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Serve.Port != 8501 {
		t.Fatalf("expected default port 8501, got %d", cfg.Serve.Port)
	}
	if cfg.Dashboard.TimelineBy != "subject" {
		t.Fatalf("expected timeline by subject, got %q", cfg.Dashboard.TimelineBy)
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("source:\n  path: \"data.csv\"\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Snapshot.DBPath != "./roadboard.db" || cfg.Log.Level != "info" || !cfg.Serve.OpenBrowser {
		t.Fatalf("expected defaults to be applied, got %+v", cfg)
	}
}

func TestValidateYAMLContent_NormalizesCase(t *testing.T) {
	t.Parallel()

	content := []byte(`source:
  path: "data.xlsx"
  format: "Excel"
log:
  level: "DEBUG"
  format: "JSON"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Source.Format != "excel" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("expected lowercase values, got %+v", cfg)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unsupported format",
			content: "source:\n  path: \"data.ods\"\n  format: \"ods\"\n",
			wantErr: "Format",
		},
		{
			name:    "port out of range",
			content: "source:\n  path: \"data.csv\"\nserve:\n  port: 70000\n",
			wantErr: "Port",
		},
		{
			name:    "unknown log level",
			content: "source:\n  path: \"data.csv\"\nlog:\n  level: \"trace\"\n",
			wantErr: "Level",
		},
		{
			name:    "gsheet without id",
			content: "source:\n  path: \"gsheet://\"\n",
			wantErr: "spreadsheet id",
		},
		{
			name:    "gsheet format with file path",
			content: "source:\n  path: \"data.xlsx\"\n  format: \"gsheet\"\n",
			wantErr: "must start with gsheet://",
		},
		{
			name:    "credentials for local file",
			content: "source:\n  path: \"data.xlsx\"\n  credentials_file: \"sa.json\"\n",
			wantErr: "credentials_file",
		},
		{
			name:    "unknown timeline key",
			content: "source:\n  path: \"data.xlsx\"\ndashboard:\n  timeline_by: \"department\"\n",
			wantErr: "TimelineBy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateYAMLContent([]byte(tt.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error to contain %q, got %v", tt.wantErr, err)
			}
		})
	}
}
