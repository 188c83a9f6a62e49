package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roadboard/config"
)

func TestResolveConfigEditPath(t *testing.T) {
	t.Run("uses explicit flag first", func(t *testing.T) {
		got, err := resolveConfigEditPath("./custom.yaml", "/tmp/active.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "./custom.yaml" {
			t.Fatalf("expected explicit config path, got %q", got)
		}
	})

	t.Run("uses active config when flag is empty", func(t *testing.T) {
		got, err := resolveConfigEditPath("", "/tmp/active.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/tmp/active.yaml" {
			t.Fatalf("expected active config path, got %q", got)
		}
	})

	t.Run("falls back to home config path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		got, err := resolveConfigEditPath("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join(home, ".roadboard.yaml")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestEnsureConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "myconfig.yaml")

	created, err := ensureConfigFile(configPath, configTemplate(""))
	if err != nil {
		t.Fatalf("unexpected error creating template config: %v", err)
	}
	if !created {
		t.Fatalf("expected file to be created")
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error reading config file: %v", err)
	}
	if !strings.Contains(string(content), "# roadboard configuration") {
		t.Fatalf("expected example config content, got:\n%s", string(content))
	}
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("unexpected error stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected config file mode 0600, got %o", info.Mode().Perm())
	}

	created, err = ensureConfigFile(configPath, "ignored")
	if err != nil {
		t.Fatalf("unexpected error on existing config file: %v", err)
	}
	if created {
		t.Fatalf("did not expect existing file to be recreated")
	}
}

func TestResolveEditorValue(t *testing.T) {
	tests := []struct {
		name   string
		visual string
		editor string
		want   string
	}{
		{name: "visual wins", visual: "code --wait", editor: "nano", want: "code --wait"},
		{name: "editor fallback", visual: "", editor: "nano", want: "nano"},
		{name: "default vi", visual: "", editor: "", want: "vi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveEditorValue(tt.visual, tt.editor)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildEditorCommand(t *testing.T) {
	t.Run("splits editor args and appends config path", func(t *testing.T) {
		cmd, err := buildEditorCommand("code --wait", "/tmp/cfg.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmd.Path != "code" {
			t.Fatalf("expected command path %q, got %q", "code", cmd.Path)
		}
		if len(cmd.Args) != 3 {
			t.Fatalf("expected 3 args, got %d", len(cmd.Args))
		}
		if cmd.Args[1] != "--wait" || cmd.Args[2] != "/tmp/cfg.yaml" {
			t.Fatalf("unexpected command args: %#v", cmd.Args)
		}
	})

	t.Run("fails on empty editor", func(t *testing.T) {
		if _, err := buildEditorCommand("   ", "/tmp/cfg.yaml"); err == nil {
			t.Fatalf("expected error for empty editor")
		}
	})
}

func TestValidateEditedConfig(t *testing.T) {
	t.Run("accepts valid content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("source:\n  path: \"a.csv\"\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := validateEditedConfig(path, []byte("unused"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Source.Path != "a.csv" {
			t.Fatalf("expected source a.csv, got %q", cfg.Source.Path)
		}
	})

	t.Run("restores previous content on invalid edit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		previous := []byte("source:\n  path: \"a.csv\"\n")
		edited := []byte("source:\n  path: \"a.csv\"\nserve:\n  port: 0\n")
		if err := os.WriteFile(path, edited, 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		if _, err := validateEditedConfig(path, previous); err == nil {
			t.Fatalf("expected validation error")
		}

		restored, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read restored config: %v", err)
		}
		if string(restored) != string(previous) {
			t.Fatalf("expected previous config to be restored, got:\n%s", restored)
		}
		rejected, err := os.ReadFile(path + ".rejected")
		if err != nil {
			t.Fatalf("read rejected config: %v", err)
		}
		if string(rejected) != string(edited) {
			t.Fatalf("expected edited content in rejected file, got:\n%s", rejected)
		}
	})
}

func TestConfigTemplate(t *testing.T) {
	if got := configTemplate(""); got != config.ExampleYAML() {
		t.Fatalf("expected unchanged example without source")
	}
	if got := configTemplate("gsheet://abc/Roadmap"); !strings.Contains(got, `path: "gsheet://abc/Roadmap"`) {
		t.Fatalf("expected source path in template, got:\n%s", got)
	}
}
