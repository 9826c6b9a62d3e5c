package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.DefaultView != ViewModels {
		t.Errorf("expected default view %q, got %q", ViewModels, cfg.UI.DefaultView)
	}
	if cfg.UI.TopN != 4 {
		t.Errorf("expected top_n 4, got %d", cfg.UI.TopN)
	}
	if cfg.UI.ScrollGuardMS != 10 {
		t.Errorf("expected scroll guard 10ms, got %d", cfg.UI.ScrollGuardMS)
	}
	if cfg.Source.Dir != "processed_data" {
		t.Errorf("expected processed_data, got %q", cfg.Source.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.DefaultView != ViewModels {
		t.Errorf("expected default config, got view %q", cfg.UI.DefaultView)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source:
  dir: ~/scan/processed_data
  taxonomy: /data/cata_tree.json
sources:
  - name: upstream
    spec: github:Anonymous-SCAN/SCAN
  - name: local
    spec: ~/snapshots/scan.db
ui:
  default_view: query
  top_n: 6
watch:
  enabled: true
  debounce_ms: 500
load:
  concurrency: 2
  tolerant: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.Source.Dir != filepath.Join(home, "scan", "processed_data") {
		t.Errorf("expected ~ expansion, got %q", cfg.Source.Dir)
	}
	if cfg.Source.Taxonomy != "/data/cata_tree.json" {
		t.Errorf("unexpected taxonomy %q", cfg.Source.Taxonomy)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[1].Spec != filepath.Join(home, "snapshots", "scan.db") {
		t.Errorf("unexpected sources %+v", cfg.Sources)
	}
	if cfg.UI.DefaultView != ViewQuery || cfg.UI.TopN != 6 {
		t.Errorf("unexpected ui %+v", cfg.UI)
	}
	if cfg.UI.ScrollGuardMS != 10 {
		t.Errorf("unset fields should keep defaults, got scroll guard %d", cfg.UI.ScrollGuardMS)
	}
	if !cfg.Watch.Enabled || cfg.Watch.DebounceMS != 500 {
		t.Errorf("unexpected watch %+v", cfg.Watch)
	}
	if cfg.Load.Concurrency != 2 || !cfg.Load.Tolerant {
		t.Errorf("unexpected load %+v", cfg.Load)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"view", "ui:\n  default_view: board\n", "default_view"},
		{"top_n", "ui:\n  top_n: -1\n", "top_n"},
		{"guard", "ui:\n  scroll_guard_ms: -5\n", "scroll_guard_ms"},
		{"debounce", "watch:\n  debounce_ms: -1\n", "debounce_ms"},
		{"concurrency", "load:\n  concurrency: -2\n", "concurrency"},
		{"dup", "sources:\n  - {name: a, spec: x}\n  - {name: A, spec: y}\n", "duplicate"},
		{"empty", "sources:\n  - {name: a}\n", "name and a spec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Source.Dir = "/abs/processed_data"
	cfg.Sources = []NamedSource{{Name: "snap", Spec: "/tmp/scan.db"}}
	cfg.UI.DefaultView = ViewQuery
	cfg.Watch.Enabled = true

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Source.Dir != cfg.Source.Dir || loaded.UI.DefaultView != ViewQuery || !loaded.Watch.Enabled {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if ns := loaded.FindSource("SNAP"); ns == nil || ns.Spec != "/tmp/scan.db" {
		t.Errorf("expected case-insensitive alias lookup, got %+v", ns)
	}
}

func TestSourceSpec(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources = []NamedSource{{Name: "up", Spec: "github:a/b"}}

	if got := cfg.SourceSpec("up"); got != "github:a/b" {
		t.Errorf("alias not resolved: %q", got)
	}
	if got := cfg.SourceSpec("/some/dir"); got != "/some/dir" {
		t.Errorf("explicit source changed: %q", got)
	}
	if got := cfg.SourceSpec(""); got != "processed_data" {
		t.Errorf("expected configured dir, got %q", got)
	}

	cfg.Source.GitHub = GitHubConfig{Owner: "o", Repo: "r", Path: "/data/", Ref: "v1"}
	if got := cfg.SourceSpec(""); got != "github:o/r/data@v1" {
		t.Errorf("expected github spec, got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.input); got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestXDGOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "c"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "d"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "s"))

	if got := ConfigDir(); got != filepath.Join(dir, "c", "sv") {
		t.Errorf("ConfigDir = %q", got)
	}
	if got := DataDir(); got != filepath.Join(dir, "d", "sv") {
		t.Errorf("DataDir = %q", got)
	}
	if got := StateDir(); got != filepath.Join(dir, "s", "sv") {
		t.Errorf("StateDir = %q", got)
	}
	if got := ConfigPath(); got != filepath.Join(dir, "c", "sv", "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}
}

func TestLoad_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.UI.TopN = 9
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.UI.TopN != 9 {
		t.Errorf("expected top_n 9, got %d", loaded.UI.TopN)
	}
}
