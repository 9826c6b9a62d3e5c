// Package config handles loading and saving sv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sv/config.yaml
//   - Data:    ~/.local/share/sv/ (exported snapshots)
//   - State:   ~/.local/state/sv/ (debug logs)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppName names the XDG subdirectories.
const AppName = "sv"

// View names accepted by ui.default_view.
const (
	ViewModels = "models"
	ViewQuery  = "query"
)

// GitHubConfig locates results in a GitHub repository.
type GitHubConfig struct {
	Owner        string `yaml:"owner,omitempty"`
	Repo         string `yaml:"repo,omitempty"`
	Path         string `yaml:"path,omitempty"`
	Ref          string `yaml:"ref,omitempty"`
	TaxonomyPath string `yaml:"taxonomy_path,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`
}

// SourceConfig says where model results and the taxonomy come from.
// Dir may be a directory, a snapshot database or a github: spec.
type SourceConfig struct {
	Dir      string       `yaml:"dir,omitempty"`
	Taxonomy string       `yaml:"taxonomy,omitempty"`
	GitHub   GitHubConfig `yaml:"github,omitempty"`
}

// NamedSource is a source alias usable as --source <name>.
type NamedSource struct {
	Name string `yaml:"name"`
	Spec string `yaml:"spec"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView   string `yaml:"default_view,omitempty"`    // models or query
	TopN          int    `yaml:"top_n,omitempty"`           // models preselected by score
	ScrollGuardMS int    `yaml:"scroll_guard_ms,omitempty"` // scroll-sync suppression window
	MinPaneWidth  int    `yaml:"min_pane_width,omitempty"`  // narrowest pane before scrolling sideways
}

// WatchConfig controls live reload.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled,omitempty"`
	DebounceMS int  `yaml:"debounce_ms,omitempty"`
	ForcePoll  bool `yaml:"force_poll,omitempty"`
}

// LoadConfig controls catalog loading.
type LoadConfig struct {
	Concurrency int  `yaml:"concurrency,omitempty"`
	Tolerant    bool `yaml:"tolerant,omitempty"` // skip unreadable model files
}

// Config is the top-level configuration for sv.
type Config struct {
	Source  SourceConfig  `yaml:"source,omitempty"`
	Sources []NamedSource `yaml:"sources,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
	Load    LoadConfig    `yaml:"load,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Dir: "processed_data",
		},
		UI: UIConfig{
			DefaultView:   ViewModels,
			TopN:          4,
			ScrollGuardMS: 10,
			MinPaneWidth:  28,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
		Load: LoadConfig{
			Concurrency: 8,
		},
	}
}

// ConfigDir returns the XDG config directory for sv.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for sv.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for sv.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, AppName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Returns DefaultConfig if the
// file doesn't exist. Fields absent from the file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Source.Dir = expandHome(cfg.Source.Dir)
	cfg.Source.Taxonomy = expandHome(cfg.Source.Taxonomy)
	for i := range cfg.Sources {
		cfg.Sources[i].Spec = expandHome(cfg.Sources[i].Spec)
	}

	return cfg, cfg.Validate()
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.UI.DefaultView {
	case "", ViewModels, ViewQuery:
	default:
		return fmt.Errorf("ui.default_view: unknown view %q (want %s or %s)", c.UI.DefaultView, ViewModels, ViewQuery)
	}
	if c.UI.TopN < 0 {
		return fmt.Errorf("ui.top_n: must not be negative, got %d", c.UI.TopN)
	}
	if c.UI.ScrollGuardMS < 0 {
		return fmt.Errorf("ui.scroll_guard_ms: must not be negative, got %d", c.UI.ScrollGuardMS)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms: must not be negative, got %d", c.Watch.DebounceMS)
	}
	if c.Load.Concurrency < 0 {
		return fmt.Errorf("load.concurrency: must not be negative, got %d", c.Load.Concurrency)
	}
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		key := strings.ToLower(s.Name)
		if s.Name == "" || s.Spec == "" {
			return errors.New("sources: every entry needs a name and a spec")
		}
		if seen[key] {
			return fmt.Errorf("sources: duplicate name %q", s.Name)
		}
		seen[key] = true
	}
	return nil
}

// FindSource returns the named source alias, or nil.
func (c Config) FindSource(name string) *NamedSource {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i]
		}
	}
	return nil
}

// SourceSpec returns the spec for --source value s: an alias is resolved,
// an empty value falls back to the configured source, and anything else is
// returned unchanged. A configured GitHub owner/repo wins over Dir when no
// explicit source is given.
func (c Config) SourceSpec(s string) string {
	if s != "" {
		if ns := c.FindSource(s); ns != nil {
			return ns.Spec
		}
		return s
	}
	if gh := c.Source.GitHub; gh.Owner != "" && gh.Repo != "" {
		spec := "github:" + gh.Owner + "/" + gh.Repo
		if gh.Path != "" {
			spec += "/" + strings.Trim(gh.Path, "/")
		}
		if gh.Ref != "" {
			spec += "@" + gh.Ref
		}
		return spec
	}
	return c.Source.Dir
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
