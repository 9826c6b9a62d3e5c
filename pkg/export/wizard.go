package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/scanview/pkg/config"
)

// WizardConfig is the answer set of the export wizard, remembered between
// runs.
type WizardConfig struct {
	Format Format   `json:"format"`
	Out    string   `json:"out"`
	Paths  []string `json:"paths,omitempty"`
	Title  string   `json:"title,omitempty"`
}

// Request converts the answers into an export request.
func (c WizardConfig) Request() Request {
	return Request{Format: c.Format, Out: c.Out, Paths: c.Paths, Title: c.Title}
}

// Wizard asks for export settings interactively.
type Wizard struct {
	config *WizardConfig
	// Paths offered when nothing was remembered, usually the current
	// category selection.
	suggested []string
	out       io.Writer
}

// NewWizard creates a wizard that pre-fills paths with suggested.
func NewWizard(suggested []string) *Wizard {
	return &Wizard{
		config:    &WizardConfig{Format: FormatMarkdown},
		suggested: suggested,
		out:       os.Stdout,
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run executes the wizard and returns the resulting request. Answers are
// saved for the next run; failing to save them is not an error.
func (w *Wizard) Run() (Request, error) {
	if saved, err := LoadWizardConfig(); err == nil && saved != nil {
		w.config = saved
	} else if len(w.suggested) > 0 {
		w.config.Paths = append([]string(nil), w.suggested...)
	}

	fmt.Fprintln(w.out, "sv export")
	fmt.Fprintln(w.out, "─────────")

	if err := w.collectFormat(); err != nil {
		return Request{}, err
	}
	if err := w.collectDetails(); err != nil {
		return Request{}, err
	}

	if err := SaveWizardConfig(w.config); err != nil {
		fmt.Fprintf(w.out, "warning: could not save export settings: %v\n", err)
	}
	return w.config.Request(), nil
}

// GetConfig returns the current answers.
func (w *Wizard) GetConfig() *WizardConfig {
	return w.config
}

func (w *Wizard) collectFormat() error {
	opts := make([]huh.Option[Format], 0, len(Formats))
	for _, f := range Formats {
		opts = append(opts, huh.NewOption(formatLabel(f), f))
	}
	previous := w.config.Format
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[Format]().
				Title("Export format").
				Options(opts...).
				Value(&w.config.Format),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if w.config.Out == "" || w.config.Format != previous {
		w.config.Out = w.config.Format.DefaultOutput()
	}
	return nil
}

func (w *Wizard) collectDetails() error {
	paths := strings.Join(w.config.Paths, ", ")
	pathsTitle := "Category paths (comma separated)"
	if w.config.Format == FormatSVG || w.config.Format == FormatPNG {
		pathsTitle = "Category path to chart (empty for overall score)"
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file").
				Value(&w.config.Out).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("output file is required")
					}
					return nil
				}),
			huh.NewInput().
				Title(pathsTitle).
				Placeholder("e.g. Reasoning.Math").
				Value(&paths),
			huh.NewInput().
				Title("Title").
				Value(&w.config.Title),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	w.config.Out = strings.TrimSpace(w.config.Out)
	w.config.Paths = splitPaths(paths)
	return nil
}

func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatLabel(f Format) string {
	switch f {
	case FormatSQLite:
		return "SQLite snapshot (re-openable with sv --source)"
	case FormatMarkdown:
		return "Markdown rankings table"
	case FormatSVG:
		return "SVG score chart"
	case FormatPNG:
		return "PNG score chart"
	}
	return string(f)
}

// WizardConfigPath is where the last answers are kept.
func WizardConfigPath() string {
	return filepath.Join(config.StateDir(), "export-wizard.json")
}

// LoadWizardConfig returns the saved answers, or nil when none exist.
func LoadWizardConfig() (*WizardConfig, error) {
	data, err := os.ReadFile(WizardConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cfg WizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if _, err := ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveWizardConfig saves answers for future runs.
func SaveWizardConfig(cfg *WizardConfig) error {
	path := WizardConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
