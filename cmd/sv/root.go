package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/scanview/internal/datasource"
	"github.com/vanderheijden86/scanview/pkg/config"
	"github.com/vanderheijden86/scanview/pkg/debug"
	"github.com/vanderheijden86/scanview/pkg/loader"
	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/ui"
	"github.com/vanderheijden86/scanview/pkg/version"
)

// envPrefix maps --source to SV_SOURCE, --log-file to SV_LOG_FILE and so on.
const envPrefix = "SV"

// boundFlags are the persistent flags that viper also reads from the
// environment.
var boundFlags = []string{"source", "taxonomy", "debug", "log-file", "top", "watch", "metrics"}

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logFile *os.File
	report  bool
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	_, root := newApp()
	return root
}

func newApp() (*app, *cobra.Command) {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:               "sv",
		Short:             "sv - terminal viewer for hierarchical model evaluation results",
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(a.cfg.UI.DefaultView)
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/sv/config.yaml)")
	pf.StringP("source", "s", "", "processed_data directory, snapshot .db file, github:owner/repo[/path][@ref] or a configured source name")
	pf.String("taxonomy", "", "category tree file (default cata_tree.json next to the source)")
	pf.Bool("debug", false, "enable debug logging")
	pf.String("log-file", "", "write debug output to this file")
	pf.Int("top", 0, "number of top-scoring models selected on start")
	pf.Bool("watch", false, "reload when the source changes on disk")
	pf.Bool("metrics", false, "print timing metrics on exit")

	for _, name := range boundFlags {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newViewCmd(a, config.ViewModels, "Browse model result trees side by side"),
		newViewCmd(a, config.ViewQuery, "Pick categories and compare model rankings"),
		newRankCmd(a),
		newGetCmd(a),
		newTreeCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return a, root
}

// setup merges the config file with flags and environment (flags > env >
// file > defaults) and switches on debug logging and metrics.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path := a.cfgFile
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if a.v.IsSet("taxonomy") {
		cfg.Source.Taxonomy = a.v.GetString("taxonomy")
	}
	if a.v.IsSet("top") {
		cfg.UI.TopN = a.v.GetInt("top")
	}
	if a.v.IsSet("watch") {
		cfg.Watch.Enabled = a.v.GetBool("watch")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	a.cfg = cfg

	if a.v.GetBool("debug") {
		debug.SetEnabled(true)
	}
	if lf := a.v.GetString("log-file"); lf != "" {
		if err := a.openLog(lf); err != nil {
			return err
		}
	}
	if a.v.GetBool("metrics") {
		metrics.SetEnabled(true)
		a.report = true
	}
	debug.Log("config %s, source %q", path, a.sourceSpec())
	return nil
}

func (a *app) openLog(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	a.logFile = f
	debug.SetOutput(f)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.report {
		_ = metrics.WriteReport(cmd.ErrOrStderr())
	}
	if a.logFile != nil {
		debug.SetOutput(os.Stderr)
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) sourceSpec() string {
	return a.cfg.SourceSpec(a.v.GetString("source"))
}

func (a *app) openSource() (datasource.Source, error) {
	spec := a.sourceSpec()
	if spec == "" {
		return nil, fmt.Errorf("no source configured\n%s", loader.LocalTip)
	}
	return datasource.Open(spec, a.cfg.Source.Taxonomy)
}

func closeSource(src datasource.Source) {
	if c, ok := src.(io.Closer); ok {
		_ = c.Close()
	}
}

func (a *app) loadOptions(w io.Writer) loader.Options {
	mode := loader.Strict
	if a.cfg.Load.Tolerant {
		mode = loader.Tolerant
	}
	return loader.Options{
		Mode:        mode,
		Concurrency: a.cfg.Load.Concurrency,
		Logger:      log.New(w, "sv: ", 0),
	}
}

// loadCatalog opens the configured source and reads every model record.
func (a *app) loadCatalog(ctx context.Context, errOut io.Writer) (*loader.Result, datasource.Source, error) {
	src, err := a.openSource()
	if err != nil {
		return nil, nil, err
	}
	res, err := loader.LoadCatalog(ctx, src, a.loadOptions(errOut))
	if err != nil {
		closeSource(src)
		return nil, nil, err
	}
	for _, f := range res.Failures {
		fmt.Fprintf(errOut, "warning: skipped %s: %v\n", f.Name, f.Err)
	}
	return res, src, nil
}

// loadTaxonomy reads the category tree, returning nil when the source has
// none.
func loadTaxonomy(ctx context.Context, src datasource.Source, errOut io.Writer) *model.CategoryNode {
	root, err := loader.LoadTaxonomy(ctx, src, nil)
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
		return nil
	}
	return root
}

func newViewCmd(a *app, view, short string) *cobra.Command {
	return &cobra.Command{
		Use:   view,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(view)
		},
	}
}

func (a *app) runTUI(view string) error {
	if view == "" {
		view = config.ViewModels
	}
	src, err := a.openSource()
	if err != nil {
		return err
	}
	defer closeSource(src)

	// The TUI owns stderr; keep debug output out of the frame.
	if debug.Enabled() && a.logFile == nil {
		if err := a.openLog(filepath.Join(config.StateDir(), "debug.log")); err != nil {
			return err
		}
	}

	m := ui.NewModel(a.cfg, src, view)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(ui.Model); ok {
		fm.Stop()
	} else {
		m.Stop()
	}
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
