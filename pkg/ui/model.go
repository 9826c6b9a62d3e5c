package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/scanview/internal/datasource"
	"github.com/vanderheijden86/scanview/pkg/config"
	"github.com/vanderheijden86/scanview/pkg/debug"
	"github.com/vanderheijden86/scanview/pkg/export"
	"github.com/vanderheijden86/scanview/pkg/loader"
	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/rankings"
	"github.com/vanderheijden86/scanview/pkg/selection"
	"github.com/vanderheijden86/scanview/pkg/watcher"
)

// Loading stage messages.
const (
	stageModels        = "Loading model data..."
	stageQueryModels   = "Loading query model data..."
	stageCategoryTree  = "Loading category tree..."
	defaultWidth       = 100
	defaultHeight      = 30
	wheelStep          = 3
	loadMessageBacklog = 16
)

type viewState int

const (
	stateLoading viewState = iota
	stateReady
	stateError
)

// focusArea is the region receiving navigation keys.
type focusArea int

const (
	focusGrid focusArea = iota
	focusPanes
	focusTree
	focusRankings
)

// initViewMsg starts loading the current view.
type initViewMsg struct{}

// progressMsg is a loader progress event from session id.
type progressMsg struct {
	id       int
	stage    string
	progress loader.Progress
}

// loadDoneMsg ends session id. Exactly one of result/err is meaningful.
type loadDoneMsg struct {
	id       int
	result   *loader.Result
	taxonomy *model.CategoryNode
	err      error
}

// FileChangedMsg is sent when the watched source changes on disk.
type FileChangedMsg struct{}

// WatchFileCmd waits for the next change notification.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// loadSession is one in-flight load. Cancelling it abandons the fetch and
// any messages it still has queued.
type loadSession struct {
	id     int
	cancel context.CancelFunc
	ch     <-chan tea.Msg
}

func waitForLoad(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Model is the root bubbletea model. It owns one view at a time, models or
// query, together with that view's selection state; switching view or
// reloading tears everything down and starts from a fresh load.
type Model struct {
	cfg   config.Config
	src   datasource.Source
	view  string
	state viewState

	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int

	session    *loadSession
	sessionSeq int
	loading    LoadingModel
	loadErr    *loader.LoadError

	catalog  *model.Catalog
	previous *model.Catalog
	taxonomy *model.CategoryNode
	sel      *selection.State

	focus      focusArea
	grid       GridModel
	panes      PanesModel
	categories CategoryTreeModel
	rankings   RankingsModel

	showHelp bool
	helpVP   viewport.Model

	statusMsg     string
	statusIsError bool

	watcher *watcher.Watcher
}

// NewModel creates the UI for view (config.ViewModels or config.ViewQuery)
// over src. Nothing is loaded until Init.
func NewModel(cfg config.Config, src datasource.Source, view string) Model {
	if view != config.ViewQuery {
		view = config.ViewModels
	}
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	h := help.New()
	h.Styles.ShortKey = theme.PrimaryBold
	h.Styles.ShortDesc = theme.MutedText
	h.Styles.ShortSeparator = theme.MutedText

	m := Model{
		cfg:    cfg,
		src:    src,
		view:   view,
		theme:  theme,
		keys:   keys,
		help:   h,
		width:  defaultWidth,
		height: defaultHeight,
		helpVP: viewport.New(defaultWidth, defaultHeight-2),
	}
	m.loading = NewLoadingModel(theme, stageModels)
	m.resetView()

	if cfg.Watch.Enabled {
		m.startWatcher()
	}
	return m
}

// resetView discards everything the current view built.
func (m *Model) resetView() {
	guard := time.Duration(m.cfg.UI.ScrollGuardMS) * time.Millisecond
	if guard <= 0 {
		guard = DefaultScrollGuard
	}
	m.sel = selection.New()
	m.catalog = nil
	m.taxonomy = nil
	m.loadErr = nil
	m.grid = NewGridModel(m.theme)
	m.panes = NewPanesModel(m.theme, guard, m.cfg.UI.MinPaneWidth)
	m.categories = NewCategoryTreeModel(m.theme)
	m.rankings = NewRankingsModel(m.theme)
	if m.view == config.ViewQuery {
		m.focus = focusTree
	} else {
		m.focus = focusGrid
	}
	m.layout()
}

// startWatcher watches local sources. Remote sources have nothing to watch.
func (m *Model) startWatcher() {
	switch m.src.Type() {
	case datasource.SourceTypeDir, datasource.SourceTypeSQLite:
	default:
		return
	}
	debounce := time.Duration(m.cfg.Watch.DebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = watcher.DefaultDebounceDuration
	}
	w, err := watcher.NewWatcher(m.src.Describe(),
		watcher.WithDebounceDuration(debounce),
		watcher.WithForcePoll(m.cfg.Watch.ForcePoll),
	)
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		m.setStatus(fmt.Sprintf("Live reload disabled: %v", err), true)
		return
	}
	m.watcher = w
}

// Stop cancels any in-flight load and stops the file watcher.
func (m Model) Stop() {
	if m.session != nil {
		m.session.cancel()
	}
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// ViewName returns the active view name.
func (m Model) ViewName() string { return m.view }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return initViewMsg{} }}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

// startLoad cancels the current session and loads the current view again.
func (m Model) startLoad() (Model, tea.Cmd) {
	if m.session != nil {
		m.session.cancel()
	}
	m.sessionSeq++
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan tea.Msg, loadMessageBacklog)
	m.session = &loadSession{id: m.sessionSeq, cancel: cancel, ch: ch}

	first := stageModels
	if m.view == config.ViewQuery {
		first = stageQueryModels
	}
	m.state = stateLoading
	m.loading = NewLoadingModel(m.theme, first)
	m.loading.SetWidth(m.width)

	// The query view skips unreadable files; the models view only does so
	// when configured.
	opts := loader.Options{Concurrency: m.cfg.Load.Concurrency}
	if m.cfg.Load.Tolerant || m.view == config.ViewQuery {
		opts.Mode = loader.Tolerant
	}
	debug.Log("ui: session %d loading %s view from %s", m.sessionSeq, m.view, m.src.Describe())
	go runLoad(ctx, m.sessionSeq, m.view, m.src, opts, ch)

	return m, tea.Batch(waitForLoad(ch), m.loading.Tick())
}

// runLoad fetches everything the view needs and reports on ch. The catalog
// always loads first; the query view then loads the taxonomy.
func runLoad(ctx context.Context, id int, view string, src datasource.Source, opts loader.Options, ch chan<- tea.Msg) {
	defer close(ch)
	send := func(msg tea.Msg) {
		select {
		case ch <- msg:
		case <-ctx.Done():
		}
	}
	reporter := func(stage string) loader.ProgressFunc {
		return func(p loader.Progress) {
			send(progressMsg{id: id, stage: stage, progress: p})
		}
	}

	first := stageModels
	if view == config.ViewQuery {
		first = stageQueryModels
	}
	opts.Progress = reporter(first)
	res, err := loader.LoadCatalog(ctx, src, opts)
	if err != nil {
		send(loadDoneMsg{id: id, err: err})
		return
	}

	done := loadDoneMsg{id: id, result: res}
	if view == config.ViewQuery {
		done.taxonomy, done.err = loader.LoadTaxonomy(ctx, src, reporter(stageCategoryTree))
	}
	send(done)
}

func (m Model) sessionID() int {
	if m.session == nil {
		return -1
	}
	return m.session.id
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case initViewMsg:
		return m.startLoad()

	case progressMsg:
		if msg.id != m.sessionID() {
			return m, nil
		}
		if msg.stage != m.loading.message {
			m.loading.SetMessage(msg.stage)
		}
		m.loading.SetProgress(msg.progress)
		return m, waitForLoad(m.session.ch)

	case loadDoneMsg:
		if msg.id != m.sessionID() {
			return m, nil
		}
		return m.finishLoad(msg), nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd

	case scrollReleaseMsg:
		var cmd tea.Cmd
		m.panes, cmd = m.panes.Update(msg)
		return m, cmd

	case FileChangedMsg:
		var cmds []tea.Cmd
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		if m.state == stateReady {
			m.previous = m.catalog
		}
		m.resetView()
		var cmd tea.Cmd
		m, cmd = m.startLoad()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// finishLoad installs a completed load, or switches to the error state.
func (m Model) finishLoad(msg loadDoneMsg) Model {
	m.session.cancel()
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m
		}
		m.state = stateError
		m.loadErr = loader.AsLoadError(msg.err)
		m.previous = nil
		debug.Log("ui: session %d failed: %v", msg.id, msg.err)
		return m
	}

	m.state = stateReady
	m.catalog = msg.result.Catalog

	switch m.view {
	case config.ViewQuery:
		m.taxonomy = msg.taxonomy
		m.sel.ClearCategories()
		m.categories.SetRoot(msg.taxonomy)
		m.refreshRankings()
	default:
		m.grid.SetCatalog(m.catalog)
		m.sel.DefaultSelectTopN(m.catalog, m.cfg.UI.TopN)
		m.panes.Build(m.catalog, m.sel.SelectedModels())
	}

	switch {
	case m.previous != nil:
		m.setStatus("Reloaded: "+datasource.DiffCatalogs(m.previous, m.catalog).Summary(), false)
	case len(msg.result.Failures) > 0:
		m.setStatus(fmt.Sprintf("Skipped %d unreadable files", len(msg.result.Failures)), true)
	default:
		m.setStatus(fmt.Sprintf("Loaded %d models in %s", m.catalog.Len(), msg.result.Elapsed.Round(time.Millisecond)), false)
	}
	m.previous = nil
	m.layout()
	return m
}

func (m *Model) refreshRankings() {
	m.rankings.SetColumns(rankings.ComputeAll(m.catalog, m.sel.SelectedCategories()))
}

func (m *Model) rebuildPanes() {
	m.panes.Build(m.catalog, m.sel.SelectedModels())
	m.layout()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Stop()
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// The search box swallows everything while it has focus.
	if m.state == stateReady && m.focus == focusGrid && m.grid.Filtering() {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		m.layout()
		return m, cmd
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Help), msg.String() == "esc":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpVP.SetContent(renderHelp(m.width))
		m.helpVP.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.SwitchView):
		return m.switchView()
	case key.Matches(msg, m.keys.Reload):
		m.resetView()
		return m.startLoad()
	}

	if m.state != stateReady {
		return m, nil
	}
	if m.view == config.ViewQuery {
		return m.handleQueryKey(msg)
	}
	return m.handleModelsKey(msg)
}

// switchView tears the current view down and loads the other one.
func (m Model) switchView() (tea.Model, tea.Cmd) {
	if m.view == config.ViewQuery {
		m.view = config.ViewModels
	} else {
		m.view = config.ViewQuery
	}
	m.previous = nil
	m.statusMsg = ""
	m.resetView()
	return m.startLoad()
}

func (m Model) handleModelsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Focus) {
		if m.focus == focusGrid && m.panes.Len() > 0 {
			m.focus = focusPanes
		} else {
			m.focus = focusGrid
		}
		return m, nil
	}
	if m.focus == focusGrid {
		return m.handleGridKey(msg)
	}
	return m.handlePanesKey(msg)
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.grid.StartFilter()
		return m, cmd
	case msg.String() == "esc":
		m.grid.SetFilter("")
		m.layout()
	case key.Matches(msg, m.keys.Left):
		m.grid.Move(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.grid.Move(1, 0)
	case key.Matches(msg, m.keys.Up):
		m.grid.Move(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.grid.Move(0, 1)
	case key.Matches(msg, m.keys.Toggle):
		name := m.grid.Current()
		if name == "" {
			return m, nil
		}
		if m.sel.ToggleModel(name) {
			m.setStatus("Added "+name, false)
		} else {
			m.setStatus("Removed "+name, false)
		}
		m.rebuildPanes()
	}
	return m, nil
}

func (m Model) handlePanesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Left):
		m.panes.FocusBy(-1)
	case key.Matches(msg, m.keys.Right):
		m.panes.FocusBy(1)
	case key.Matches(msg, m.keys.Up):
		cmd = m.panes.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		cmd = m.panes.MoveCursor(1)
	case key.Matches(msg, m.keys.HalfDown):
		cmd = m.panes.HalfPage(1)
	case key.Matches(msg, m.keys.HalfUp):
		cmd = m.panes.HalfPage(-1)
	case key.Matches(msg, m.keys.Top):
		cmd = m.panes.CursorTo(0)
	case key.Matches(msg, m.keys.Bottom):
		cmd = m.panes.CursorTo(-1)
	case key.Matches(msg, m.keys.Toggle):
		name, expanded, n := m.panes.ToggleAtCursor()
		if n > 0 {
			verb := "Collapsed"
			if expanded {
				verb = "Expanded"
			}
			m.setStatus(fmt.Sprintf("%s %q in %d nodes", verb, name, n), false)
		}
	case key.Matches(msg, m.keys.Remove):
		name := m.panes.FocusedModel()
		if name == "" || !m.sel.DeselectModel(name) {
			return m, nil
		}
		m.setStatus("Removed "+name, false)
		m.rebuildPanes()
		if m.panes.Len() == 0 {
			m.focus = focusGrid
		}
	}
	return m, cmd
}

func (m Model) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusTree {
			m.focus = focusRankings
		} else {
			m.focus = focusTree
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m.copyRankings(), nil
	case key.Matches(msg, m.keys.Clear):
		m.sel.ClearCategories()
		m.refreshRankings()
		return m, nil
	}

	if m.focus == focusRankings {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.rankings.ScrollBy(-1)
		case key.Matches(msg, m.keys.Down):
			m.rankings.ScrollBy(1)
		default:
			var cmd tea.Cmd
			m.rankings, cmd = m.rankings.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.categories.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.categories.Move(1)
	case key.Matches(msg, m.keys.HalfDown):
		m.categories.HalfPage(1)
	case key.Matches(msg, m.keys.HalfUp):
		m.categories.HalfPage(-1)
	case key.Matches(msg, m.keys.Top):
		m.categories.MoveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.categories.MoveTo(-1)
	case key.Matches(msg, m.keys.Toggle):
		if m.categories.Len() == 0 {
			return m, nil
		}
		m.sel.ToggleCategory(m.categories.CursorPath())
		m.refreshRankings()
	}
	return m, nil
}

func (m Model) copyRankings() Model {
	md := export.RankingsMarkdown(m.rankings.Columns())
	if err := clipboard.WriteAll(md); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return m
	}
	m.setStatus(fmt.Sprintf("📋 Copied %d ranking columns", len(m.rankings.Columns())), false)
	return m
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateReady || m.showHelp || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	var delta int
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		delta = -wheelStep
	case tea.MouseButtonWheelDown:
		delta = wheelStep
	default:
		return m, nil
	}

	top := m.bodyTop() + m.upperHeight()
	if m.view == config.ViewQuery {
		if msg.Y >= top {
			m.rankings.ScrollBy(delta)
		} else {
			m.categories.Move(delta)
		}
		return m, nil
	}
	if msg.Y < top {
		m.grid.Move(0, delta/wheelStep)
		return m, nil
	}
	return m, m.panes.ScrollPane(m.panes.PaneAt(msg.X), delta)
}

// Layout: one header line, the body, one footer line. The body splits into
// an upper area (grid or category tree) and a lower one (panes or
// rankings).

func (m Model) bodyTop() int { return 1 }

func (m Model) bodyHeight() int { return max(m.height-2, 4) }

func (m Model) upperHeight() int {
	body := m.bodyHeight()
	if m.view == config.ViewQuery {
		return max(body*2/5, 4)
	}
	return clamp(m.grid.RowsNeeded(), 2, max(body/3, 2))
}

func (m *Model) layout() {
	body := m.bodyHeight()
	upper := m.upperHeight()
	lower := max(body-upper, 1)

	m.help.Width = m.width
	m.helpVP.Width = m.width
	m.helpVP.Height = body
	m.loading.SetWidth(m.width)

	m.grid.SetSize(m.width, upper)
	m.panes.SetSize(m.width, lower)
	m.categories.SetSize(m.width, upper)
	m.rankings.SetSize(m.width, lower)
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var body string
	switch {
	case m.showHelp:
		body = m.helpVP.View()
	case m.state == stateLoading:
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.loading.View())
	case m.state == stateError:
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center,
			renderErrorView(m.theme, m.loadErr, m.width))
	case m.view == config.ViewQuery:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.categories.View(m.sel, m.focus == focusTree),
			m.rankings.View(),
		)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.grid.View(m.sel, m.focus == focusGrid),
			m.panes.View(m.focus == focusPanes),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.help.View(m.keys))
}

func (m Model) renderHeader() string {
	title := "scanview · Models"
	if m.view == config.ViewQuery {
		title = "scanview · Query"
	}
	if m.state == stateReady && m.view == config.ViewModels {
		title += fmt.Sprintf(" · %d selected", m.sel.ModelCount())
	}
	if m.state == stateReady && m.view == config.ViewQuery {
		title += fmt.Sprintf(" · %d categories", m.sel.CategoryCount())
	}

	right := m.src.Describe()
	if m.statusMsg != "" {
		right = strings.TrimSpace(m.statusMsg)
	}
	line := spread(title, right, m.width)
	if m.statusIsError && m.statusMsg != "" {
		return m.theme.ErrorTitle.Render(line)
	}
	return m.theme.PrimaryBold.Render(line)
}
