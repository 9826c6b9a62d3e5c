package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/scanview/internal/datasource"
	"github.com/vanderheijden86/scanview/pkg/config"
	"github.com/vanderheijden86/scanview/pkg/loader"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/rankings"
)

func newTestModel(t *testing.T, dir, view string, topN int) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UI.TopN = topN
	m := NewModel(cfg, datasource.NewDirSource(dir, ""), view)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// drain delivers every message of the current load session, synchronously.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	if m.session == nil {
		t.Fatal("no load session")
	}
	for msg := range m.session.ch {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(initViewMsg{})
	return drain(t, next.(Model))
}

func press(m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestModelsView_DefaultSelectsTopN(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	if m.state != stateReady {
		t.Fatalf("state = %v, loadErr = %v", m.state, m.loadErr)
	}
	if got := strings.Join(m.sel.SelectedModels(), ","); got != "alpha,beta" {
		t.Errorf("selected = %s, want alpha,beta", got)
	}
	if m.panes.Len() != 2 {
		t.Errorf("panes = %d, want 2", m.panes.Len())
	}
	if !strings.HasPrefix(m.statusMsg, "Loaded 3 models") {
		t.Errorf("status = %q", m.statusMsg)
	}

	out := stripANSI(m.View())
	for _, want := range []string{"scanview · Models", "2 selected", "✓ alpha", "Size: 120"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelsView_GridToggleRebuildsPanes(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	m, _ = press(m, runeKey('l'), runeKey('l'))
	if m.grid.Current() != "gamma" {
		t.Fatalf("grid cursor on %q, want gamma", m.grid.Current())
	}

	m, _ = press(m, keyEnter)
	if got := strings.Join(m.sel.SelectedModels(), ","); got != "alpha,beta,gamma" {
		t.Errorf("selected = %s", got)
	}
	if m.panes.Len() != 3 || m.panes.Panes()[2].Model != "gamma" {
		t.Errorf("gamma pane should be appended last")
	}

	m, _ = press(m, keyEnter)
	if m.sel.IsModelSelected("gamma") || m.panes.Len() != 2 {
		t.Errorf("second enter should remove gamma")
	}
}

func TestModelsView_RemovePane(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	m, _ = press(m, keyTab, runeKey('x'))
	if m.sel.IsModelSelected("alpha") {
		t.Error("x should deselect the focused model")
	}
	if m.panes.Len() != 1 || m.panes.FocusedModel() != "beta" {
		t.Errorf("panes after remove: %d focused %q", m.panes.Len(), m.panes.FocusedModel())
	}
	if strings.Contains(stripANSI(m.grid.View(m.sel, false)), "✓ alpha") {
		t.Error("grid should drop the selected mark")
	}

	m, _ = press(m, runeKey('x'))
	if m.panes.Len() != 0 || m.focus != focusGrid {
		t.Error("removing the last pane should return focus to the grid")
	}
}

func TestModelsView_ToggleByName(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	m, _ = press(m, keyTab, runeKey('j'), keyEnter)
	if m.statusMsg != `Expanded "Reasoning" in 2 nodes` {
		t.Errorf("status = %q", m.statusMsg)
	}
	for _, p := range m.panes.Panes() {
		if len(p.Rows()) <= 3 {
			t.Errorf("%s not expanded: %v", p.Model, rowNames(p))
		}
	}
}

func TestModelsView_SearchSwallowsKeys(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	m, cmd := press(m, runeKey('/'), runeKey('q'))
	if m.grid.Filter() != "q" {
		t.Errorf("filter = %q, want q", m.grid.Filter())
	}
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("q inside the search box must not quit")
		}
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, runeKey('b'), keyEnter)
	if got := strings.Join(m.grid.Visible(), ","); got != "beta" {
		t.Errorf("visible = %s", got)
	}
	if m.grid.Filtering() {
		t.Error("enter should leave the search box")
	}
}

func TestModelsView_Quit(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	_, cmd := press(m, runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestQueryView_RankingsFlow(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewQuery, 4))

	if m.state != stateReady {
		t.Fatalf("state = %v, loadErr = %v", m.state, m.loadErr)
	}
	if m.categories.Len() != 3 {
		t.Fatalf("categories = %d, want 3", m.categories.Len())
	}
	if !strings.Contains(stripANSI(m.View()), rankings.Placeholder) {
		t.Error("no categories selected should show the placeholder")
	}

	m, _ = press(m, runeKey('j'), keyEnter)
	if !m.sel.IsCategorySelected("Reasoning.math") {
		t.Fatalf("selected = %v", m.sel.SelectedCategories())
	}
	cols := m.rankings.Columns()
	if len(cols) != 1 || cols[0].Entries[0].Model != "beta" {
		t.Errorf("columns = %+v", cols)
	}
	out := stripANSI(m.View())
	if !strings.Contains(out, "● Mathematics") || !strings.Contains(out, "1. beta") {
		t.Errorf("query view after selection:\n%s", out)
	}

	m, _ = press(m, runeKey('j'), keyEnter)
	if len(m.rankings.Columns()) != 2 {
		t.Errorf("second category should add a column")
	}

	m, _ = press(m, runeKey('c'))
	if m.sel.CategoryCount() != 0 || len(m.rankings.Columns()) != 0 {
		t.Error("c should clear every category")
	}
}

func TestQueryView_TaxonomyError(t *testing.T) {
	dir := writeDataDir(t)
	if err := os.Remove(filepath.Join(filepath.Dir(dir), model.TaxonomyFile)); err != nil {
		t.Fatal(err)
	}
	m := loaded(t, newTestModel(t, dir, config.ViewQuery, 4))

	if m.state != stateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if m.loadErr.Title != loader.TitleTaxonomy {
		t.Errorf("title = %q", m.loadErr.Title)
	}
	out := stripANSI(m.View())
	if strings.Contains(out, "○ ") {
		t.Error("error state must not render a partial tree")
	}
}

func TestBrokenFile_StrictModelsTolerantQuery(t *testing.T) {
	dir := writeDataDir(t)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"score":`), 0o644); err != nil {
		t.Fatal(err)
	}

	m := loaded(t, newTestModel(t, dir, config.ViewModels, 4))
	if m.state != stateError || m.loadErr.Title != loader.TitleCatalog {
		t.Errorf("models view should fail on a broken file, state = %v", m.state)
	}

	q := loaded(t, newTestModel(t, dir, config.ViewQuery, 4))
	if q.state != stateReady {
		t.Fatalf("query view should skip the broken file, state = %v err = %v", q.state, q.loadErr)
	}
	if q.catalog.Len() != 3 {
		t.Errorf("catalog = %d models, want 3", q.catalog.Len())
	}
	if q.statusMsg != "Skipped 1 unreadable files" {
		t.Errorf("status = %q", q.statusMsg)
	}
}

func TestErrorState_Retry(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	m := loaded(t, newTestModel(t, missing, config.ViewModels, 4))

	if m.state != stateError || m.loadErr.Title != loader.TitleCatalog {
		t.Fatalf("state = %v err = %v", m.state, m.loadErr)
	}
	out := stripANSI(m.View())
	for _, want := range []string{"⚠ " + loader.TitleCatalog, "Tip:", "retry"} {
		if !strings.Contains(out, want) {
			t.Errorf("error view missing %q", want)
		}
	}

	before := m.sessionID()
	m, _ = press(m, runeKey('r'))
	if m.state != stateLoading || m.sessionID() == before {
		t.Error("r should start a new load")
	}
	m = drain(t, m)
	if m.state != stateError {
		t.Error("retry against the same missing directory should fail again")
	}
}

func TestSwitchView_TearsDown(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	m, _ = press(m, runeKey('v'))
	if m.ViewName() != config.ViewQuery || m.state != stateLoading {
		t.Fatalf("view %q state %v", m.ViewName(), m.state)
	}
	if m.sel.ModelCount() != 0 || m.panes.Len() != 0 {
		t.Error("switching view should discard the model selection")
	}
	if m.loading.message != stageQueryModels {
		t.Errorf("loading message = %q", m.loading.message)
	}

	m = drain(t, m)
	if m.state != stateReady || m.categories.Len() == 0 {
		t.Error("query view should be ready after loading")
	}
}

func TestStaleSessionIgnored(t *testing.T) {
	m := newTestModel(t, writeDataDir(t), config.ViewModels, 2)
	next, _ := m.Update(initViewMsg{})
	m = next.(Model)
	stale := m.sessionID()

	m, _ = press(m, runeKey('r'))
	next, _ = m.Update(loadDoneMsg{id: stale, err: &loader.LoadError{Title: "old", Message: "old"}})
	m = next.(Model)
	if m.state != stateLoading {
		t.Errorf("a message from a cancelled session changed state to %v", m.state)
	}

	m = drain(t, m)
	if m.state != stateReady {
		t.Errorf("current session should finish, state %v err %v", m.state, m.loadErr)
	}
}

func TestFileChanged_ReloadsWithDiff(t *testing.T) {
	dir := writeDataDir(t)
	m := loaded(t, newTestModel(t, dir, config.ViewModels, 2))

	if err := os.WriteFile(filepath.Join(dir, "delta.json"), []byte(`{"score": 0.99}`), 0o644); err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(FileChangedMsg{})
	m = drain(t, next.(Model))

	if m.catalog.Len() != 4 {
		t.Errorf("catalog = %d models, want 4", m.catalog.Len())
	}
	if !strings.HasPrefix(m.statusMsg, "Reloaded: ") {
		t.Errorf("status = %q", m.statusMsg)
	}
	if got := m.sel.SelectedModels(); len(got) != 2 || got[0] != "delta" {
		t.Errorf("selection should be rebuilt from scores, got %v", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))

	m, _ = press(m, runeKey('?'))
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	if out := stripANSI(m.View()); !strings.Contains(out, "Models view") {
		t.Errorf("help view:\n%s", out)
	}

	m, _ = press(m, runeKey('x'))
	if m.panes.Len() != 2 {
		t.Error("keys behind the help overlay must not reach the view")
	}

	m, _ = press(m, runeKey('?'))
	if m.showHelp {
		t.Error("? should close help")
	}
}

func TestMouseWheel_GridMovesCursor(t *testing.T) {
	m := loaded(t, newTestModel(t, writeDataDir(t), config.ViewModels, 2))
	m.grid.SetSize(gridCellWidth, m.upperHeight())

	next, _ := m.Update(tea.MouseMsg{X: 1, Y: m.bodyTop(), Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m = next.(Model)
	if m.grid.Current() != "beta" {
		t.Errorf("wheel over the grid should move down a row, cursor on %q", m.grid.Current())
	}
}
