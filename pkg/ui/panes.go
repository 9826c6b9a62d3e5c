package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/scanview/pkg/debug"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/tree"
)

// DefaultMinPaneWidth is the narrowest a pane is laid out before panes
// start scrolling horizontally.
const DefaultMinPaneWidth = 28

// PanesModel lays out one Pane per selected model, side by side, in
// selection order. Every rendered node is registered by name so a toggle
// applies across all panes, and vertical scrolling is mirrored through a
// ScrollSync.
type PanesModel struct {
	panes    []*Pane
	registry *tree.Registry
	sync     *ScrollSync
	theme    Theme

	focus        int
	first        int
	width        int
	height       int
	minPaneWidth int
}

// NewPanesModel creates an empty pane area.
func NewPanesModel(theme Theme, guard time.Duration, minPaneWidth int) PanesModel {
	if minPaneWidth <= 0 {
		minPaneWidth = DefaultMinPaneWidth
	}
	return PanesModel{
		registry:     tree.NewRegistry(),
		sync:         NewScrollSync(guard),
		theme:        theme,
		minPaneWidth: minPaneWidth,
	}
}

// Build discards every pane and builds one per name from the catalog.
// Expansion state is not carried over: each tree starts with only its
// root expanded. Names missing from the catalog are skipped.
func (m *PanesModel) Build(c *model.Catalog, names []string) {
	defer debug.LogEnterExit("PanesModel.Build")()

	focused := ""
	if p := m.Focused(); p != nil {
		focused = p.Model
	}

	m.registry.Reset()
	m.sync.Reset()
	m.panes = make([]*Pane, 0, len(names))
	for _, name := range names {
		rec, ok := c.Record(name)
		if !ok {
			continue
		}
		root := tree.BuildNode(name, rec, 0, true)
		m.registry.Register(root)
		m.panes = append(m.panes, NewPane(name, root))
	}

	// Focus follows the model when it survives the rebuild and otherwise
	// stays at the same index.
	for i, p := range m.panes {
		if p.Model == focused {
			m.focus = i
		}
	}
	m.layout()
}

// SetSize sets the area available to all panes.
func (m *PanesModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.layout()
}

// visibleCount is how many panes fit side by side.
func (m PanesModel) visibleCount() int {
	if len(m.panes) == 0 {
		return 0
	}
	n := max(m.width/m.minPaneWidth, 1)
	return min(n, len(m.panes))
}

func (m *PanesModel) layout() {
	n := m.visibleCount()
	if n == 0 {
		m.first = 0
		return
	}
	m.focus = clamp(m.focus, 0, len(m.panes)-1)
	if m.focus < m.first {
		m.first = m.focus
	}
	if m.focus >= m.first+n {
		m.first = m.focus - n + 1
	}
	m.first = clamp(m.first, 0, len(m.panes)-n)

	w := max(m.width/n, m.minPaneWidth)
	h := m.height
	if len(m.panes) > n {
		h-- // indicator line
	}
	for _, p := range m.panes {
		p.SetSize(w, h)
	}
}

// Len returns the number of panes.
func (m PanesModel) Len() int { return len(m.panes) }

// Panes returns the panes in display order.
func (m PanesModel) Panes() []*Pane { return m.panes }

// Registry returns the node registry shared by all panes.
func (m PanesModel) Registry() *tree.Registry { return m.registry }

// Sync returns the scroll synchroniser.
func (m PanesModel) Sync() *ScrollSync { return m.sync }

// FocusIndex returns the focused pane index.
func (m PanesModel) FocusIndex() int { return m.focus }

// Focused returns the focused pane, or nil when there are none.
func (m PanesModel) Focused() *Pane {
	if m.focus < 0 || m.focus >= len(m.panes) {
		return nil
	}
	return m.panes[m.focus]
}

// FocusBy moves focus delta panes left or right.
func (m *PanesModel) FocusBy(delta int) {
	if len(m.panes) == 0 {
		return
	}
	m.focus = clamp(m.focus+delta, 0, len(m.panes)-1)
	m.layout()
}

// scrolled raises a scroll event for pane i.
func (m *PanesModel) scrolled(i int) tea.Cmd {
	return m.sync.Sync(m.panes, i)
}

// MoveCursor moves the focused pane's cursor.
func (m *PanesModel) MoveCursor(delta int) tea.Cmd {
	p := m.Focused()
	if p == nil || !p.MoveCursor(delta) {
		return nil
	}
	return m.scrolled(m.focus)
}

// CursorTo puts the focused pane's cursor on row i (negative counts from
// the end).
func (m *PanesModel) CursorTo(i int) tea.Cmd {
	p := m.Focused()
	if p == nil {
		return nil
	}
	if i < 0 {
		i = len(p.Rows()) + i
	}
	if !p.SetCursor(i) {
		return nil
	}
	return m.scrolled(m.focus)
}

// HalfPage moves the focused pane's cursor half a body height in dir.
func (m *PanesModel) HalfPage(dir int) tea.Cmd {
	p := m.Focused()
	if p == nil {
		return nil
	}
	return m.MoveCursor(dir * max(p.bodyHeight()/2, 1))
}

// ScrollPane scrolls pane i by delta rows, as a mouse wheel does.
func (m *PanesModel) ScrollPane(i, delta int) tea.Cmd {
	if i < 0 || i >= len(m.panes) || !m.panes[i].ScrollBy(delta) {
		return nil
	}
	return m.scrolled(i)
}

// PaneAt maps an x coordinate inside the pane area to a pane index, or -1.
func (m PanesModel) PaneAt(x int) int {
	n := m.visibleCount()
	if n == 0 || x < 0 {
		return -1
	}
	w := m.panes[m.first].width
	i := m.first + x/max(w, 1)
	if i >= m.first+n {
		return -1
	}
	return i
}

// ToggleAtCursor expands or collapses the node under the focused pane's
// cursor together with every rendered node of the same name, in every
// pane. It returns the toggled name, the new state and how many nodes
// changed; a leaf changes nothing.
func (m *PanesModel) ToggleAtCursor() (name string, expanded bool, updated int) {
	p := m.Focused()
	if p == nil {
		return "", false, 0
	}
	n := p.CursorNode()
	if n == nil {
		return "", false, 0
	}
	expanded, updated = m.registry.Toggle(n)
	if updated > 0 {
		for _, other := range m.panes {
			other.Refresh()
		}
	}
	return n.Name, expanded, updated
}

// FocusedModel returns the model shown in the focused pane.
func (m PanesModel) FocusedModel() string {
	if p := m.Focused(); p != nil {
		return p.Model
	}
	return ""
}

// Update handles scroll guard releases.
func (m PanesModel) Update(msg tea.Msg) (PanesModel, tea.Cmd) {
	if msg, ok := msg.(scrollReleaseMsg); ok {
		m.sync.Release(msg)
	}
	return m, nil
}

// View renders the visible panes side by side.
func (m PanesModel) View(focused bool) string {
	if len(m.panes) == 0 {
		return m.renderEmptyState()
	}
	n := m.visibleCount()
	views := make([]string, 0, n)
	for i := m.first; i < m.first+n; i++ {
		views = append(views, m.panes[i].View(m.theme, focused && i == m.focus))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, views...)
	if len(m.panes) > n {
		out += "\n" + m.theme.MutedText.Render(paneIndicator(m.first, n, len(m.panes)))
	}
	return out
}

func paneIndicator(first, n, total int) string {
	var sb strings.Builder
	sb.WriteString(" panes ")
	for i := 0; i < total; i++ {
		if i >= first && i < first+n {
			sb.WriteString("●")
		} else {
			sb.WriteString("○")
		}
	}
	return sb.String()
}

func (m PanesModel) renderEmptyState() string {
	return m.theme.MutedText.Render("No models selected. Pick models from the grid above.")
}
