package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/selection"
)

// gridCellWidth is the width of one model cell, separator included.
const gridCellWidth = 26

// GridModel is the model picker: every model of the catalog, best root
// score first, narrowed by a case-insensitive substring filter.
type GridModel struct {
	catalog *model.Catalog
	ranked  []string
	visible []string

	filter    textinput.Model
	filtering bool

	cursor int
	offset int // first visible grid row
	width  int
	height int
	theme  Theme
}

// NewGridModel creates an empty grid.
func NewGridModel(theme Theme) GridModel {
	ti := textinput.New()
	ti.Placeholder = "Search models..."
	ti.Prompt = "/ "
	ti.CharLimit = 120
	return GridModel{filter: ti, theme: theme, width: 80, height: 4}
}

// SetCatalog replaces the models shown and clears the filter.
func (g *GridModel) SetCatalog(c *model.Catalog) {
	g.catalog = c
	g.ranked = selection.RankByScore(c)
	g.filter.SetValue("")
	g.applyFilter()
}

// SetSize sets the area of the grid, filter line included.
func (g *GridModel) SetSize(width, height int) {
	g.width, g.height = width, height
	g.filter.Width = max(width-4, 10)
	g.scrollToCursor()
}

// Columns is the number of cells per grid row.
func (g GridModel) Columns() int {
	return max(g.width/gridCellWidth, 1)
}

// bodyRows is the number of grid rows shown below the filter line.
func (g GridModel) bodyRows() int {
	return max(g.height-1, 1)
}

// RowsNeeded is how many lines the grid would use to show every visible
// model, filter line included.
func (g GridModel) RowsNeeded() int {
	cols := g.Columns()
	return 1 + max((len(g.visible)+cols-1)/cols, 1)
}

// Filter returns the current search text.
func (g GridModel) Filter() string { return g.filter.Value() }

// SetFilter sets the search text directly.
func (g *GridModel) SetFilter(s string) {
	g.filter.SetValue(s)
	g.applyFilter()
}

func (g *GridModel) applyFilter() {
	term := strings.ToLower(g.filter.Value())
	visible := make([]string, 0, len(g.ranked))
	for _, name := range g.ranked {
		if term == "" || strings.Contains(strings.ToLower(name), term) {
			visible = append(visible, name)
		}
	}
	g.visible = visible
	g.cursor = clamp(g.cursor, 0, len(g.visible)-1)
	g.scrollToCursor()
}

// Visible returns the models shown, in grid order.
func (g GridModel) Visible() []string { return g.visible }

// Current returns the model under the cursor, or "".
func (g GridModel) Current() string {
	if g.cursor < 0 || g.cursor >= len(g.visible) {
		return ""
	}
	return g.visible[g.cursor]
}

// Filtering reports whether the search box has focus.
func (g GridModel) Filtering() bool { return g.filtering }

// StartFilter focuses the search box.
func (g *GridModel) StartFilter() tea.Cmd {
	g.filtering = true
	return g.filter.Focus()
}

// StopFilter returns focus to the grid, keeping the filter text.
func (g *GridModel) StopFilter() {
	g.filtering = false
	g.filter.Blur()
}

// Move moves the cursor by dx cells and dy rows.
func (g *GridModel) Move(dx, dy int) {
	if len(g.visible) == 0 {
		return
	}
	g.cursor = clamp(g.cursor+dx+dy*g.Columns(), 0, len(g.visible)-1)
	g.scrollToCursor()
}

func (g *GridModel) scrollToCursor() {
	row := g.cursor / g.Columns()
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+g.bodyRows() {
		g.offset = row - g.bodyRows() + 1
	}
	g.offset = max(g.offset, 0)
}

// Update feeds key input to the search box while it has focus.
func (g GridModel) Update(msg tea.Msg) (GridModel, tea.Cmd) {
	if !g.filtering {
		return g, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			g.StopFilter()
			g.SetFilter("")
			return g, nil
		case "enter":
			g.StopFilter()
			return g, nil
		}
	}
	var cmd tea.Cmd
	before := g.filter.Value()
	g.filter, cmd = g.filter.Update(msg)
	if g.filter.Value() != before {
		g.applyFilter()
	}
	return g, cmd
}

// View renders the search line and the visible grid rows. Selected models
// are marked and highlighted.
func (g GridModel) View(sel *selection.State, focused bool) string {
	var sb strings.Builder
	if g.filtering || g.filter.Value() != "" {
		sb.WriteString(g.filter.View())
	} else {
		sb.WriteString(g.theme.MutedText.Render(fmt.Sprintf("%d models · / to search", len(g.ranked))))
	}

	if len(g.visible) == 0 {
		sb.WriteString("\n")
		sb.WriteString(g.theme.MutedText.Render("No models match."))
		return sb.String()
	}

	cols := g.Columns()
	start := g.offset * cols
	end := min(start+g.bodyRows()*cols, len(g.visible))
	for i := start; i < end; i++ {
		if (i-start)%cols == 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(g.renderCell(g.visible[i], sel, focused && i == g.cursor))
	}
	return sb.String()
}

func (g GridModel) renderCell(name string, sel *selection.State, cursor bool) string {
	mark := "  "
	picked := sel != nil && sel.IsModelSelected(name)
	if picked {
		mark = "✓ "
	}
	score := fmt.Sprintf("%.2f", g.catalog.Score(name))
	text := spread(mark+name, score, gridCellWidth-1) + " "

	switch {
	case cursor:
		return g.theme.Cursor.Render(text)
	case picked:
		return g.theme.Picked.Render(text)
	}
	return text
}
