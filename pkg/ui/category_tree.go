package ui

import (
	"strings"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/selection"
)

// categoryRow is one taxonomy node with the path built from its own key
// and the keys of its ancestors.
type categoryRow struct {
	node  *model.CategoryNode
	path  string
	depth int
}

// CategoryTreeModel shows the whole taxonomy, fully expanded. Rows display
// a node's name; selecting a row toggles the dotted path of keys leading
// to it.
type CategoryTreeModel struct {
	root   *model.CategoryNode
	rows   []categoryRow
	cursor int
	offset int
	width  int
	height int
	theme  Theme
}

// NewCategoryTreeModel creates an empty category tree.
func NewCategoryTreeModel(theme Theme) CategoryTreeModel {
	return CategoryTreeModel{theme: theme, width: 40, height: 10}
}

// SetRoot replaces the taxonomy and resets the cursor.
func (c *CategoryTreeModel) SetRoot(root *model.CategoryNode) {
	c.root = root
	c.rows = nil
	c.cursor, c.offset = 0, 0
	root.Walk(func(n *model.CategoryNode, ancestors []string, depth int) bool {
		segs := append(append(make([]string, 0, len(ancestors)+1), ancestors...), n.Key)
		c.rows = append(c.rows, categoryRow{node: n, path: model.JoinPath(segs...), depth: depth})
		return true
	})
}

// SetSize sets the outer size, border included.
func (c *CategoryTreeModel) SetSize(width, height int) {
	c.width, c.height = width, height
	c.follow()
}

func (c CategoryTreeModel) bodyHeight() int {
	return max(c.height-2, 1)
}

// Len returns the number of rows.
func (c CategoryTreeModel) Len() int { return len(c.rows) }

// Paths returns the path of every row in display order.
func (c CategoryTreeModel) Paths() []string {
	out := make([]string, len(c.rows))
	for i, r := range c.rows {
		out[i] = r.path
	}
	return out
}

// CursorPath returns the path of the row under the cursor.
func (c CategoryTreeModel) CursorPath() string {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return ""
	}
	return c.rows[c.cursor].path
}

// Move moves the cursor by delta rows.
func (c *CategoryTreeModel) Move(delta int) {
	c.cursor = clamp(c.cursor+delta, 0, len(c.rows)-1)
	c.follow()
}

// MoveTo puts the cursor on row i (negative counts from the end).
func (c *CategoryTreeModel) MoveTo(i int) {
	if i < 0 {
		i = len(c.rows) + i
	}
	c.cursor = clamp(i, 0, len(c.rows)-1)
	c.follow()
}

// HalfPage moves half a body height in dir.
func (c *CategoryTreeModel) HalfPage(dir int) {
	c.Move(dir * max(c.bodyHeight()/2, 1))
}

func (c *CategoryTreeModel) follow() {
	body := c.bodyHeight()
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+body {
		c.offset = c.cursor - body + 1
	}
	c.offset = clamp(c.offset, 0, max(len(c.rows)-body, 0))
}

// View renders the visible rows inside a panel.
func (c CategoryTreeModel) View(sel *selection.State, focused bool) string {
	inner := max(c.width-2, 4)
	var lines []string
	end := min(c.offset+c.bodyHeight(), len(c.rows))
	for i := c.offset; i < end; i++ {
		r := c.rows[i]
		picked := sel != nil && sel.IsCategorySelected(r.path)
		mark := "○ "
		if picked {
			mark = "● "
		}
		text := padRight(truncate(strings.Repeat("  ", r.depth)+mark+r.node.Name, inner), inner)
		switch {
		case focused && i == c.cursor:
			text = c.theme.Cursor.Render(text)
		case picked:
			text = c.theme.Picked.Render(text)
		default:
			text = c.theme.DepthStyle(r.depth).Render(text)
		}
		lines = append(lines, text)
	}
	if len(lines) == 0 {
		lines = append(lines, c.theme.MutedText.Render("Category tree is empty."))
	}
	return panelStyle(focused, c.width, c.height).Render(strings.Join(lines, "\n"))
}
