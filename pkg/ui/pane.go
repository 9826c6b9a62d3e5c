package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/scanview/pkg/tree"
)

// paneChrome is the number of lines a pane spends on its border and header.
const paneChrome = 3

// Pane is one model's tree view: a header with the model name and remove
// control, above the visible rows of the model's tree.
type Pane struct {
	Model string
	Root  *tree.Node

	rows   []*tree.Node
	cursor int
	offset int
	width  int
	height int
}

// NewPane creates a pane showing root.
func NewPane(name string, root *tree.Node) *Pane {
	p := &Pane{Model: name, Root: root, width: 30, height: 10}
	p.Refresh()
	return p
}

// SetSize sets the outer size of the pane, border included.
func (p *Pane) SetSize(width, height int) {
	p.width, p.height = width, height
	p.Refresh()
}

// bodyHeight is the number of tree rows that fit.
func (p *Pane) bodyHeight() int {
	return max(p.height-paneChrome, 1)
}

// Refresh recomputes the visible rows after an expansion change. The
// cursor stays on the same node when it is still visible, otherwise it
// moves to the nearest visible ancestor.
func (p *Pane) Refresh() {
	prev := p.CursorNode()
	p.rows = p.Root.Visible()

	p.cursor = clamp(p.cursor, 0, len(p.rows)-1)
	for n := prev; n != nil; n = n.Parent {
		if i := p.indexOf(n); i >= 0 {
			p.cursor = i
			break
		}
	}
	p.offset = clamp(p.offset, 0, p.MaxOffset())
	p.followCursor()
}

func (p *Pane) indexOf(n *tree.Node) int {
	for i, r := range p.rows {
		if r == n {
			return i
		}
	}
	return -1
}

// Rows returns the visible nodes in display order.
func (p *Pane) Rows() []*tree.Node { return p.rows }

// Cursor returns the cursor row index.
func (p *Pane) Cursor() int { return p.cursor }

// CursorNode returns the node under the cursor.
func (p *Pane) CursorNode() *tree.Node {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}
	return p.rows[p.cursor]
}

// Offset returns the index of the first row shown.
func (p *Pane) Offset() int { return p.offset }

// MaxOffset is the largest offset that still fills the body.
func (p *Pane) MaxOffset() int {
	return max(len(p.rows)-p.bodyHeight(), 0)
}

// SetOffset scrolls to y, clamped to the scrollable range, and keeps the
// cursor inside the window. It reports whether the offset changed.
func (p *Pane) SetOffset(y int) bool {
	y = clamp(y, 0, p.MaxOffset())
	if y == p.offset {
		return false
	}
	p.offset = y
	p.cursor = clamp(p.cursor, p.offset, p.offset+p.bodyHeight()-1)
	p.cursor = clamp(p.cursor, 0, len(p.rows)-1)
	return true
}

// ScrollBy moves the window by delta rows without moving the cursor
// unless it would leave the window.
func (p *Pane) ScrollBy(delta int) bool {
	return p.SetOffset(p.offset + delta)
}

// MoveCursor moves the cursor by delta rows, scrolling to keep it visible.
// It reports whether the offset changed.
func (p *Pane) MoveCursor(delta int) bool {
	return p.SetCursor(p.cursor + delta)
}

// SetCursor places the cursor on row i and reports whether the window
// scrolled.
func (p *Pane) SetCursor(i int) bool {
	before := p.offset
	p.cursor = clamp(i, 0, len(p.rows)-1)
	p.followCursor()
	return p.offset != before
}

func (p *Pane) followCursor() {
	body := p.bodyHeight()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+body {
		p.offset = p.cursor - body + 1
	}
	p.offset = clamp(p.offset, 0, p.MaxOffset())
}

// View renders the pane at its current size.
func (p *Pane) View(theme Theme, focused bool) string {
	inner := max(p.width-2, 4)

	var sb strings.Builder
	title := theme.PrimaryBold.Render(truncate(p.Model, inner-2))
	gap := max(inner-runewidth.StringWidth(truncate(p.Model, inner-2))-1, 1)
	sb.WriteString(title + strings.Repeat(" ", gap) + theme.ErrorTitle.Render("×"))

	end := min(p.offset+p.bodyHeight(), len(p.rows))
	for i := p.offset; i < end; i++ {
		sb.WriteString("\n")
		sb.WriteString(p.renderRow(theme, p.rows[i], inner, focused && i == p.cursor))
	}

	return panelStyle(focused, p.width, p.height).Render(sb.String())
}

// renderRow lays a node out as
//
//	<indent><glyph> <name> ... Size: N  Score: 0.00
//
// with the name colored by depth class.
func (p *Pane) renderRow(theme Theme, n *tree.Node, width int, cursor bool) string {
	indent := strings.Repeat("  ", n.Depth-p.Root.Depth)
	glyph := n.ToggleGlyph()
	if glyph == "" {
		glyph = " "
	}
	metrics := fmt.Sprintf("Size: %s  Score: %s", n.SizeText(), n.ScoreText())

	prefix := indent + glyph + " "
	prefixW := runewidth.StringWidth(prefix)
	metricsW := runewidth.StringWidth(metrics)

	nameRoom := width - prefixW - metricsW - 1
	showMetrics := nameRoom >= 4
	if !showMetrics {
		nameRoom = width - prefixW
	}
	name := truncate(n.Name, nameRoom)
	used := prefixW + runewidth.StringWidth(name)

	nameStyle := theme.DepthStyle(n.DepthClass())
	if n.IsRoot() {
		nameStyle = nameStyle.Bold(true)
	}
	line := prefix + nameStyle.Render(name)
	if showMetrics {
		line += strings.Repeat(" ", max(width-used-metricsW, 1)) + theme.MutedText.Render(metrics)
	} else if used < width {
		line += strings.Repeat(" ", width-used)
	}

	if cursor {
		return theme.Cursor.Render(line)
	}
	return line
}
