package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/scanview/pkg/rankings"
)

const (
	minRankColumnWidth = 24
	maxRankColumnWidth = 40
)

// RankingsModel renders one column per selected category path inside a
// scrollable viewport. With no columns it shows the selection placeholder.
type RankingsModel struct {
	cols  []rankings.Column
	vp    viewport.Model
	theme Theme
	width int
}

// NewRankingsModel creates an empty rankings table.
func NewRankingsModel(theme Theme) RankingsModel {
	r := RankingsModel{vp: viewport.New(80, 10), theme: theme, width: 80}
	r.refresh()
	return r
}

// SetColumns replaces the columns and scrolls back to the top.
func (r *RankingsModel) SetColumns(cols []rankings.Column) {
	r.cols = cols
	r.refresh()
	r.vp.GotoTop()
}

// Columns returns the columns shown.
func (r RankingsModel) Columns() []rankings.Column { return r.cols }

// SetSize sets the viewport size.
func (r *RankingsModel) SetSize(width, height int) {
	r.width = width
	r.vp.Width = width
	r.vp.Height = max(height, 1)
	r.refresh()
}

func (r *RankingsModel) refresh() {
	r.vp.SetContent(r.Render())
}

// Render returns the full table, independent of the viewport window.
func (r RankingsModel) Render() string {
	if len(r.cols) == 0 {
		return r.theme.MutedText.Render(rankings.Placeholder)
	}

	w := clamp(r.width/len(r.cols), minRankColumnWidth, maxRankColumnWidth)
	blocks := make([]string, len(r.cols))
	for i, col := range r.cols {
		blocks[i] = r.renderColumn(col, w)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (r RankingsModel) renderColumn(col rankings.Column, width int) string {
	inner := width - 1
	lines := []string{
		r.theme.Header.Width(inner).Render(truncate(col.Header, inner-2)),
	}

	posWidth := len(fmt.Sprint(len(col.Entries))) + 1
	for _, e := range col.Entries {
		pos := fmt.Sprintf("%*s", posWidth, fmt.Sprintf("%d.", e.Position))
		value := e.Display()
		nameRoom := inner - posWidth - runewidth.StringWidth(value) - 2
		name := padRight(truncate(e.Model, nameRoom), max(nameRoom, 0))

		valueStyle := r.theme.PrimaryBold
		if !e.Ranked {
			valueStyle = r.theme.MutedText
		}
		lines = append(lines, r.theme.MutedText.Render(pos)+" "+name+" "+valueStyle.Render(value))
	}

	lines = append(lines, r.theme.MutedText.Render(truncate(rankings.Summarize(col).String(), inner)))
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// Update scrolls the viewport.
func (r RankingsModel) Update(msg tea.Msg) (RankingsModel, tea.Cmd) {
	var cmd tea.Cmd
	r.vp, cmd = r.vp.Update(msg)
	return r, cmd
}

// ScrollBy scrolls by delta lines.
func (r *RankingsModel) ScrollBy(delta int) {
	if delta < 0 {
		r.vp.ScrollUp(-delta)
	} else {
		r.vp.ScrollDown(delta)
	}
}

// View renders the visible window of the table.
func (r RankingsModel) View() string {
	return r.vp.View()
}
