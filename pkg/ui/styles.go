package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// DepthColors is the cyclic depth palette, indexed by tree.DepthClass.
var DepthColors = [6]lipgloss.AdaptiveColor{
	{Light: "#6B47D9", Dark: "#BD93F9"}, // purple
	{Light: "#006080", Dark: "#8BE9FD"}, // cyan
	{Light: "#007700", Dark: "#50FA7B"}, // green
	{Light: "#B06800", Dark: "#FFB86C"}, // orange
	{Light: "#C0306E", Dark: "#FF79C6"}, // pink
	{Light: "#808000", Dark: "#F1FA8C"}, // yellow
}

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// panelStyle picks the border style for a panel of the given outer size.
func panelStyle(focused bool, width, height int) lipgloss.Style {
	s := PanelStyle
	if focused {
		s = FocusedPanelStyle
	}
	return s.Width(max(width-2, 1)).Height(max(height-2, 1))
}
