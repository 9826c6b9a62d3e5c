package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/scanview/pkg/loader"
)

// renderErrorView renders the terminal error state of a view: nothing of
// the view itself is shown, only the failure and how to retry.
func renderErrorView(theme Theme, err *loader.LoadError, width int) string {
	inner := clamp(width-6, 20, 100)
	wrap := lipgloss.NewStyle().Width(inner)

	var sb strings.Builder
	sb.WriteString(theme.ErrorTitle.Render("⚠ " + err.Title))
	sb.WriteString("\n\n")
	sb.WriteString(wrap.Render(err.Message))
	sb.WriteString("\n\n")
	sb.WriteString(theme.MutedText.Inherit(wrap).Render(loader.LocalTip))
	sb.WriteString("\n\n")
	sb.WriteString(theme.PrimaryBold.Render("r") + theme.MutedText.Render(" retry · ") +
		theme.PrimaryBold.Render("q") + theme.MutedText.Render(" quit"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Danger).
		Padding(1, 2).
		Render(sb.String())
}
