package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/scanview/pkg/loader"
)

// LoadingModel is the loading screen: a spinner with the stage message,
// a progress bar with its percentage and the latest detail line.
type LoadingModel struct {
	message string
	percent float64
	detail  string

	spinner spinner.Model
	bar     progress.Model
	theme   Theme
	width   int
}

// NewLoadingModel creates a loading screen at 0%.
func NewLoadingModel(theme Theme, message string) LoadingModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.PrimaryBold
	return LoadingModel{
		message: message,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		theme:   theme,
		width:   80,
	}
}

// SetMessage starts a new stage.
func (l *LoadingModel) SetMessage(msg string) {
	l.message = msg
	l.percent = 0
	l.detail = ""
}

// SetProgress records a loader progress event. Percent is clamped to
// [0, 100].
func (l *LoadingModel) SetProgress(p loader.Progress) {
	l.percent = min(max(p.Percent, 0), 100)
	l.detail = p.Detail
}

// Percent returns the current percentage.
func (l LoadingModel) Percent() float64 { return l.percent }

// Detail returns the latest detail line.
func (l LoadingModel) Detail() string { return l.detail }

// SetWidth sets the available width.
func (l *LoadingModel) SetWidth(w int) {
	l.width = w
	l.bar.Width = clamp(w-12, 10, 60)
}

// Tick starts the spinner.
func (l LoadingModel) Tick() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l LoadingModel) Update(msg tea.Msg) (LoadingModel, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

func (l LoadingModel) View() string {
	var sb strings.Builder
	sb.WriteString(l.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(l.theme.PrimaryBold.Render(l.message))
	sb.WriteString("\n\n")
	sb.WriteString(l.bar.ViewAs(l.percent / 100))
	sb.WriteString(fmt.Sprintf(" %3.0f%%", l.percent))
	if l.detail != "" {
		sb.WriteString("\n")
		sb.WriteString(l.theme.MutedText.Render(truncate(l.detail, max(l.width-2, 10))))
	}
	return sb.String()
}
