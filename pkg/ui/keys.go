package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	SwitchView key.Binding
	Reload     key.Binding
	Focus      key.Binding
	Search     key.Binding
	Toggle     key.Binding
	Remove     key.Binding
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Copy       key.Binding
	Clear      key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	SwitchView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "switch view")),
	Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next area")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search models")),
	Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
	Remove:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove pane")),
	Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "left/right")),
	Right:      key.NewBinding(key.WithKeys("l", "right")),
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "down/up")),
	Down:       key.NewBinding(key.WithKeys("j", "down")),
	HalfDown:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d/u", "half page")),
	HalfUp:     key.NewBinding(key.WithKeys("ctrl+u")),
	Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/G", "top/bottom")),
	Bottom:     key.NewBinding(key.WithKeys("G", "end")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy rankings")),
	Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear categories")),
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Toggle, k.Up, k.Search, k.SwitchView, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Left, k.HalfDown, k.Top},
		{k.Focus, k.Toggle, k.Remove, k.Search},
		{k.Copy, k.Clear, k.Reload, k.SwitchView},
		{k.Help, k.Quit},
	}
}
