package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# scanview

## Models view

Pick models in the grid; each selected model gets a pane with its
result tree. Panes scroll together.

| Key | Action |
|-----|--------|
| tab | move between grid and panes |
| / | search models (esc clears) |
| enter / space | select model, or expand/collapse node |
| x | remove the focused pane |
| h / l | previous / next pane |
| j / k | move the cursor |
| ctrl+d / ctrl+u | half page down / up |
| g / G | first / last row |

Toggling a node toggles every node with the same name in every pane.

## Query view

Select categories in the tree; each one adds a ranking column.

| Key | Action |
|-----|--------|
| enter / space | select or deselect a category |
| c | clear all categories |
| y | copy rankings as Markdown |
| tab | move between tree and rankings |

## Global

| Key | Action |
|-----|--------|
| v | switch view |
| r | reload data |
| ? | toggle this help |
| q | quit |
`

// renderHelp renders the help page for the given width. Rendering failures
// fall back to the raw markdown.
func renderHelp(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n ")
}
