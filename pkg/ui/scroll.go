package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/scanview/pkg/debug"
)

// DefaultScrollGuard is how long synchronisation stays suppressed after a
// pane's offset has been mirrored onto the others.
const DefaultScrollGuard = 10 * time.Millisecond

// scrollReleaseMsg lowers the guard raised by the sync with the same
// generation.
type scrollReleaseMsg struct {
	gen int
}

// ScrollSync mirrors one pane's vertical offset onto every other pane.
//
// There is one guard for all panes, not one per pane. While it is up every
// scroll event is dropped, including a user scroll in a different pane, so
// two gestures inside one window can lose the second. The guard only
// prevents the programmatic offset changes made by a sync from starting
// another sync.
type ScrollSync struct {
	window time.Duration
	active bool
	gen    int
	synced int
}

// NewScrollSync returns a sync whose guard lasts window (DefaultScrollGuard
// when window <= 0).
func NewScrollSync(window time.Duration) *ScrollSync {
	if window <= 0 {
		window = DefaultScrollGuard
	}
	return &ScrollSync{window: window}
}

// Active reports whether the guard is up.
func (s *ScrollSync) Active() bool { return s.active }

// Window returns the guard duration.
func (s *ScrollSync) Window() time.Duration { return s.window }

// Synced returns how many syncs have run, for tests and debug output.
func (s *ScrollSync) Synced() int { return s.synced }

// Sync handles a scroll event raised by panes[src]. With the guard down it
// copies that pane's offset to every other pane, raises the guard and
// returns the command that lowers it once the window has passed. With the
// guard up the event is ignored and Sync returns nil.
func (s *ScrollSync) Sync(panes []*Pane, src int) tea.Cmd {
	if s.active || src < 0 || src >= len(panes) {
		return nil
	}
	s.active = true
	s.gen++
	s.synced++

	y := panes[src].Offset()
	for i, p := range panes {
		if i != src {
			p.SetOffset(y)
		}
	}
	debug.LogIf(len(panes) > 1, "scroll sync: pane %d offset %d -> %d panes", src, y, len(panes)-1)

	gen := s.gen
	return tea.Tick(s.window, func(time.Time) tea.Msg {
		return scrollReleaseMsg{gen: gen}
	})
}

// Release lowers the guard if msg belongs to the latest sync.
func (s *ScrollSync) Release(msg scrollReleaseMsg) {
	if msg.gen == s.gen {
		s.active = false
	}
}

// Reset lowers the guard and invalidates pending releases. Called when
// panes are torn down.
func (s *ScrollSync) Reset() {
	s.active = false
	s.gen++
}
