package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/skanda/quizquest/internal/ui/layout"
)

// Screen is the interface implemented by all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is an optional interface for screens that need to
// intercept Esc (to cancel work or confirm before leaving). When the
// handler reports the key as handled, the router does not pop.
type EscapeHandler interface {
	HandleEscape() (handled bool, cmd tea.Cmd)
}
