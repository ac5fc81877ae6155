package components

import (
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked sections
// on the home screen, so boxes visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// CenteredFrame centers content within the given dimensions inside a
// double-border frame.
func CenteredFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// SectionCard wraps content in a rounded-border card at the given width.
func SectionCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}
