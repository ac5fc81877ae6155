package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/ui/theme"
)

// ProgressBar renders a one-line horizontal bar, optionally with a label
// on the left and a percentage on the right.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View lays out label, bar, and percentage within Width. The bar itself
// never shrinks below 4 cells however narrow the terminal gets.
func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	reserved := lipgloss.Width(b.String())
	if p.ShowPercent {
		reserved += 6 // room for "  100%"
	}
	cells := p.Width - reserved
	if cells < 4 {
		cells = 4
	}

	filled := int(float64(cells) * p.Percent)
	switch {
	case filled < 0:
		filled = 0
	case filled > cells:
		filled = cells
	}

	b.WriteString(lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled)))
	b.WriteString(lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", cells-filled)))

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100))))
	}

	return b.String()
}
