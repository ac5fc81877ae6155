package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/ui/theme"
)

// ChoiceOption is one selectable answer with its choice key.
type ChoiceOption struct {
	Key  string
	Text string
}

// MultiChoice is a multiple-choice selector over keyed options.
type MultiChoice struct {
	Question   string
	Options    []ChoiceOption
	CorrectKey string
	Selected   int
	Submitted  bool
	ChosenKey  string
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []ChoiceOption, correctKey string) MultiChoice {
	return MultiChoice{
		Question:   question,
		Options:    options,
		CorrectKey: correctKey,
		Selected:   0,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenKey = m.Options[m.Selected].Key
	}

	return m, nil
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, opt.Key, opt.Text)

		if m.Submitted {
			if opt.Key == m.CorrectKey {
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
			} else if opt.Key == m.ChosenKey {
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			if i == m.Selected {
				s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
			}
		}
	}

	return s
}

// IsCorrect returns true if the chosen key matches the correct key exactly.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenKey == m.CorrectKey
}
