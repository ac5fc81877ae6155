package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/ui/layout"
	"github.com/skanda/quizquest/internal/ui/theme"
)

// ObjectiveScore aggregates objective results for one level.
type ObjectiveScore struct {
	Correct int
	Total   int
}

// SubjectiveScore is one rubric-scored answer.
type SubjectiveScore struct {
	QuestionID string
	Score      float64
	Feedback   string
}

// Result is everything the summary displays about a finished level round.
type Result struct {
	Level      int
	Completed  bool
	NextLevel  int
	AllDone    bool
	Objective  ObjectiveScore
	Subjective []SubjectiveScore
}

// SummaryScreen displays the end-of-level summary.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Level Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result

	var b strings.Builder
	b.WriteString("\n")

	switch {
	case r.AllDone:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Accent).Bold(true).
			Render("All 30 levels complete!"))
	case r.Completed:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("Level %d cleared!", r.Level)))
	default:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("Level %d — round finished", r.Level)))
	}
	b.WriteString("\n\n")

	if r.Completed && !r.AllDone {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Next up: level %d", r.NextLevel)))
		b.WriteString("\n\n")
	}

	statsLine := fmt.Sprintf("Multiple choice: %d/%d correct", r.Objective.Correct, r.Objective.Total)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	if len(r.Subjective) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Free answers")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, sub := range r.Subjective {
			line := fmt.Sprintf("  %s — %.1f/10", sub.QuestionID, sub.Score)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
			b.WriteString("\n")
			if sub.Feedback != "" {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().
						Width(min(width-12, 64)).
						Foreground(theme.TextDim).Italic(true).
						Render(sub.Feedback)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
