package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	switch {
	case s.quitConfirm:
		return renderQuitConfirm(width)
	case s.gradeErr != nil:
		return s.renderGradeError(width)
	case s.recap:
		return s.renderRecap(width)
	case s.gradingBusy:
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n\n  Scoring your answer...")
	case s.showingFeedback:
		return s.renderFeedback(width)
	case s.idx >= len(s.queue):
		return ""
	default:
		return s.renderQuestion(width)
	}
}

func (s *PlayScreen) renderQuestion(width int) string {
	var b strings.Builder

	info := lipgloss.NewStyle().
		Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Level %d", s.level))
	counter := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d", s.idx+1, len(s.queue)))

	pad := width - lipgloss.Width(info) - lipgloss.Width(counter) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(info + strings.Repeat(" ", pad) + counter)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width-4)))
	b.WriteString("\n\n")

	if s.mcActive {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Arrows + Enter to answer"))
		return b.String()
	}

	q := s.set.FindSubjective(s.queue[s.idx])
	if q == nil {
		return b.String()
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).Bold(true).
			Render(q.Prompt)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Render("Answer: " + s.input.View()))
	return b.String()
}

func (s *PlayScreen) renderFeedback(width int) string {
	res := s.lastGrade
	if res == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")

	if res.Method == grading.MethodRemoteRubric {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Score: %.1f / 10", res.Score)))
	} else if res.Correct {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Success).Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Bold(true).
			Render("Not quite"))
	}
	b.WriteString("\n\n")

	if res.Feedback != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Foreground(theme.Text).
				Render(res.Feedback)))
		b.WriteString("\n\n")
	}

	if s.decision.LevelCompleted {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Level %d cleared!", s.level)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Press any key to continue..."))
	return b.String()
}

func (s *PlayScreen) renderGradeError(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Error).Bold(true).
		Render("Scoring unavailable"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(s.gradeErr.Error())))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("[R] Retry   [S] Skip this question"))
	return b.String()
}

func (s *PlayScreen) renderRecap(width int) string {
	missed := len(s.missedObjective())

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Accent).Bold(true).
		Render("Almost there"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d question(s) still need a correct answer to clear level %d.", missed, s.level)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Press any key to retry them..."))
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).Bold(true).
		Render("Leave this quiz?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your progress will be saved."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
