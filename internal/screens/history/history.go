package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/ui/layout"
	"github.com/skanda/quizquest/internal/ui/theme"
)

type historyLoadedMsg struct {
	Jobs    []store.JobEventRecord
	Summary *store.Summary
	Err     error
}

// HistoryScreen displays past quiz-building jobs and overall answer stats.
type HistoryScreen struct {
	eventRepo store.EventRepo
	jobs      []store.JobEventRecord
	summary   *store.Summary
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		jobs, err := s.eventRepo.RecentJobEvents(ctx, 50)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		summary, err := s.eventRepo.Summarize(ctx)
		if err != nil {
			return historyLoadedMsg{Jobs: jobs}
		}

		return historyLoadedMsg{Jobs: jobs, Summary: summary}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.jobs = msg.Jobs
			s.summary = msg.Summary
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.jobs)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.jobs) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Upload a document to start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.summary != nil && s.summary.ObjectiveAnswered > 0 {
		accuracy := float64(s.summary.ObjectiveCorrect) / float64(s.summary.ObjectiveAnswered) * 100
		statsLine := fmt.Sprintf("%d quizzes built   %.0f%% objective accuracy   %.1f avg free-answer score",
			s.summary.JobsSucceeded, accuracy, s.summary.SubjectiveAvgScore)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(statsLine)))
		b.WriteString("\n\n")
	}

	for i, job := range s.jobs {
		dateStr := job.CreatedAt.Format("Jan 02, 2006 15:04")

		var outcomeStyle lipgloss.Style
		switch job.Outcome {
		case "succeeded":
			outcomeStyle = lipgloss.NewStyle().Foreground(theme.Success)
		case "failed":
			outcomeStyle = lipgloss.NewStyle().Foreground(theme.Error)
		default:
			outcomeStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-24s %s",
			prefix, dateStr, truncate(job.FileName, 24), outcomeStyle.Render(job.Outcome))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s in %dms", formatSize(job.FileSize), job.LatencyMs)
			if job.Error != "" {
				detail += "  — " + job.Error
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
					Render(truncate(detail, width-8))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
