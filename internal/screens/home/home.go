package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/backend"
	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/progression"
	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/screens/history"
	"github.com/skanda/quizquest/internal/screens/levelmap"
	"github.com/skanda/quizquest/internal/screens/placeholder"
	uploadscreen "github.com/skanda/quizquest/internal/screens/upload"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/ui/components"
	"github.com/skanda/quizquest/internal/ui/theme"
	"github.com/skanda/quizquest/internal/upload"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string

	currentLevel   int
	levelsComplete int
	accuracy       string
	jobsSucceeded  int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(client backend.Client, eventRepo store.EventRepo, snapRepo store.SnapshotRepo, controller *upload.Controller, prog *progression.Progression, grader *grading.Router) *HomeScreen {
	currentLevel := 1
	levelsComplete := 0
	if prog != nil {
		currentLevel = prog.CurrentLevel()
		view := prog.CurrentLevelState()
		levelsComplete = currentLevel - 1
		if view.Completed {
			levelsComplete = currentLevel
		}
	}

	accuracy := ""
	jobsSucceeded := 0
	if eventRepo != nil {
		if sum, err := eventRepo.Summarize(context.Background()); err == nil {
			jobsSucceeded = sum.JobsSucceeded
			if sum.ObjectiveAnswered > 0 {
				accuracy = fmt.Sprintf("%.0f%%", float64(sum.ObjectiveCorrect)/float64(sum.ObjectiveAnswered)*100)
			}
		}
	}

	menuLabels := []string{"NEW QUIZ", "LEVEL MAP", "HISTORY", "QUIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			if controller == nil || prog == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("New Quiz")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: uploadscreen.New(controller, prog, grader, eventRepo, snapRepo),
				}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			if client == nil || prog == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("Level Map")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: levelmap.New(client, prog, eventRepo)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			if eventRepo == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("History")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(eventRepo)}
			}
		}},
		{Label: menuLabels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:           components.NewMenu(items),
		menuLabels:     menuLabels,
		currentLevel:   currentLevel,
		levelsComplete: levelsComplete,
		accuracy:       accuracy,
		jobsSucceeded:  jobsSucceeded,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderStatsBar(h.currentLevel, h.levelsComplete, h.accuracy, h.jobsSucceeded, cw))
	sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))

	content := strings.Join(sections, "\n\n")

	return components.CenteredFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// CurrentLevel exposes the level shown in the header.
func (h *HomeScreen) CurrentLevel() int {
	return h.currentLevel
}

// Accuracy exposes the accuracy string shown in the header.
func (h *HomeScreen) Accuracy() string {
	return h.accuracy
}

func renderTitle(cw int, compact bool) string {
	title := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Q U I Z Q U E S T")

	if compact {
		return lipgloss.PlaceHorizontal(cw, lipgloss.Center, title)
	}

	sub := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("turn any document into an adaptive quiz")

	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, title) + "\n" +
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, sub)
}

func renderStatsBar(level, complete int, accuracy string, jobs int, cw int) string {
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("◆ Level %d/%d", level, progression.MaxLevel)),
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d cleared", complete)),
	}
	if accuracy != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Render(accuracy+" accuracy"))
	}
	if jobs > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d quizzes built", jobs)))
	}

	return components.SectionCard(strings.Join(parts, "   "), cw)
}

func renderMenu(labels []string, selected int, cw int) string {
	var b strings.Builder
	for i, label := range labels {
		line := "    " + label
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == selected {
			line = "  ▸ " + label
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(cw-8, lipgloss.Center, style.Render(line)))
		if i < len(labels)-1 {
			b.WriteString("\n")
		}
	}
	return components.SectionCard(b.String(), cw)
}
