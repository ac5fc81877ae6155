package levelmap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/backend"
	"github.com/skanda/quizquest/internal/progression"
	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/ui/layout"
	"github.com/skanda/quizquest/internal/ui/theme"
)

// levelRowState classifies a level relative to the learner's position.
type levelRowState int

const (
	stateCompleted levelRowState = iota
	stateCurrent
	stateLocked
)

type catalogLoadedMsg struct {
	Levels []backend.Level
	Err    error
}

type accuracyLoadedMsg struct {
	Level    int
	Accuracy float64
	Answered int
}

// LevelMapScreen lists all levels with their status and catalog metadata.
type LevelMapScreen struct {
	client    backend.Client
	prog      *progression.Progression
	eventRepo store.EventRepo

	levels       []backend.Level
	cursor       int
	scrollOffset int
	expanded     map[int]string // level → detail line
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*LevelMapScreen)(nil)
var _ screen.KeyHintProvider = (*LevelMapScreen)(nil)

// New creates a new LevelMapScreen.
func New(client backend.Client, prog *progression.Progression, eventRepo store.EventRepo) *LevelMapScreen {
	s := &LevelMapScreen{
		client:    client,
		prog:      prog,
		eventRepo: eventRepo,
		expanded:  make(map[int]string),
	}
	if prog != nil {
		s.cursor = prog.CurrentLevel() - 1
	}
	return s
}

func (s *LevelMapScreen) Init() tea.Cmd {
	return func() tea.Msg {
		levels, err := s.client.Levels(context.Background())
		return catalogLoadedMsg{Levels: levels, Err: err}
	}
}

func (s *LevelMapScreen) Title() string {
	return "Level Map"
}

func (s *LevelMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LevelMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.levels = msg.Levels
		}
		s.loaded = true
		return s, nil

	case accuracyLoadedMsg:
		if msg.Answered == 0 {
			s.expanded[msg.Level] = "no answers recorded yet"
		} else {
			s.expanded[msg.Level] = fmt.Sprintf("%.0f%% correct over %d answers",
				msg.Accuracy*100, msg.Answered)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.levels)-1 {
				s.cursor++
			}
		case "enter":
			return s, s.toggleDetail()
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// toggleDetail expands the selected level with its recorded accuracy.
func (s *LevelMapScreen) toggleDetail() tea.Cmd {
	if s.cursor >= len(s.levels) {
		return nil
	}
	level := s.levels[s.cursor].Number
	if _, ok := s.expanded[level]; ok {
		delete(s.expanded, level)
		return nil
	}
	if s.eventRepo == nil {
		return nil
	}
	return func() tea.Msg {
		acc, n, err := s.eventRepo.LevelAccuracy(context.Background(), level)
		if err != nil {
			return accuracyLoadedMsg{Level: level}
		}
		return accuracyLoadedMsg{Level: level, Accuracy: acc, Answered: n}
	}
}

func (s *LevelMapScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not fetch levels: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Fetching level catalog...")
	}
	if len(s.levels) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  No levels available.")
	}

	s.adjustScroll(height)

	var lines []string
	visible := 0
	for i, lvl := range s.levels {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}
		lines = append(lines, s.renderLevelRow(lvl, i == s.cursor, width))
		visible++

		if detail, ok := s.expanded[lvl.Number]; ok && visible < height {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.TextDim).Italic(true).
				Render("        "+detail))
			visible++
		}
	}

	return strings.Join(lines, "\n")
}

// adjustScroll keeps the cursor inside the viewport.
func (s *LevelMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// rowState classifies a level against the progression.
func (s *LevelMapScreen) rowState(level int) levelRowState {
	if s.prog == nil {
		return stateLocked
	}
	current := s.prog.CurrentLevel()
	switch {
	case level < current, s.prog.AllComplete():
		return stateCompleted
	case level == current:
		return stateCurrent
	default:
		return stateLocked
	}
}

func (s *LevelMapScreen) renderLevelRow(lvl backend.Level, selected bool, width int) string {
	state := s.rowState(lvl.Number)

	var icon string
	var rowStyle lipgloss.Style
	switch state {
	case stateCompleted:
		icon = "✓"
		rowStyle = lipgloss.NewStyle().Foreground(theme.Success)
	case stateCurrent:
		icon = "●"
		rowStyle = lipgloss.NewStyle().Foreground(theme.Text)
	default:
		icon = "○"
		rowStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	if selected {
		rowStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	nameWidth := width - 36
	if nameWidth < 12 {
		nameWidth = 12
	}
	title := lvl.Title
	if len(title) > nameWidth {
		title = title[:nameWidth-1] + "…"
	}

	counts := fmt.Sprintf("%d MCQ + %d free", lvl.ObjectiveCount, lvl.SubjectiveCount)

	return fmt.Sprintf("  %s%s Level %2d  %s  %s  %s",
		cursor,
		icon,
		lvl.Number,
		rowStyle.Render(fmt.Sprintf("%-*s", nameWidth, title)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%-6s", lvl.Difficulty)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(counts),
	)
}
