// Package upload is the document submission screen: a small form, a
// synthetic progress phase while the backend builds the quiz, and an
// error phase that must be acknowledged before retrying.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/progression"
	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/screens/play"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/submission"
	"github.com/skanda/quizquest/internal/ui/components"
	"github.com/skanda/quizquest/internal/ui/layout"
	"github.com/skanda/quizquest/internal/ui/theme"
	ctl "github.com/skanda/quizquest/internal/upload"
)

type phase int

const (
	phaseForm phase = iota
	phaseProcessing
	phaseError
)

// Form field indices.
const (
	fieldFile = iota
	fieldInstruction
	fieldObjective
	fieldSubjective
	fieldCount
)

// UploadScreen drives one document submission for the current level.
type UploadScreen struct {
	controller *ctl.Controller
	prog       *progression.Progression
	grader     *grading.Router
	eventRepo  store.EventRepo
	snapRepo   store.SnapshotRepo

	phase    phase
	level    int
	inputs   [fieldCount]components.TextInput
	focus    int
	formErr  string
	progress int
	status   ctl.Status
	errMsg   string

	events <-chan ctl.Event
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)
var _ screen.EscapeHandler = (*UploadScreen)(nil)

// New creates a new UploadScreen for the progression's current level.
func New(controller *ctl.Controller, prog *progression.Progression, grader *grading.Router, eventRepo store.EventRepo, snapRepo store.SnapshotRepo) *UploadScreen {
	s := &UploadScreen{
		controller: controller,
		prog:       prog,
		grader:     grader,
		eventRepo:  eventRepo,
		snapRepo:   snapRepo,
		level:      prog.CurrentLevel(),
	}

	s.inputs[fieldFile] = components.NewTextInput("path/to/notes.pdf", false, 120)
	s.inputs[fieldInstruction] = components.NewTextInput("make a quiz from this document", false, 200)
	s.inputs[fieldObjective] = components.NewTextInput("5", true, 2)
	s.inputs[fieldSubjective] = components.NewTextInput("2", true, 2)

	for i := range s.inputs {
		if i != fieldFile {
			s.inputs[i].Blur()
		}
	}
	return s
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.inputs[fieldFile].Init()
}

func (s *UploadScreen) Title() string {
	return fmt.Sprintf("New Quiz — Level %d", s.level)
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseProcessing:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	case phaseError:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Build quiz"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

// HandleEscape cancels an in-flight job instead of leaving the screen,
// and turns an error phase back into the form.
func (s *UploadScreen) HandleEscape() (bool, tea.Cmd) {
	switch s.phase {
	case phaseProcessing:
		s.controller.Cancel()
		return true, nil
	case phaseError:
		s.controller.Acknowledge()
		s.phase = phaseForm
		s.errMsg = ""
		return true, nil
	default:
		return false, nil
	}
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case jobStartedMsg:
		s.phase = phaseProcessing
		s.progress = 0
		s.events = msg.Events
		return s, waitEvent(msg.Events)

	case jobStartFailedMsg:
		if errors.Is(msg.Err, ctl.ErrAlreadyInFlight) {
			s.formErr = "a submission is already running"
		} else {
			s.formErr = msg.Err.Error()
		}
		return s, nil

	case jobEventMsg:
		return s.handleJobEvent(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseForm {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *UploadScreen) handleJobEvent(msg jobEventMsg) (screen.Screen, tea.Cmd) {
	if msg.Closed {
		return s, nil
	}

	ev := msg.Event

	if !ev.Terminal {
		s.progress = ev.Progress
		s.status = ev.Status
		return s, waitEvent(s.events)
	}

	switch {
	case ev.Cancelled:
		s.phase = phaseForm
		s.progress = 0
		return s, nil

	case ev.Err != nil:
		s.phase = phaseError
		s.errMsg = ev.Err.Error()
		return s, nil

	default:
		if err := s.prog.Seed(s.level, ev.Set); err != nil {
			s.phase = phaseError
			s.errMsg = err.Error()
			return s, nil
		}
		quiz := play.New(ev.Set, s.level, s.prog, s.grader, s.eventRepo, s.snapRepo)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: quiz}
		}
	}
}

func (s *UploadScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseError:
		if key == "enter" {
			s.controller.Acknowledge()
			s.phase = phaseForm
			s.errMsg = ""
		}
		return s, nil

	case phaseProcessing:
		return s, nil
	}

	switch key {
	case "tab", "down":
		return s, s.focusField((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.focusField((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *UploadScreen) focusField(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[i].Focus()
}

// submit reads the chosen file and hands the submission to the controller.
func (s *UploadScreen) submit() tea.Cmd {
	path := strings.TrimSpace(s.inputs[fieldFile].Value())
	if path == "" {
		s.formErr = "choose a file first"
		return nil
	}

	instruction := strings.TrimSpace(s.inputs[fieldInstruction].Value())
	numObjective, _ := s.inputs[fieldObjective].NumericValue()
	numSubjective, _ := s.inputs[fieldSubjective].NumericValue()

	s.formErr = ""
	level := s.level

	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return jobStartFailedMsg{Err: fmt.Errorf("read %s: %w", path, err)}
		}

		sub := &submission.Submission{
			FileName:        filepath.Base(path),
			MediaType:       mediaTypeFor(path),
			Data:            data,
			Instruction:     instruction,
			NumObjective:    numObjective,
			NumSubjective:   numSubjective,
			DifficultyLevel: level,
		}

		events, err := s.controller.Submit(context.Background(), sub)
		if err != nil {
			return jobStartFailedMsg{Err: err}
		}
		return jobStartedMsg{Events: events}
	}
}

// mediaTypeFor guesses the media type from the file extension. Unknown
// extensions pass through and are rejected by submission validation.
func mediaTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".txt", ".md":
		return "text/plain"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// waitEvent blocks on the controller's event channel.
func waitEvent(events <-chan ctl.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return jobEventMsg{Event: ev, Closed: !ok}
	}
}

func (s *UploadScreen) View(width, height int) string {
	switch s.phase {
	case phaseProcessing:
		return s.renderProcessing(width)
	case phaseError:
		return s.renderError(width)
	default:
		return s.renderForm(width)
	}
}

func (s *UploadScreen) renderForm(width int) string {
	labels := [fieldCount]string{"Document", "Instruction", "Multiple choice", "Free answer"}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("PDF, TXT or CSV up to %d MB", submission.MaxFileSize>>20)))
	b.WriteString("\n\n")

	for i := range s.inputs {
		label := fmt.Sprintf("%-16s", labels[i])
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.focus {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		line := style.Render(label) + s.inputs[i].View()
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	if s.formErr != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.formErr))
	}

	return b.String()
}

func (s *UploadScreen) renderProcessing(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	label := "Uploading document..."
	if s.status == ctl.StatusAwaitingResult {
		label = "Building your quiz..."
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).Bold(true).
		Render(label))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", float64(s.progress)/100, true, min(width-16, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Esc to cancel"))

	return b.String()
}

func (s *UploadScreen) renderError(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.Error).Bold(true).
		Render("Quiz generation failed"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(s.errMsg)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Enter to try again, Esc to go back"))
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
