package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/ui/theme"
)

// TextInput wraps bubbles/textinput and adds a numeric-only mode plus a
// pass/fail marker shown after the value is submitted.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	MaxWidth    int
	submitted   bool
	valid       bool
}

// NewTextInput returns a focused input. A positive maxWidth doubles as
// the character limit.
func NewTextInput(placeholder string, numericOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{
		Model:       ti,
		NumericOnly: numericOnly,
		MaxWidth:    maxWidth,
	}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	// In numeric mode, printable keys other than digits are swallowed
	// before the underlying model sees them.
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			if key := kmsg.String(); len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	switch {
	case t.submitted && t.valid:
		view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case t.submitted:
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the raw input text.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// NumericValue parses the input as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Model.Value())
}

// Submit records the validation outcome, which View then marks.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}

func (t *TextInput) Blur() {
	t.Model.Blur()
}

func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}
