// Package play runs one level's quiz: objective questions graded locally,
// subjective questions graded by the remote rubric scorer, advancement
// decided by the progression state machine.
package play

import (
	"context"
	"sort"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/progression"
	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/screens/summary"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/ui/components"
	"github.com/skanda/quizquest/internal/ui/layout"
)

// AnswerRecord keeps one graded answer for the end-of-level summary.
type AnswerRecord struct {
	QuestionID string
	Kind       string
	Correct    bool
	Score      float64
	Feedback   string
}

// PlayScreen is the active quiz for one level.
type PlayScreen struct {
	set       *quiz.QuestionSet
	level     int
	prog      *progression.Progression
	grader    *grading.Router
	eventRepo store.EventRepo
	snapRepo  store.SnapshotRepo

	sessionID string
	queue     []string
	idx       int

	mc       components.MultiChoice
	mcActive bool
	input    components.TextInput

	gradingBusy     bool
	lastGrade       *grading.GradeResult
	lastAnswer      string
	gradeErr        error
	showingFeedback bool
	quitConfirm     bool
	recap           bool

	decision progression.AdvanceDecision
	records  []AnswerRecord
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.EscapeHandler = (*PlayScreen)(nil)

// New creates a PlayScreen for a seeded level.
func New(set *quiz.QuestionSet, level int, prog *progression.Progression, grader *grading.Router, eventRepo store.EventRepo, snapRepo store.SnapshotRepo) *PlayScreen {
	s := &PlayScreen{
		set:       set,
		level:     level,
		prog:      prog,
		grader:    grader,
		eventRepo: eventRepo,
		snapRepo:  snapRepo,
		sessionID: uuid.NewString(),
	}
	for _, q := range set.Objective {
		s.queue = append(s.queue, q.ID)
	}
	for _, q := range set.Subjective {
		s.queue = append(s.queue, q.ID)
	}
	s.prepareQuestion()
	return s
}

func (s *PlayScreen) Init() tea.Cmd {
	if s.idx >= len(s.queue) {
		return func() tea.Msg { return levelDoneMsg{} }
	}
	if !s.mcActive {
		return s.input.Init()
	}
	return nil
}

func (s *PlayScreen) Title() string {
	return "Quiz"
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	case s.gradeErr != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry grading"},
			{Key: "S", Description: "Skip"},
		}
	case s.showingFeedback, s.recap:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	}
}

// HandleEscape shows the quit confirmation instead of popping.
func (s *PlayScreen) HandleEscape() (bool, tea.Cmd) {
	if s.quitConfirm {
		return true, nil
	}
	s.quitConfirm = true
	return true, nil
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case gradeResultMsg:
		return s.handleGradeResult(msg)

	case levelDoneMsg:
		return s.handleLevelDone()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.answering() && !s.mcActive {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// answering reports whether a question is awaiting the learner's input.
func (s *PlayScreen) answering() bool {
	return !s.showingFeedback && !s.quitConfirm && !s.gradingBusy && !s.recap &&
		s.gradeErr == nil && s.idx < len(s.queue)
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.saveSnapshot()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.gradeErr != nil {
		switch key {
		case "r", "R":
			s.gradeErr = nil
			return s, s.gradeCurrent(s.lastAnswer)
		case "s", "S":
			s.gradeErr = nil
			s.advance()
			return s, s.afterAdvance()
		}
		return s, nil
	}

	if s.recap {
		s.startRetryRound()
		return s, s.Init()
	}

	if s.showingFeedback {
		s.showingFeedback = false
		s.lastGrade = nil
		s.advance()
		return s, s.afterAdvance()
	}

	if s.gradingBusy || s.idx >= len(s.queue) {
		return s, nil
	}

	if s.mcActive {
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		if s.mc.Submitted {
			return s, s.gradeCurrent(s.mc.ChosenKey)
		}
		return s, cmd
	}

	if key == "enter" {
		answer := s.input.Value()
		if answer == "" {
			return s, nil
		}
		return s, s.gradeCurrent(answer)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// gradeCurrent grades the answer to the current question. Objective
// grading is local and immediate; subjective grading goes to the backend.
func (s *PlayScreen) gradeCurrent(answer string) tea.Cmd {
	id := s.queue[s.idx]
	s.gradingBusy = true
	s.lastAnswer = answer
	return func() tea.Msg {
		res, err := s.grader.Grade(context.Background(), s.set, id, answer)
		return gradeResultMsg{QuestionID: id, Answer: answer, Result: res, Err: err}
	}
}

func (s *PlayScreen) handleGradeResult(msg gradeResultMsg) (screen.Screen, tea.Cmd) {
	s.gradingBusy = false

	if msg.Err != nil {
		s.gradeErr = msg.Err
		return s, nil
	}

	res := msg.Result
	s.lastGrade = res

	// A rejected record is a state bug, not a grading hiccup; it is shown
	// through the same error view rather than dropped.
	decision, err := s.prog.RecordAnswer(s.level, msg.QuestionID, *res)
	if err != nil {
		s.gradeErr = err
		return s, nil
	}
	s.decision = decision

	kind := "objective"
	if res.Method == grading.MethodRemoteRubric {
		kind = "subjective"
	}
	s.records = append(s.records, AnswerRecord{
		QuestionID: msg.QuestionID,
		Kind:       kind,
		Correct:    res.Correct,
		Score:      res.Score,
		Feedback:   res.Feedback,
	})

	if s.eventRepo != nil {
		_ = s.eventRepo.AppendAnswerEvent(context.Background(), store.AnswerEventData{
			SessionID:  s.sessionID,
			Level:      s.level,
			QuestionID: msg.QuestionID,
			Kind:       kind,
			Correct:    res.Correct,
			Score:      res.Score,
			Method:     string(res.Method),
		})
	}

	s.showingFeedback = true
	return s, nil
}

// advance moves to the next queued question.
func (s *PlayScreen) advance() {
	s.idx++
	if s.idx < len(s.queue) {
		s.prepareQuestion()
	}
}

// afterAdvance returns the follow-up command once a question is cleared.
func (s *PlayScreen) afterAdvance() tea.Cmd {
	if s.idx >= len(s.queue) {
		return func() tea.Msg { return levelDoneMsg{} }
	}
	return s.Init()
}

func (s *PlayScreen) handleLevelDone() (screen.Screen, tea.Cmd) {
	view := s.prog.CurrentLevelState()
	completed := s.decision.LevelCompleted || s.decision.AllComplete ||
		(view.Number != s.level) // current moved past this level

	if !completed {
		missed := s.missedObjective()
		if len(missed) > 0 {
			s.recap = true
			return s, nil
		}
	}

	s.saveSnapshot()

	result := summary.Result{
		Level:      s.level,
		Completed:  completed,
		NextLevel:  s.decision.CurrentLevel,
		AllDone:    s.decision.AllComplete,
		Objective:  s.objectiveScore(),
		Subjective: s.subjectiveRecords(),
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(result)}
	}
}

// missedObjective lists objective questions not yet answered correctly.
func (s *PlayScreen) missedObjective() []string {
	correct := make(map[string]bool)
	for _, r := range s.records {
		if r.Kind == "objective" && r.Correct {
			correct[r.QuestionID] = true
		}
	}
	var missed []string
	for _, q := range s.set.Objective {
		if !correct[q.ID] {
			missed = append(missed, q.ID)
		}
	}
	return missed
}

// startRetryRound requeues the missed objective questions.
func (s *PlayScreen) startRetryRound() {
	s.queue = s.missedObjective()
	s.idx = 0
	s.recap = false
	s.prepareQuestion()
}

// prepareQuestion sets up the input widget for the question at idx.
func (s *PlayScreen) prepareQuestion() {
	if s.idx >= len(s.queue) {
		return
	}
	id := s.queue[s.idx]
	if q := s.set.FindObjective(id); q != nil {
		s.mcActive = true
		s.mc = components.NewMultiChoice(q.Prompt, choiceOptions(q), q.CorrectKey)
		return
	}
	s.mcActive = false
	s.input = components.NewTextInput("Type your answer...", false, 0)
}

// choiceOptions flattens a question's choice map into key order.
func choiceOptions(q *quiz.ObjectiveQuestion) []components.ChoiceOption {
	keys := make([]string, 0, len(q.Choices))
	for k := range q.Choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]components.ChoiceOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, components.ChoiceOption{Key: k, Text: q.Choices[k]})
	}
	return opts
}

func (s *PlayScreen) objectiveScore() summary.ObjectiveScore {
	correct := make(map[string]bool)
	for _, r := range s.records {
		if r.Kind == "objective" && r.Correct {
			correct[r.QuestionID] = true
		}
	}
	return summary.ObjectiveScore{
		Correct: len(correct),
		Total:   len(s.set.Objective),
	}
}

func (s *PlayScreen) subjectiveRecords() []summary.SubjectiveScore {
	var out []summary.SubjectiveScore
	for _, r := range s.records {
		if r.Kind != "subjective" {
			continue
		}
		out = append(out, summary.SubjectiveScore{
			QuestionID: r.QuestionID,
			Score:      r.Score,
			Feedback:   r.Feedback,
		})
	}
	return out
}

// saveSnapshot persists the progression so the next run resumes here.
func (s *PlayScreen) saveSnapshot() {
	if s.snapRepo == nil {
		return
	}
	_ = s.snapRepo.Save(context.Background(), s.prog.Snapshot())
}
