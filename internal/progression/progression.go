// Package progression owns the level state machine: thirty gated levels,
// unlocked strictly in order. A level advances only when every objective
// question bound to it has been answered with its correct key; subjective
// scores inform feedback but do not gate by default. Play is
// retry-until-correct: a wrong answer keeps the learner on the level with
// no penalty.
package progression

import (
	"errors"
	"fmt"
	"sync"

	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/store"
)

// MaxLevel is the level ceiling. Level MaxLevel+1 is never created.
const MaxLevel = 30

// ErrAllLevelsComplete is returned when answers arrive after the final
// level has been completed.
var ErrAllLevelsComplete = errors.New("all levels complete")

// NotCurrentLevelError reports an answer routed to a past or future level.
// Strictly sequential play: only the current level accepts answers.
type NotCurrentLevelError struct {
	Requested int
	Current   int
}

func (e *NotCurrentLevelError) Error() string {
	return fmt.Sprintf("level %d is not the current level (%d)", e.Requested, e.Current)
}

// AlreadySeededError reports a second Seed on a level. Level content is
// immutable once assigned.
type AlreadySeededError struct {
	Level int
}

func (e *AlreadySeededError) Error() string {
	return fmt.Sprintf("level %d already holds a question set", e.Level)
}

// CatalogEntry is one row of the level catalog: read-only reference data
// fetched once at session start.
type CatalogEntry struct {
	Number          int
	Title           string
	Difficulty      string
	ObjectiveCount  int
	SubjectiveCount int
}

// AdvancePolicy controls what gates level completion. The default gates on
// objective correctness only; the subjective gate exists as a policy switch
// because product intent may differ.
type AdvancePolicy struct {
	// RequireSubjectivePass additionally requires every subjective
	// question to have scored at least SubjectivePassScore.
	RequireSubjectivePass bool

	// SubjectivePassScore is the minimum passing subjective score when
	// RequireSubjectivePass is set.
	SubjectivePassScore float64
}

// AdvanceDecision is the outcome of recording one answer.
type AdvanceDecision struct {
	// Correct mirrors the grade's correctness signal.
	Correct bool

	// LevelCompleted is true when this answer completed the level.
	LevelCompleted bool

	// CurrentLevel is the level after applying the decision.
	CurrentLevel int

	// AllComplete is true once level MaxLevel has been completed.
	AllComplete bool
}

// levelState is the internal per-level record. Levels are created lazily
// as reached and never deleted, only marked completed.
type levelState struct {
	number           int
	set              *quiz.QuestionSet
	completed        bool
	correctObjective map[string]bool
	subjectiveScores map[string]float64
}

// LevelView is a read-only snapshot of a level.
type LevelView struct {
	Number           int
	Set              *quiz.QuestionSet
	Completed        bool
	CorrectObjective []string
	SubjectiveScores map[string]float64
}

// Progression is the level state machine. Safe for concurrent use.
type Progression struct {
	mu          sync.Mutex
	current     int
	allComplete bool
	levels      map[int]*levelState
	catalog     map[int]CatalogEntry
	policy      AdvancePolicy
}

// Option configures a Progression.
type Option func(*Progression)

// WithCatalog attaches the level catalog for per-level metadata.
func WithCatalog(entries []CatalogEntry) Option {
	return func(p *Progression) {
		for _, e := range entries {
			if e.Number >= 1 && e.Number <= MaxLevel {
				p.catalog[e.Number] = e
			}
		}
	}
}

// WithPolicy overrides the default advance policy.
func WithPolicy(policy AdvancePolicy) Option {
	return func(p *Progression) { p.policy = policy }
}

// New creates a Progression starting at level 1.
func New(opts ...Option) *Progression {
	p := &Progression{
		current: 1,
		levels:  make(map[int]*levelState),
		catalog: make(map[int]CatalogEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.levels[1] = newLevelState(1)
	return p
}

func newLevelState(number int) *levelState {
	return &levelState{
		number:           number,
		correctObjective: make(map[string]bool),
		subjectiveScores: make(map[string]float64),
	}
}

func applyGrade(ls *levelState, questionID string, grade grading.GradeResult) error {
	switch {
	case ls.set.FindObjective(questionID) != nil:
		if grade.Correct {
			ls.correctObjective[questionID] = true
		}
	case ls.set.FindSubjective(questionID) != nil:
		ls.subjectiveScores[questionID] = grade.Score
	default:
		return fmt.Errorf("question %q not in level %d", questionID, ls.number)
	}
	return nil
}

// Seed binds a QuestionSet to a level. A level's content is immutable once
// assigned: a second Seed fails with *AlreadySeededError and leaves the
// first set intact.
func (p *Progression) Seed(level int, set *quiz.QuestionSet) error {
	if level < 1 || level > MaxLevel {
		return fmt.Errorf("level %d outside [1, %d]", level, MaxLevel)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ls := p.levels[level]
	if ls == nil {
		ls = newLevelState(level)
		p.levels[level] = ls
	}
	if ls.set != nil {
		return &AlreadySeededError{Level: level}
	}
	ls.set = set
	return nil
}

// RecordAnswer applies a grade to a question of the current level and
// decides whether the level completes and play advances. A level completes
// on its last correct objective answer, which can happen while subjective
// answers from the same round are still being graded; those trailing answers
// still record against their (now completed) level without advancing
// anything. Answers for any other level fail with *NotCurrentLevelError and
// mutate nothing.
func (p *Progression) RecordAnswer(level int, questionID string, grade grading.GradeResult) (AdvanceDecision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ls := p.levels[level]

	if level != p.current || p.allComplete {
		if ls != nil && ls.completed && ls.set != nil && level <= p.current {
			if err := applyGrade(ls, questionID, grade); err != nil {
				return AdvanceDecision{}, err
			}
			return AdvanceDecision{
				Correct:      grade.Correct,
				CurrentLevel: p.current,
				AllComplete:  p.allComplete,
			}, nil
		}
		if p.allComplete {
			return AdvanceDecision{}, ErrAllLevelsComplete
		}
		return AdvanceDecision{}, &NotCurrentLevelError{Requested: level, Current: p.current}
	}

	if ls == nil || ls.set == nil {
		return AdvanceDecision{}, fmt.Errorf("level %d has no question set", level)
	}

	if err := applyGrade(ls, questionID, grade); err != nil {
		return AdvanceDecision{}, err
	}

	decision := AdvanceDecision{
		Correct:      grade.Correct,
		CurrentLevel: p.current,
	}

	if !ls.completed && p.levelSatisfied(ls) {
		ls.completed = true
		decision.LevelCompleted = true
		if p.current >= MaxLevel {
			p.allComplete = true
		} else {
			p.current++
			if p.levels[p.current] == nil {
				p.levels[p.current] = newLevelState(p.current)
			}
		}
		decision.CurrentLevel = p.current
	}

	decision.AllComplete = p.allComplete
	return decision, nil
}

// levelSatisfied checks the advance gate for a seeded level.
func (p *Progression) levelSatisfied(ls *levelState) bool {
	if len(ls.set.Objective) == 0 {
		return false
	}
	for _, q := range ls.set.Objective {
		if !ls.correctObjective[q.ID] {
			return false
		}
	}
	if p.policy.RequireSubjectivePass {
		for _, q := range ls.set.Subjective {
			score, answered := ls.subjectiveScores[q.ID]
			if !answered || score < p.policy.SubjectivePassScore {
				return false
			}
		}
	}
	return true
}

// CurrentLevel returns the active level number.
func (p *Progression) CurrentLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// AllComplete reports whether the final level has been completed.
func (p *Progression) AllComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allComplete
}

// CurrentLevelState returns a read-only snapshot of the active level.
func (p *Progression) CurrentLevelState() LevelView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewOf(p.current)
}

// LevelState returns a snapshot of a specific level and whether that level
// has been reached yet.
func (p *Progression) LevelState(level int) (LevelView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.levels[level] == nil {
		return LevelView{Number: level}, false
	}
	return p.viewOf(level), true
}

func (p *Progression) viewOf(level int) LevelView {
	ls := p.levels[level]
	view := LevelView{Number: level}
	if ls == nil {
		return view
	}
	view.Set = ls.set
	view.Completed = ls.completed
	for id := range ls.correctObjective {
		view.CorrectObjective = append(view.CorrectObjective, id)
	}
	if len(ls.subjectiveScores) > 0 {
		view.SubjectiveScores = make(map[string]float64, len(ls.subjectiveScores))
		for id, score := range ls.subjectiveScores {
			view.SubjectiveScores[id] = score
		}
	}
	return view
}

// Catalog returns the catalog entry for a level, if known.
func (p *Progression) Catalog(level int) (CatalogEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.catalog[level]
	return e, ok
}

// Snapshot captures the progression for persistence. Question sets are not
// included: content is regenerated each session.
func (p *Progression) Snapshot() *store.ProgressSnapshotData {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := &store.ProgressSnapshotData{
		Version:      1,
		CurrentLevel: p.current,
	}
	for i := 1; i <= MaxLevel; i++ {
		ls := p.levels[i]
		if ls == nil {
			continue
		}
		data.Levels = append(data.Levels, store.LevelSnapshotData{
			Level:     ls.number,
			Completed: ls.completed,
		})
	}
	return data
}

// Restore rebuilds progression from a snapshot. Completed flags and the
// current level carry over; question sets start unseeded.
func Restore(data *store.ProgressSnapshotData, opts ...Option) *Progression {
	p := New(opts...)
	if data == nil {
		return p
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, l := range data.Levels {
		if l.Level < 1 || l.Level > MaxLevel {
			continue
		}
		ls := newLevelState(l.Level)
		ls.completed = l.Completed
		p.levels[l.Level] = ls
	}

	if data.CurrentLevel >= 1 && data.CurrentLevel <= MaxLevel {
		p.current = data.CurrentLevel
		if p.levels[p.current] == nil {
			p.levels[p.current] = newLevelState(p.current)
		}
	}

	// A restored run where level 30 was already done stays terminal.
	if last := p.levels[MaxLevel]; last != nil && last.completed {
		p.allComplete = true
		p.current = MaxLevel
	}

	return p
}
