package progression

import (
	"errors"
	"fmt"
	"testing"

	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/store"
)

func twoObjectiveSet() *quiz.QuestionSet {
	return &quiz.QuestionSet{
		Objective: []quiz.ObjectiveQuestion{
			{ID: "mcq-1", Prompt: "q1", Choices: map[string]string{"A": "x", "B": "y"}, CorrectKey: "A"},
			{ID: "mcq-2", Prompt: "q2", Choices: map[string]string{"A": "x", "B": "y"}, CorrectKey: "B"},
		},
		Subjective: []quiz.SubjectiveQuestion{
			{ID: "subj-1", Prompt: "explain"},
		},
	}
}

func correctGrade() grading.GradeResult {
	return grading.GradeResult{Score: 10, Method: grading.MethodLocalMatch, Correct: true}
}

func wrongGrade() grading.GradeResult {
	return grading.GradeResult{Score: 0, Method: grading.MethodLocalMatch, Correct: false}
}

func TestSeed_Idempotency(t *testing.T) {
	p := New()
	first := twoObjectiveSet()
	if err := p.Seed(1, first); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	second := &quiz.QuestionSet{Objective: []quiz.ObjectiveQuestion{{ID: "other", CorrectKey: "A"}}}
	err := p.Seed(1, second)
	var se *AlreadySeededError
	if !errors.As(err, &se) {
		t.Fatalf("second Seed() = %v, want *AlreadySeededError", err)
	}

	if got := p.CurrentLevelState().Set; got != first {
		t.Error("first question set was not left intact")
	}
}

func TestSeed_OutOfRange(t *testing.T) {
	p := New()
	for _, level := range []int{0, -1, 31, 100} {
		if err := p.Seed(level, twoObjectiveSet()); err == nil {
			t.Errorf("Seed(%d) = nil, want error", level)
		}
	}
}

func TestRecordAnswer_NotCurrentLevel(t *testing.T) {
	p := New()
	if err := p.Seed(1, twoObjectiveSet()); err != nil {
		t.Fatal(err)
	}

	for _, level := range []int{2, 5, 30} {
		_, err := p.RecordAnswer(level, "mcq-1", correctGrade())
		var nce *NotCurrentLevelError
		if !errors.As(err, &nce) {
			t.Fatalf("RecordAnswer(level %d) = %v, want *NotCurrentLevelError", level, err)
		}
		if nce.Current != 1 {
			t.Errorf("Current = %d, want 1", nce.Current)
		}
	}

	// Rejected answers mutate nothing.
	view := p.CurrentLevelState()
	if len(view.CorrectObjective) != 0 || view.Completed {
		t.Errorf("state mutated by rejected answers: %+v", view)
	}
}

func TestRecordAnswer_AdvancesWhenAllObjectiveCorrect(t *testing.T) {
	p := New()
	if err := p.Seed(1, twoObjectiveSet()); err != nil {
		t.Fatal(err)
	}

	d, err := p.RecordAnswer(1, "mcq-1", correctGrade())
	if err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if d.LevelCompleted || d.CurrentLevel != 1 {
		t.Errorf("decision after first correct = %+v, want still on level 1", d)
	}

	d, err = p.RecordAnswer(1, "mcq-2", correctGrade())
	if err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if !d.LevelCompleted {
		t.Error("LevelCompleted = false, want true")
	}
	if d.CurrentLevel != 2 {
		t.Errorf("CurrentLevel = %d, want 2", d.CurrentLevel)
	}
	if p.CurrentLevel() != 2 {
		t.Errorf("CurrentLevel() = %d, want 2", p.CurrentLevel())
	}
}

func TestRecordAnswer_IncorrectKeepsLevel(t *testing.T) {
	p := New()
	if err := p.Seed(1, twoObjectiveSet()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		d, err := p.RecordAnswer(1, "mcq-1", wrongGrade())
		if err != nil {
			t.Fatalf("RecordAnswer() error = %v", err)
		}
		if d.Correct || d.LevelCompleted || d.CurrentLevel != 1 {
			t.Errorf("decision = %+v, want stay on level 1", d)
		}
	}
	if view := p.CurrentLevelState(); view.Completed {
		t.Error("Completed = true after only wrong answers")
	}

	// Retry-until-correct: the same question finally lands.
	if _, err := p.RecordAnswer(1, "mcq-1", correctGrade()); err != nil {
		t.Fatal(err)
	}
	d, err := p.RecordAnswer(1, "mcq-2", correctGrade())
	if err != nil {
		t.Fatal(err)
	}
	if !d.LevelCompleted {
		t.Error("level did not complete after retries succeeded")
	}
}

func TestRecordAnswer_SubjectiveDoesNotGate(t *testing.T) {
	p := New()
	if err := p.Seed(1, twoObjectiveSet()); err != nil {
		t.Fatal(err)
	}

	// Low subjective score, then all objective correct: still advances.
	if _, err := p.RecordAnswer(1, "subj-1", grading.GradeResult{Score: 2, Method: grading.MethodRemoteRubric}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.RecordAnswer(1, "mcq-1", correctGrade()); err != nil {
		t.Fatal(err)
	}
	d, err := p.RecordAnswer(1, "mcq-2", correctGrade())
	if err != nil {
		t.Fatal(err)
	}
	if !d.LevelCompleted {
		t.Error("subjective score gated advancement under the default policy")
	}
}

func TestRecordAnswer_SubjectiveAfterLevelCompletes(t *testing.T) {
	p := New()
	if err := p.Seed(1, twoObjectiveSet()); err != nil {
		t.Fatal(err)
	}

	// Play grades objective questions first, so the level completes before
	// the round's subjective answer arrives.
	if _, err := p.RecordAnswer(1, "mcq-1", correctGrade()); err != nil {
		t.Fatal(err)
	}
	d, err := p.RecordAnswer(1, "mcq-2", correctGrade())
	if err != nil {
		t.Fatal(err)
	}
	if !d.LevelCompleted || d.CurrentLevel != 2 {
		t.Fatalf("decision = %+v, want completed level and advance to 2", d)
	}

	d, err = p.RecordAnswer(1, "subj-1", grading.GradeResult{Score: 8, Method: grading.MethodRemoteRubric})
	if err != nil {
		t.Fatalf("trailing subjective answer rejected: %v", err)
	}
	if d.LevelCompleted || d.CurrentLevel != 2 {
		t.Errorf("trailing answer changed advancement: %+v", d)
	}

	view, ok := p.LevelState(1)
	if !ok {
		t.Fatal("level 1 state missing")
	}
	if got := view.SubjectiveScores["subj-1"]; got != 8 {
		t.Errorf("subjective score = %v, want 8", got)
	}

	// Only completed levels accept trailing answers; unreached levels and
	// unknown questions still fail.
	if _, err := p.RecordAnswer(3, "mcq-1", correctGrade()); err == nil {
		t.Error("answer for an unreached level was accepted")
	}
	if _, err := p.RecordAnswer(1, "no-such-question", correctGrade()); err == nil {
		t.Error("unknown question for a completed level was accepted")
	}
}

func TestRecordAnswer_SubjectiveGatePolicy(t *testing.T) {
	p := New(WithPolicy(AdvancePolicy{RequireSubjectivePass: true, SubjectivePassScore: 6}))
	if err := p.Seed(1, twoObjectiveSet()); err != nil {
		t.Fatal(err)
	}

	if _, err := p.RecordAnswer(1, "mcq-1", correctGrade()); err != nil {
		t.Fatal(err)
	}
	d, err := p.RecordAnswer(1, "mcq-2", correctGrade())
	if err != nil {
		t.Fatal(err)
	}
	if d.LevelCompleted {
		t.Fatal("level completed without the required subjective pass")
	}

	d, err = p.RecordAnswer(1, "subj-1", grading.GradeResult{Score: 7, Method: grading.MethodRemoteRubric})
	if err != nil {
		t.Fatal(err)
	}
	if !d.LevelCompleted {
		t.Error("level did not complete once the subjective gate was satisfied")
	}
}

func TestProgression_TerminalAtLevel30(t *testing.T) {
	p := New()

	completeLevel := func(level int) {
		t.Helper()
		set := &quiz.QuestionSet{Objective: []quiz.ObjectiveQuestion{
			{ID: "mcq-1", Choices: map[string]string{"A": "x"}, CorrectKey: "A"},
		}}
		if err := p.Seed(level, set); err != nil {
			t.Fatalf("Seed(%d) error = %v", level, err)
		}
		if _, err := p.RecordAnswer(level, "mcq-1", correctGrade()); err != nil {
			t.Fatalf("RecordAnswer(%d) error = %v", level, err)
		}
	}

	for level := 1; level < MaxLevel; level++ {
		completeLevel(level)
		if got := p.CurrentLevel(); got != level+1 {
			t.Fatalf("after level %d: CurrentLevel() = %d, want %d", level, got, level+1)
		}
	}

	completeLevel(MaxLevel)
	if !p.AllComplete() {
		t.Fatal("AllComplete() = false after completing level 30")
	}
	if got := p.CurrentLevel(); got != MaxLevel {
		t.Errorf("CurrentLevel() = %d, level 31 must never exist", got)
	}

	_, err := p.RecordAnswer(MaxLevel, "mcq-1", correctGrade())
	if !errors.Is(err, ErrAllLevelsComplete) {
		t.Errorf("RecordAnswer after terminal = %v, want ErrAllLevelsComplete", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	p := New()
	for level := 1; level <= 3; level++ {
		set := &quiz.QuestionSet{Objective: []quiz.ObjectiveQuestion{
			{ID: "mcq-1", Choices: map[string]string{"A": "x"}, CorrectKey: "A"},
		}}
		if err := p.Seed(level, set); err != nil {
			t.Fatal(err)
		}
		if _, err := p.RecordAnswer(level, "mcq-1", correctGrade()); err != nil {
			t.Fatal(err)
		}
	}

	snap := p.Snapshot()
	if snap.CurrentLevel != 4 {
		t.Fatalf("snapshot CurrentLevel = %d, want 4", snap.CurrentLevel)
	}

	restored := Restore(snap)
	if restored.CurrentLevel() != 4 {
		t.Errorf("restored CurrentLevel() = %d, want 4", restored.CurrentLevel())
	}
	if restored.AllComplete() {
		t.Error("restored AllComplete() = true, want false")
	}
	// Restored levels start unseeded; fresh content is generated per session.
	if view := restored.CurrentLevelState(); view.Set != nil {
		t.Error("restored level holds a question set")
	}
}

func TestRestore_TerminalSnapshot(t *testing.T) {
	p := New()
	snap := p.Snapshot()
	snap.CurrentLevel = MaxLevel
	snap.Levels = nil
	for i := 1; i <= MaxLevel; i++ {
		snap.Levels = append(snap.Levels, store.LevelSnapshotData{Level: i, Completed: true})
	}

	restored := Restore(snap)
	if !restored.AllComplete() {
		t.Error("AllComplete() = false for fully completed snapshot")
	}
}

func TestCatalog(t *testing.T) {
	entries := make([]CatalogEntry, 0, MaxLevel)
	for i := 1; i <= MaxLevel; i++ {
		entries = append(entries, CatalogEntry{Number: i, Title: fmt.Sprintf("Level %d", i), Difficulty: "Easy"})
	}
	p := New(WithCatalog(entries))

	e, ok := p.Catalog(7)
	if !ok {
		t.Fatal("Catalog(7) not found")
	}
	if e.Title != "Level 7" {
		t.Errorf("Title = %s, want Level 7", e.Title)
	}
	if _, ok := p.Catalog(31); ok {
		t.Error("Catalog(31) found, want rejected at construction")
	}
}
