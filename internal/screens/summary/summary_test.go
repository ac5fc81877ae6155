package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/skanda/quizquest/internal/router"
)

func TestViewCompletedLevel(t *testing.T) {
	s := New(Result{
		Level:     3,
		Completed: true,
		NextLevel: 4,
		Objective: ObjectiveScore{Correct: 5, Total: 5},
	})

	view := s.View(80, 24)
	if !strings.Contains(view, "Level 3 cleared!") {
		t.Error("expected cleared headline")
	}
	if !strings.Contains(view, "Next up: level 4") {
		t.Error("expected next level line")
	}
	if !strings.Contains(view, "5/5 correct") {
		t.Error("expected objective stats")
	}
}

func TestViewUnfinishedRound(t *testing.T) {
	s := New(Result{
		Level:     7,
		Objective: ObjectiveScore{Correct: 2, Total: 4},
	})

	view := s.View(80, 24)
	if !strings.Contains(view, "Level 7 — round finished") {
		t.Error("expected round-finished headline")
	}
	if strings.Contains(view, "Next up") {
		t.Error("did not expect next level line for an unfinished round")
	}
}

func TestViewAllLevelsDone(t *testing.T) {
	s := New(Result{
		Level:     30,
		Completed: true,
		AllDone:   true,
		Objective: ObjectiveScore{Correct: 5, Total: 5},
	})

	view := s.View(80, 24)
	if !strings.Contains(view, "All 30 levels complete!") {
		t.Error("expected final completion headline")
	}
}

func TestViewSubjectiveScores(t *testing.T) {
	s := New(Result{
		Level:     2,
		Completed: true,
		NextLevel: 3,
		Objective: ObjectiveScore{Correct: 3, Total: 3},
		Subjective: []SubjectiveScore{
			{QuestionID: "subj-1", Score: 8.5, Feedback: "Good coverage of the main idea."},
		},
	})

	view := s.View(80, 24)
	if !strings.Contains(view, "Free answers") {
		t.Error("expected subjective section")
	}
	if !strings.Contains(view, "8.5/10") {
		t.Error("expected subjective score")
	}
	if !strings.Contains(view, "Good coverage") {
		t.Error("expected subjective feedback")
	}
}

func TestEnterPopsToRoot(t *testing.T) {
	s := New(Result{Level: 1})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}
}
