package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/skanda/quizquest/internal/backend"
	"github.com/skanda/quizquest/internal/quiz"
)

func testSet() *quiz.QuestionSet {
	return &quiz.QuestionSet{
		Objective: []quiz.ObjectiveQuestion{
			{
				ID:         "mcq-1",
				Prompt:     "2 + 2 = ?",
				Choices:    map[string]string{"A": "3", "B": "4", "C": "5", "D": "22"},
				CorrectKey: "B",
			},
		},
		Subjective: []quiz.SubjectiveQuestion{
			{
				ID:           "subj-1",
				Prompt:       "Explain why addition is commutative.",
				SampleAnswer: "Order does not change the total of combined quantities.",
			},
		},
	}
}

func TestGradeObjective(t *testing.T) {
	q := &testSet().Objective[0]

	tests := []struct {
		name        string
		key         string
		wantScore   float64
		wantCorrect bool
	}{
		{"correct key", "B", 10, true},
		{"wrong key", "A", 0, false},
		{"case differs is wrong", "b", 0, false},
		{"whitespace differs is wrong", " B", 0, false},
		{"empty key", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := GradeObjective(q, tt.key)
			if res.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", res.Score, tt.wantScore)
			}
			if res.Correct != tt.wantCorrect {
				t.Errorf("Correct = %v, want %v", res.Correct, tt.wantCorrect)
			}
			if res.Method != MethodLocalMatch {
				t.Errorf("Method = %s, want %s", res.Method, MethodLocalMatch)
			}
		})
	}
}

func TestGradeObjective_Deterministic(t *testing.T) {
	q := &testSet().Objective[0]
	first := GradeObjective(q, "B")
	for i := 0; i < 100; i++ {
		if got := GradeObjective(q, "B"); got != first {
			t.Fatalf("grade changed on repeat %d: %+v != %+v", i, got, first)
		}
	}
}

func TestGrade_RoutesByQuestionKind(t *testing.T) {
	mock := backend.NewMockClient()
	mock.AddEvaluation(backend.MockEvaluation{
		Eval: &backend.Evaluation{FinalScore: 8.5, Method: "LLM Only", Feedback: "Good reasoning."},
	})
	r := NewRouter(mock)
	set := testSet()

	objRes, err := r.Grade(context.Background(), set, "mcq-1", "B")
	if err != nil {
		t.Fatalf("Grade(objective) error = %v", err)
	}
	if objRes.Method != MethodLocalMatch || !objRes.Correct {
		t.Errorf("objective result = %+v, want correct local match", objRes)
	}
	if len(mock.EvaluateCalls) != 0 {
		t.Fatal("objective grading hit the network")
	}

	subjRes, err := r.Grade(context.Background(), set, "subj-1", "Because order does not matter.")
	if err != nil {
		t.Fatalf("Grade(subjective) error = %v", err)
	}
	if subjRes.Method != MethodRemoteRubric {
		t.Errorf("Method = %s, want %s", subjRes.Method, MethodRemoteRubric)
	}
	if subjRes.Score != 8.5 {
		t.Errorf("Score = %v, want 8.5", subjRes.Score)
	}
	if len(mock.EvaluateCalls) != 1 {
		t.Fatalf("evaluate calls = %d, want 1", len(mock.EvaluateCalls))
	}
	call := mock.EvaluateCalls[0]
	if call.ReferenceAnswer == "" {
		t.Error("sample answer was not forwarded as reference")
	}
}

func TestGrade_UnknownQuestion(t *testing.T) {
	r := NewRouter(backend.NewMockClient())
	if _, err := r.Grade(context.Background(), testSet(), "nope", "B"); err == nil {
		t.Fatal("Grade() with unknown question id, want error")
	}
}

func TestGradeSubjective_Unavailable(t *testing.T) {
	mock := backend.NewMockClient()
	mock.AddEvaluation(backend.MockEvaluation{
		Err: &backend.TransportError{Op: "evaluate-subjective", Err: errors.New("connection refused")},
	})
	r := NewRouter(mock)
	set := testSet()

	_, err := r.Grade(context.Background(), set, "subj-1", "an answer")
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnavailableError", err)
	}
	if ue.QuestionID != "subj-1" {
		t.Errorf("QuestionID = %s, want subj-1", ue.QuestionID)
	}
}

func TestGradeSubjective_NoEvaluator(t *testing.T) {
	r := NewRouter(nil)
	set := testSet()
	_, err := r.Grade(context.Background(), set, "subj-1", "an answer")
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnavailableError", err)
	}
}
