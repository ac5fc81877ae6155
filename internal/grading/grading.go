// Package grading classifies answers and routes them to the matching
// evaluation strategy: objective questions are graded locally by exact
// choice-key comparison, subjective questions go to the remote rubric
// scorer. A grading failure is surfaced, never replaced with a guessed
// score.
package grading

import (
	"context"
	"fmt"

	"github.com/skanda/quizquest/internal/backend"
	"github.com/skanda/quizquest/internal/quiz"
)

// Method identifies which strategy produced a grade.
type Method string

const (
	MethodLocalMatch   Method = "local_match"
	MethodRemoteRubric Method = "remote_rubric"
)

// maxScore is the score awarded for a correct objective answer and the
// upper bound of the rubric scale.
const maxScore = 10

// GradeResult is a normalized grading outcome.
type GradeResult struct {
	// Score is in [0, 10]. Objective grades are binary: 10 or 0.
	Score float64

	// Method records the strategy that produced the score.
	Method Method

	// Correct is the binary correctness signal. For subjective answers it
	// is informational only and never gates progression.
	Correct bool

	// Feedback is optional free-text feedback from the scorer.
	Feedback string
}

// UnavailableError reports that the remote scorer could not grade an
// answer. The caller may retry at its own discretion; the router itself
// never retries.
type UnavailableError struct {
	QuestionID string
	Err        error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("grading unavailable for %s: %v", e.QuestionID, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Evaluator is the remote rubric scorer dependency.
type Evaluator interface {
	EvaluateSubjective(ctx context.Context, req backend.EvaluationRequest) (*backend.Evaluation, error)
}

// Router dispatches answers to the local or remote grader.
type Router struct {
	evaluator Evaluator
}

// NewRouter creates a Router. evaluator may be nil if only objective
// grading is needed; subjective grades then fail with UnavailableError.
func NewRouter(evaluator Evaluator) *Router {
	return &Router{evaluator: evaluator}
}

// Grade looks the question up in the set, classifies it, and grades the
// answer. For objective questions answer is the submitted choice key; for
// subjective questions it is the free-form answer text.
func (r *Router) Grade(ctx context.Context, set *quiz.QuestionSet, questionID, answer string) (*GradeResult, error) {
	if q := set.FindObjective(questionID); q != nil {
		res := GradeObjective(q, answer)
		return &res, nil
	}
	if q := set.FindSubjective(questionID); q != nil {
		return r.GradeSubjective(ctx, q, answer)
	}
	return nil, fmt.Errorf("unknown question %q", questionID)
}

// GradeObjective grades a choice key by exact string equality against the
// question's correct key. Binary, deterministic, no network.
func GradeObjective(q *quiz.ObjectiveQuestion, submittedKey string) GradeResult {
	correct := submittedKey == q.CorrectKey
	res := GradeResult{
		Method:   MethodLocalMatch,
		Correct:  correct,
		Feedback: q.Explanation,
	}
	if correct {
		res.Score = maxScore
	}
	return res
}

// GradeSubjective sends the answer to the remote rubric scorer. On any
// transport or server failure it returns an *UnavailableError; it never
// defaults to a score.
func (r *Router) GradeSubjective(ctx context.Context, q *quiz.SubjectiveQuestion, answer string) (*GradeResult, error) {
	if r.evaluator == nil {
		return nil, &UnavailableError{QuestionID: q.ID, Err: fmt.Errorf("no evaluator configured")}
	}

	eval, err := r.evaluator.EvaluateSubjective(ctx, backend.EvaluationRequest{
		Question:        q.Prompt,
		StudentAnswer:   answer,
		ReferenceAnswer: q.SampleAnswer,
	})
	if err != nil {
		return nil, &UnavailableError{QuestionID: q.ID, Err: err}
	}

	return &GradeResult{
		Score:    eval.FinalScore,
		Method:   MethodRemoteRubric,
		Correct:  eval.FinalScore >= passThreshold,
		Feedback: eval.Feedback,
	}, nil
}

// passThreshold marks a subjective score as informally "passing" for
// display. It has no effect on level advancement.
const passThreshold = 6.0
