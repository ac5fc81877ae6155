// Package backend is the client for the assessment backend: document
// processing into question sets, the level catalog, and subjective answer
// evaluation. The three services are transport collaborators only — the
// package maps their JSON shapes onto core types and their failures onto a
// small typed error set. No call here is ever retried automatically; a
// re-submission is a deliberate user action.
package backend

import (
	"context"
	"net/http"

	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/submission"
)

// Client is the abstraction over the assessment backend.
type Client interface {
	// GenerateQuestions submits a serialized document payload and returns
	// the generated question set. The response body is schema-validated
	// before acceptance; a malformed body is a hard failure.
	GenerateQuestions(ctx context.Context, payload *submission.Payload) (*quiz.QuestionSet, error)

	// Levels fetches the level catalog: ordered reference data consumed
	// once at session start.
	Levels(ctx context.Context) ([]Level, error)

	// EvaluateSubjective sends a free-form answer to the remote rubric
	// scorer and returns its evaluation.
	EvaluateSubjective(ctx context.Context, req EvaluationRequest) (*Evaluation, error)
}

// Level is one entry of the level catalog.
type Level struct {
	Number          int    `json:"level"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Difficulty      string `json:"difficulty"`
	ObjectiveCount  int    `json:"mcq_count"`
	SubjectiveCount int    `json:"subjective_count"`
}

// EvaluationRequest carries a subjective answer to the rubric scorer.
type EvaluationRequest struct {
	Question        string `json:"question"`
	StudentAnswer   string `json:"student_answer"`
	ReferenceAnswer string `json:"reference_answer,omitempty"`
}

// Evaluation is the rubric scorer's verdict.
type Evaluation struct {
	// FinalScore is in [0, 10].
	FinalScore float64

	// Method is the scorer's label for how it evaluated,
	// e.g. "LLM Only" or "LLM + Cosine Similarity".
	Method string

	// Feedback is optional free-text feedback for the learner.
	Feedback string
}

// HTTPClient talks to the backend over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTP-backed Client from configuration.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		baseURL: trimBaseURL(cfg.BaseURL),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func trimBaseURL(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}
