package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/submission"
)

// MockGenerateResponse is a canned result for GenerateQuestions.
type MockGenerateResponse struct {
	Set *quiz.QuestionSet
	Err error
}

// MockEvaluation is a canned result for EvaluateSubjective.
type MockEvaluation struct {
	Eval *Evaluation
	Err  error
}

// MockClient is a deterministic Client for tests and offline play.
// Canned responses are consumed FIFO per method; all calls are recorded.
type MockClient struct {
	mu sync.Mutex

	generateQueue []MockGenerateResponse
	evalQueue     []MockEvaluation
	levels        []Level
	levelsErr     error

	GenerateCalls []submission.Payload
	EvaluateCalls []EvaluationRequest
	LevelsCalls   int
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates an empty MockClient. Queue responses with
// AddGenerateResponse / AddEvaluation / SetLevels before use.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// NewOfflineMockClient creates a MockClient preloaded with enough canned
// content to play a session without a backend: a 30-level catalog and an
// endless supply of one small question set per generate call.
func NewOfflineMockClient() *MockClient {
	m := NewMockClient()
	m.SetLevels(offlineCatalog())
	return m
}

// AddGenerateResponse queues a canned GenerateQuestions result.
func (m *MockClient) AddGenerateResponse(resp MockGenerateResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateQueue = append(m.generateQueue, resp)
}

// AddEvaluation queues a canned EvaluateSubjective result.
func (m *MockClient) AddEvaluation(e MockEvaluation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evalQueue = append(m.evalQueue, e)
}

// SetLevels sets the catalog returned by Levels.
func (m *MockClient) SetLevels(levels []Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = levels
}

// SetLevelsError makes Levels fail with err.
func (m *MockClient) SetLevelsError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelsErr = err
}

func (m *MockClient) GenerateQuestions(_ context.Context, payload *submission.Payload) (*quiz.QuestionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateCalls = append(m.GenerateCalls, *payload)

	if len(m.generateQueue) == 0 {
		return offlineQuestionSet(), nil
	}
	resp := m.generateQueue[0]
	m.generateQueue = m.generateQueue[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Set, nil
}

func (m *MockClient) Levels(_ context.Context) ([]Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LevelsCalls++
	if m.levelsErr != nil {
		return nil, m.levelsErr
	}
	return m.levels, nil
}

func (m *MockClient) EvaluateSubjective(_ context.Context, req EvaluationRequest) (*Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EvaluateCalls = append(m.EvaluateCalls, req)

	if len(m.evalQueue) == 0 {
		return &Evaluation{FinalScore: 7, Method: "Mock"}, nil
	}
	e := m.evalQueue[0]
	m.evalQueue = m.evalQueue[1:]
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Eval, nil
}

func offlineCatalog() []Level {
	levels := make([]Level, 0, 30)
	for i := 1; i <= 30; i++ {
		difficulty := "Easy"
		switch {
		case i > 20:
			difficulty = "Hard"
		case i > 10:
			difficulty = "Medium"
		}
		levels = append(levels, Level{
			Number:          i,
			Title:           fmt.Sprintf("Level %d", i),
			Difficulty:      difficulty,
			ObjectiveCount:  3,
			SubjectiveCount: 2,
		})
	}
	return levels
}

func offlineQuestionSet() *quiz.QuestionSet {
	return &quiz.QuestionSet{
		Objective: []quiz.ObjectiveQuestion{
			{
				ID:     "mcq-1",
				Prompt: "Which planet is known as the Red Planet?",
				Choices: map[string]string{
					"A": "Venus",
					"B": "Mars",
					"C": "Jupiter",
					"D": "Mercury",
				},
				CorrectKey:  "B",
				Explanation: "Iron oxide on the surface gives Mars its reddish color.",
				Difficulty:  1,
			},
		},
		Subjective: []quiz.SubjectiveQuestion{
			{
				ID:           "subj-1",
				Prompt:       "In a sentence or two, explain why the sky appears blue.",
				SampleAnswer: "Air molecules scatter short blue wavelengths of sunlight more than longer ones.",
				Difficulty:   1,
			},
		},
		SourceCharCount: 0,
		DifficultyLevel: 1,
	}
}
