package backend

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/submission"
)

// LoggingClient is a decorator that records every backend call as an event.
type LoggingClient struct {
	inner     Client
	eventRepo store.EventRepo
}

// WithLogging wraps a Client with event logging.
func WithLogging(c Client, repo store.EventRepo) Client {
	return &LoggingClient{inner: c, eventRepo: repo}
}

func (l *LoggingClient) GenerateQuestions(ctx context.Context, payload *submission.Payload) (*quiz.QuestionSet, error) {
	start := time.Now()
	qs, err := l.inner.GenerateQuestions(ctx, payload)
	l.record(ctx, opGenerate, start, err)
	return qs, err
}

func (l *LoggingClient) Levels(ctx context.Context) ([]Level, error) {
	start := time.Now()
	levels, err := l.inner.Levels(ctx)
	l.record(ctx, opLevels, start, err)
	return levels, err
}

func (l *LoggingClient) EvaluateSubjective(ctx context.Context, req EvaluationRequest) (*Evaluation, error) {
	start := time.Now()
	eval, err := l.inner.EvaluateSubjective(ctx, req)
	l.record(ctx, opEvaluate, start, err)
	return eval, err
}

// record logs the call but never fails the request if logging fails.
func (l *LoggingClient) record(ctx context.Context, op string, start time.Time, err error) {
	data := store.BackendRequestEventData{
		Op:        op,
		Success:   err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		data.Error = err.Error()
	}
	if logErr := l.eventRepo.AppendBackendRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log backend request event: %v\n", logErr)
	}
}
