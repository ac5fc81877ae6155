package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// JobEventData records one submission-to-result lifecycle outcome.
type JobEventData struct {
	JobID     string
	FileName  string
	FileSize  int64
	Outcome   string // "succeeded", "failed", "cancelled"
	Error     string
	LatencyMs int64
}

// AnswerEventData records one graded answer.
type AnswerEventData struct {
	SessionID  string
	Level      int
	QuestionID string
	Kind       string // "objective", "subjective"
	Correct    bool
	Score      float64
	Method     string
}

// BackendRequestEventData records one call to the assessment backend.
type BackendRequestEventData struct {
	Op        string
	Success   bool
	LatencyMs int64
	Error     string
}

// JobEventRecord is a stored job event row, newest first in queries.
type JobEventRecord struct {
	JobID     string
	FileName  string
	FileSize  int64
	Outcome   string
	Error     string
	LatencyMs int64
	CreatedAt time.Time
}

// LevelStats aggregates objective answer accuracy for one level.
type LevelStats struct {
	Level    int
	Answered int
	Correct  int
}

// Summary aggregates across all recorded events for the stats command.
type Summary struct {
	JobsSucceeded      int
	JobsFailed         int
	ObjectiveAnswered  int
	ObjectiveCorrect   int
	SubjectiveAnswered int
	SubjectiveAvgScore float64
}

// EventRepo is the append-only event log.
type EventRepo interface {
	AppendJobEvent(ctx context.Context, data JobEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendBackendRequest(ctx context.Context, data BackendRequestEventData) error

	// LevelAccuracy returns objective accuracy for one level across all
	// sessions, and the number of answers it is based on.
	LevelAccuracy(ctx context.Context, level int) (float64, int, error)

	// RecentJobEvents returns up to limit job events, newest first.
	RecentJobEvents(ctx context.Context, limit int) ([]JobEventRecord, error)

	// Summarize aggregates all events for display.
	Summarize(ctx context.Context) (*Summary, error)
}

type eventRepo struct {
	db *sql.DB
}

var _ EventRepo = (*eventRepo)(nil)

func (r *eventRepo) AppendJobEvent(ctx context.Context, data JobEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO job_events (job_id, file_name, file_size, outcome, error, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.JobID, data.FileName, data.FileSize, data.Outcome, data.Error, data.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("append job event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO answer_events (session_id, level, question_id, kind, correct, score, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.Level, data.QuestionID, data.Kind, boolToInt(data.Correct), data.Score, data.Method,
	)
	if err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendBackendRequest(ctx context.Context, data BackendRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backend_request_events (op, success, latency_ms, error)
		 VALUES (?, ?, ?, ?)`,
		data.Op, boolToInt(data.Success), data.LatencyMs, data.Error,
	)
	if err != nil {
		return fmt.Errorf("append backend request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LevelAccuracy(ctx context.Context, level int) (float64, int, error) {
	var answered, correct int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0)
		 FROM answer_events WHERE level = ? AND kind = 'objective'`,
		level,
	).Scan(&answered, &correct)
	if err != nil {
		return 0, 0, fmt.Errorf("level accuracy: %w", err)
	}
	if answered == 0 {
		return 0, 0, nil
	}
	return float64(correct) / float64(answered), answered, nil
}

func (r *eventRepo) RecentJobEvents(ctx context.Context, limit int) ([]JobEventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT job_id, file_name, file_size, outcome, error, latency_ms, created_at
		 FROM job_events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query job events: %w", err)
	}
	defer rows.Close()

	var records []JobEventRecord
	for rows.Next() {
		var rec JobEventRecord
		if err := rows.Scan(&rec.JobID, &rec.FileName, &rec.FileSize, &rec.Outcome, &rec.Error, &rec.LatencyMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job event: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) Summarize(ctx context.Context) (*Summary, error) {
	s := &Summary{}

	err := r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN outcome = 'succeeded' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END), 0)
		 FROM job_events`,
	).Scan(&s.JobsSucceeded, &s.JobsFailed)
	if err != nil {
		return nil, fmt.Errorf("summarize jobs: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0)
		 FROM answer_events WHERE kind = 'objective'`,
	).Scan(&s.ObjectiveAnswered, &s.ObjectiveCorrect)
	if err != nil {
		return nil, fmt.Errorf("summarize objective answers: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0)
		 FROM answer_events WHERE kind = 'subjective'`,
	).Scan(&s.SubjectiveAnswered, &s.SubjectiveAvgScore)
	if err != nil {
		return nil, fmt.Errorf("summarize subjective answers: %w", err)
	}

	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
