package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// LevelSnapshotData captures one level's saved state.
type LevelSnapshotData struct {
	Level     int  `json:"level"`
	Completed bool `json:"completed"`
}

// ProgressSnapshotData captures the learner's progression so a session can
// resume at the same level across runs. The bound question sets are not
// persisted: content is regenerated from a fresh document each session.
type ProgressSnapshotData struct {
	Version      int                 `json:"version"`
	CurrentLevel int                 `json:"current_level"`
	Levels       []LevelSnapshotData `json:"levels"`
}

// SnapshotRepo stores the single latest progression snapshot.
type SnapshotRepo interface {
	// Save overwrites the stored snapshot.
	Save(ctx context.Context, data *ProgressSnapshotData) error

	// Load returns the stored snapshot, or nil if none exists.
	Load(ctx context.Context) (*ProgressSnapshotData, error)
}

type snapshotRepo struct {
	db *sql.DB
}

var _ SnapshotRepo = (*snapshotRepo)(nil)

func (r *snapshotRepo) Save(ctx context.Context, data *ProgressSnapshotData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO progress_snapshots (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Load(ctx context.Context) (*ProgressSnapshotData, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM progress_snapshots WHERE id = 1`,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var data ProgressSnapshotData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &data, nil
}
