// Package store persists raw match artifacts, task status, and finished
// analysis results in Postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Task status values as written to the status column.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrResultNotFound reports a read for a match that has no stored result.
var ErrResultNotFound = errors.New("analysis result not found")

// AnalysisRecord is the persisted shape of a finished analysis.
type AnalysisRecord struct {
	MatchID       string          `json:"matchId"`
	ParticipantID int             `json:"participantId"`
	GameMode      string          `json:"gameMode"`
	Degraded      bool            `json:"degraded"`
	Narrative     string          `json:"narrative"`
	Tone          string          `json:"tone"`
	ScoreData     json.RawMessage `json:"scoreData"`
	TraceID       string          `json:"traceId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DB wraps a pgx connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New creates a connection pool and verifies connectivity.
func New(ctx context.Context, databaseURL string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, logger: logger}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for custom queries
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// CreateTables creates the schema if it does not exist.
func (db *DB) CreateTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS match_artifacts (
			match_id TEXT PRIMARY KEY,
			region TEXT NOT NULL,
			match_json JSONB NOT NULL,
			timeline_json JSONB,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_tasks (
			match_id TEXT NOT NULL,
			participant_id INT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (match_id, participant_id)
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_results (
			match_id TEXT NOT NULL,
			participant_id INT NOT NULL,
			game_mode TEXT NOT NULL,
			degraded BOOLEAN NOT NULL,
			narrative TEXT NOT NULL,
			tone TEXT NOT NULL,
			score_data JSONB NOT NULL,
			trace_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (match_id, participant_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

// SaveMatchData stores the raw match and timeline JSON exactly as fetched.
// The timeline may be nil when the provider had none.
func (db *DB) SaveMatchData(ctx context.Context, matchID, region string, matchJSON, timelineJSON []byte) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO match_artifacts (match_id, region, match_json, timeline_json)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO UPDATE
		SET match_json = EXCLUDED.match_json, timeline_json = EXCLUDED.timeline_json, fetched_at = NOW()
	`, matchID, region, matchJSON, timelineJSON)
	if err != nil {
		return fmt.Errorf("failed to save match data: %w", err)
	}
	return nil
}

// SaveAnalysisResult stores a finished analysis, replacing any earlier run.
func (db *DB) SaveAnalysisResult(ctx context.Context, rec *AnalysisRecord) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO analysis_results (match_id, participant_id, game_mode, degraded, narrative, tone, score_data, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (match_id, participant_id) DO UPDATE
		SET game_mode = EXCLUDED.game_mode, degraded = EXCLUDED.degraded,
		    narrative = EXCLUDED.narrative, tone = EXCLUDED.tone,
		    score_data = EXCLUDED.score_data, trace_id = EXCLUDED.trace_id,
		    created_at = NOW()
	`, rec.MatchID, rec.ParticipantID, rec.GameMode, rec.Degraded, rec.Narrative, rec.Tone, rec.ScoreData, rec.TraceID)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// UpdateStatus records the current stage of a task. errMsg may be empty.
func (db *DB) UpdateStatus(ctx context.Context, matchID string, participantID int, status, errMsg string) error {
	var errCol *string
	if errMsg != "" {
		errCol = &errMsg
	}
	_, err := db.pool.Exec(ctx, `
		INSERT INTO analysis_tasks (match_id, participant_id, status, error)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, participant_id) DO UPDATE
		SET status = EXCLUDED.status, error = EXCLUDED.error, updated_at = NOW()
	`, matchID, participantID, status, errCol)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// GetAnalysisResult reads back a stored result. Returns ErrResultNotFound
// when none exists.
func (db *DB) GetAnalysisResult(ctx context.Context, matchID string, participantID int) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	err := db.pool.QueryRow(ctx, `
		SELECT match_id, participant_id, game_mode, degraded, narrative, tone, score_data, trace_id, created_at
		FROM analysis_results
		WHERE match_id = $1 AND participant_id = $2
	`, matchID, participantID).Scan(
		&rec.MatchID, &rec.ParticipantID, &rec.GameMode, &rec.Degraded,
		&rec.Narrative, &rec.Tone, &rec.ScoreData, &rec.TraceID, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read analysis result: %w", err)
	}
	return &rec, nil
}

// GetTaskStatus reads the current status row for a task. Returns empty status
// when the task was never seen.
func (db *DB) GetTaskStatus(ctx context.Context, matchID string, participantID int) (status, errMsg string, err error) {
	var errCol *string
	err = db.pool.QueryRow(ctx, `
		SELECT status, error FROM analysis_tasks
		WHERE match_id = $1 AND participant_id = $2
	`, matchID, participantID).Scan(&status, &errCol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("failed to read task status: %w", err)
	}
	if errCol != nil {
		errMsg = *errCol
	}
	return status, errMsg, nil
}
