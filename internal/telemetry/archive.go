// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/DarkCodePE/gemini-cli-swarm/internal/swarm"
)

// =============================================================================
// RUN ARCHIVE
// =============================================================================

// Run is one archived task execution.
type Run struct {
	TaskID             string        `json:"task_id"`
	SessionID          string        `json:"session_id"`
	Backend            string        `json:"backend"`
	Description        string        `json:"description"`
	Language           string        `json:"language"`
	Success            bool          `json:"success"`
	VerificationPassed bool          `json:"verification_passed"`
	Thinking           bool          `json:"thinking"`
	EstimatedCost      float64       `json:"estimated_cost"`
	ActualCost         float64       `json:"actual_cost"`
	CostSaved          float64       `json:"cost_saved"`
	InputTokens        uint32        `json:"input_tokens"`
	OutputTokens       uint32        `json:"output_tokens"`
	Duration           time.Duration `json:"duration_ns"`
	ExecutedAt         time.Time     `json:"executed_at"`
	Score              float64       `json:"score"`
}

// SessionSummary aggregates archived runs for one session.
type SessionSummary struct {
	SessionID  string  `json:"session_id"`
	Tasks      int     `json:"tasks"`
	Successes  int     `json:"successes"`
	TotalCost  float64 `json:"total_cost"`
	TotalSaved float64 `json:"total_saved"`
}

// Archive is the SQLite-backed run store. Safe for concurrent use; the
// connection pool is capped at one connection since SQLite has a single
// writer.
type Archive struct {
	db *sql.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("cannot set pragma: %w", err)
		}
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) initSchema() error {
	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("cannot initialize schema: %w", err)
	}
	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		fmt.Sprintf("%d", SchemaVersion))
	if err != nil {
		return fmt.Errorf("cannot record schema version: %w", err)
	}
	return nil
}

// =============================================================================
// INSERTION
// =============================================================================

// RecordRun archives one completed execution.
func (a *Archive) RecordRun(res *swarm.ExecutionResult, description string) error {
	language := ""
	verified := false
	thinking := false
	var inTokens, outTokens uint32
	if res.Result != nil {
		language = res.Result.Language
		verified = res.Result.VerificationPassed
		thinking = res.Result.ThinkingRequested
		inTokens = res.Result.InputTokens
		outTokens = res.Result.OutputTokens
	}

	_, err := a.db.Exec(`
		INSERT INTO task_runs (
			task_id, session_id, backend, description, language,
			success, verification_passed, thinking,
			estimated_cost, actual_cost, cost_saved,
			input_tokens, output_tokens, duration_ms, score, executed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.TaskID, res.SessionID, res.Backend, description, language,
		boolToInt(verified), boolToInt(verified), boolToInt(thinking),
		res.EstimatedCost, res.ActualCost, res.CostSaved,
		inTokens, outTokens, res.Duration.Milliseconds(), res.Score,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cannot archive run %s: %w", res.TaskID, err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// RecentRuns returns up to limit runs, newest first.
func (a *Archive) RecentRuns(limit int) ([]Run, error) {
	rows, err := a.db.Query(`
		SELECT task_id, session_id, backend, description, language,
		       success, verification_passed, thinking,
		       estimated_cost, actual_cost, cost_saved,
		       input_tokens, output_tokens, duration_ms, score, executed_at
		FROM task_runs
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot query runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// SessionRuns returns all runs for one session, oldest first.
func (a *Archive) SessionRuns(sessionID string) ([]Run, error) {
	rows, err := a.db.Query(`
		SELECT task_id, session_id, backend, description, language,
		       success, verification_passed, thinking,
		       estimated_cost, actual_cost, cost_saved,
		       input_tokens, output_tokens, duration_ms, score, executed_at
		FROM task_runs
		WHERE session_id = ?
		ORDER BY executed_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cannot query session runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Summary aggregates one session's archived runs.
func (a *Archive) Summary(sessionID string) (SessionSummary, error) {
	row := a.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(success), 0),
		       COALESCE(SUM(actual_cost), 0),
		       COALESCE(SUM(cost_saved), 0)
		FROM task_runs
		WHERE session_id = ?`, sessionID)

	s := SessionSummary{SessionID: sessionID}
	if err := row.Scan(&s.Tasks, &s.Successes, &s.TotalCost, &s.TotalSaved); err != nil {
		return SessionSummary{}, fmt.Errorf("cannot summarize session %s: %w", sessionID, err)
	}
	return s, nil
}

// TotalSaved returns the lifetime cost saved across all sessions.
func (a *Archive) TotalSaved() (float64, error) {
	row := a.db.QueryRow(`SELECT COALESCE(SUM(cost_saved), 0) FROM task_runs`)
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("cannot total savings: %w", err)
	}
	return total, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var success, verified, thinking int
		var durationMs, executedAt int64
		err := rows.Scan(
			&r.TaskID, &r.SessionID, &r.Backend, &r.Description, &r.Language,
			&success, &verified, &thinking,
			&r.EstimatedCost, &r.ActualCost, &r.CostSaved,
			&r.InputTokens, &r.OutputTokens, &durationMs, &r.Score, &executedAt)
		if err != nil {
			return nil, fmt.Errorf("cannot scan run: %w", err)
		}
		r.Success = success != 0
		r.VerificationPassed = verified != 0
		r.Thinking = thinking != 0
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.ExecutedAt = time.Unix(executedAt, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
