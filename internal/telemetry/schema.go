// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package telemetry

const (
	// SchemaVersion tracks the archive schema for migrations.
	SchemaVersion = 1
)

// SQLite schema for the task run archive.
const schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- One row per executed task
CREATE TABLE IF NOT EXISTS task_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    backend TEXT NOT NULL,
    description TEXT NOT NULL,
    language TEXT,
    success INTEGER NOT NULL,         -- 0/1
    verification_passed INTEGER NOT NULL,
    thinking INTEGER NOT NULL,
    estimated_cost REAL NOT NULL,
    actual_cost REAL NOT NULL,
    cost_saved REAL NOT NULL,
    input_tokens INTEGER NOT NULL,
    output_tokens INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    score REAL NOT NULL,
    executed_at INTEGER NOT NULL      -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_task_runs_session ON task_runs(session_id);
CREATE INDEX IF NOT EXISTS idx_task_runs_backend ON task_runs(backend);
CREATE INDEX IF NOT EXISTS idx_task_runs_executed_at ON task_runs(executed_at);
`
