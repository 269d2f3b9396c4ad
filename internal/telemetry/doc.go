// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package telemetry archives completed task runs to a local SQLite
// database so cost and performance history survives process restarts.
//
// The archive is append-only from the orchestration layer's point of
// view: runs are inserted as they finish and queried for history and
// session summaries. In-memory tracking in the optimizer and monitor
// stays authoritative for live decisions; the archive only serves
// reporting.
package telemetry
