// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package swarm is the orchestration layer: it analyzes a task, selects
// a backend, enforces cost limits, executes through the adapter
// registry, and feeds the outcome into cost and performance tracking.
//
// # Key Types
//
//   - Orchestrator: owns the optimizer, monitor, and adapter registry
//   - Request: one task to execute
//   - ExecutionResult: the outcome plus its cost accounting
//
// # Execution Sequence
//
// ExecuteTask is strictly ordered: analyze, select, estimate, veto,
// start tracking, execute, complete tracking, record usage. The budget
// veto happens before any external call; a vetoed task leaves no trace
// in performance metrics. A cancelled execution still completes its
// tracking span.
package swarm
