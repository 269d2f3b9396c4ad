// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package perf tracks per-task execution outcomes and derives rolling
// metrics, threshold alerts, and hourly trends from them.
//
// # Key Types
//
//   - Monitor: bounded task record store with per-backend aggregates
//   - TaskToken: opaque handle returned by StartTask, consumed by CompleteTask
//   - Metrics: rolling one-hour window snapshot
//   - Alert: a threshold violation with a fixed recommendation
//
// # Usage
//
//	m := perf.NewMonitor()
//	tok := m.StartTask("gemini-pro")
//	// ... run the task ...
//	m.CompleteTask(tok, perf.Outcome{Success: true, Cost: 0.002})
//	metrics := m.CurrentMetrics()
//
// Records are kept in a fixed-capacity buffer; once full, the oldest
// record is evicted per new completion. Baselines are never captured
// implicitly: callers opt in with SetBaseline.
package perf
