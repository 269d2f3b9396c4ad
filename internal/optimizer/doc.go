// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package optimizer selects the cheapest backend likely to satisfy a
// task's quality requirements, and enforces hard cost ceilings before
// any money is spent.
//
// # Key Types
//
//   - BackendProfile: static per-backend pricing and capability data
//   - CostConstraints: per-task and per-period spend limits plus priority
//   - CostOptimizer: selection, estimation, constraint veto, usage history
//
// # Selection
//
// SelectBackend is a deterministic decision table keyed on priority,
// thinking requirements, and the overall complexity score. Rule order is
// significant: earlier rules take precedence.
//
// # Budget Enforcement
//
// CheckConstraints runs before any external call is made. It is a
// pre-execution veto, not a post-hoc audit: a task whose estimated cost
// exceeds the per-task or period ceiling never reaches an adapter.
package optimizer
