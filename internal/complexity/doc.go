// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package complexity provides heuristic task complexity analysis for
// backend selection.
//
// Analysis is a keyword/length heuristic, not a trained model: scores are
// derived from fixed keyword lists and the task's word count. The same
// input always produces the same scores.
//
// # Key Types
//
//   - TaskComplexity: normalized scores plus thinking/multimodal flags
//   - Analyze: pure function from task text to TaskComplexity
//
// # Usage
//
//	c := complexity.Analyze("implement a parser for TOML")
//	if c.ThinkingNeeded {
//	    // route to an extended-reasoning backend
//	}
package complexity
