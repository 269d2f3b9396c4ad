// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package complexity

import (
	"strings"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/util"
)

// ============================================================================
// KEYWORD LISTS
// ============================================================================

// Fixed keyword lists. Scores are presence-based: each keyword counts at
// most once no matter how often it appears in the task text.
var (
	reasoningKeywords = []string{
		"analyze", "explain", "reason", "think", "complex", "difficult", "solve",
	}

	codeKeywords = []string{
		"function", "class", "algorithm", "implement", "code", "programming", "api",
	}

	multimodalKeywords = []string{
		"image", "video", "audio", "visual", "picture",
	}

	// thinkingTriggers force ThinkingNeeded regardless of the reasoning
	// score when any of these phrases appears.
	thinkingTriggers = []string{
		"step by step", "reasoning", "chain of thought", "think through",
	}
)

// thinkingScoreThreshold is the reasoning score above which a task is
// considered to need extended thinking even without a trigger phrase.
const thinkingScoreThreshold = 0.6

// contextWordsPerUnit normalizes word count into the [0,1] context score:
// 100 words or more saturates at 1.0.
const contextWordsPerUnit = 100.0

// ============================================================================
// TASK COMPLEXITY
// ============================================================================

// TaskComplexity holds the heuristic complexity scores for a task.
// Values are derived once from the task text and never mutated.
type TaskComplexity struct {
	// ReasoningRequired estimates multi-step reasoning demand in [0,1].
	ReasoningRequired float64 `json:"reasoning_required"`
	// CodeComplexity estimates code generation demand in [0,1].
	CodeComplexity float64 `json:"code_complexity"`
	// ContextLength estimates context demand in [0,1] from word count.
	ContextLength float64 `json:"context_length"`
	// ThinkingNeeded indicates the task benefits from extended reasoning.
	ThinkingNeeded bool `json:"thinking_needed"`
	// Multimodal indicates the task references non-text media.
	Multimodal bool `json:"multimodal"`
}

// Overall returns the mean of the three numeric scores. This is the
// single value the selector compares against its tier thresholds.
func (c TaskComplexity) Overall() float64 {
	return (c.ReasoningRequired + c.CodeComplexity + c.ContextLength) / 3.0
}

// CodeDominant reports whether code complexity is the largest of the
// three numeric scores.
func (c TaskComplexity) CodeDominant() bool {
	return c.CodeComplexity >= c.ReasoningRequired && c.CodeComplexity >= c.ContextLength
}

// ============================================================================
// ANALYSIS
// ============================================================================

// Analyze derives heuristic complexity scores from a task description.
// Pure and deterministic: the same input always yields the same result,
// and empty or whitespace-only input yields the zero value.
func Analyze(description string) TaskComplexity {
	wc := util.WordCount(description)
	if wc == 0 {
		return TaskComplexity{}
	}

	lower := strings.ToLower(description)

	c := TaskComplexity{
		ReasoningRequired: presenceScore(lower, reasoningKeywords),
		CodeComplexity:    presenceScore(lower, codeKeywords),
		ContextLength:     util.Clamp01(float64(wc) / contextWordsPerUnit),
	}

	c.ThinkingNeeded = c.ReasoningRequired > thinkingScoreThreshold || containsAny(lower, thinkingTriggers)
	c.Multimodal = containsAny(lower, multimodalKeywords)

	return c
}

// presenceScore returns the fraction of keywords present in the text.
// Each keyword counts once regardless of frequency.
func presenceScore(lower string, keywords []string) float64 {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// containsAny reports whether any of the phrases appears in the text.
func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
