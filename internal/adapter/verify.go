// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package adapter

import (
	"strings"
)

// ============================================================================
// TOKEN ESTIMATION
// ============================================================================

// EstimateTokens approximates the token count of a text.
// GPT-style: ~4 chars per token on average; a blend of the word and
// character estimates is more stable across prose and code.
func EstimateTokens(text string) uint32 {
	words := len(strings.Fields(text))
	chars := len(text)
	return uint32((words + chars/4) / 2)
}

// ============================================================================
// CODE EXTRACTION
// ============================================================================

// ExtractCodeBlock pulls the first fenced code block out of a model
// response, returning the code and the declared language. When no fence
// is present, the whole response is returned with an empty language.
func ExtractCodeBlock(response string) (code, language string) {
	start := strings.Index(response, "```")
	if start < 0 {
		return strings.TrimSpace(response), ""
	}

	rest := response[start+3:]
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		return strings.TrimSpace(response), ""
	}

	language = strings.TrimSpace(rest[:newline])
	body := rest[newline+1:]

	end := strings.Index(body, "```")
	if end < 0 {
		// Unterminated fence: take everything after the opening.
		return strings.TrimRight(body, "\n"), language
	}
	return strings.TrimRight(body[:end], "\n"), language
}

// DetectLanguage guesses the language of a code snippet from a handful
// of syntax markers. Returns "unknown" when no marker matches.
func DetectLanguage(code string) string {
	switch {
	case strings.Contains(code, "func ") && strings.Contains(code, "package "):
		return "go"
	case strings.Contains(code, "fn ") && strings.Contains(code, "let "):
		return "rust"
	case strings.Contains(code, "def ") || strings.Contains(code, "import "):
		return "python"
	case strings.Contains(code, "function ") || strings.Contains(code, "const "):
		return "javascript"
	default:
		return "unknown"
	}
}

// ============================================================================
// VERIFICATION
// ============================================================================

// Verification is the result of the structural code check.
type Verification struct {
	// Valid is the overall pass/fail verdict.
	Valid bool `json:"valid"`
	// QualityScore is a coarse structural quality estimate in [0,1].
	QualityScore float64 `json:"quality_score"`
	// Errors lists the structural problems found.
	Errors []string `json:"errors,omitempty"`
}

// VerifyCode performs a lightweight structural check on generated code:
// non-empty content and balanced braces, brackets, and parentheses.
// It is not a compiler; it catches truncated or garbled generations.
func VerifyCode(code string) Verification {
	v := Verification{QualityScore: 1.0}

	if strings.TrimSpace(code) == "" {
		v.Errors = append(v.Errors, "empty code")
		v.QualityScore = 0
		return v
	}

	pairs := []struct {
		open, close rune
		name        string
	}{
		{'{', '}', "braces"},
		{'(', ')', "parentheses"},
		{'[', ']', "brackets"},
	}

	for _, p := range pairs {
		opens := strings.Count(code, string(p.open))
		closes := strings.Count(code, string(p.close))
		if opens != closes {
			v.Errors = append(v.Errors, "unbalanced "+p.name)
			v.QualityScore -= 0.3
		}
	}

	if v.QualityScore < 0 {
		v.QualityScore = 0
	}
	v.Valid = len(v.Errors) == 0
	return v
}
