// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package util

import "strings"

// Truncate shortens a string to maxLen characters, appending "..." when
// the string was cut. Used for prompts in logs and usage records.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// WordCount returns the number of whitespace-separated words in a string.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Clamp01 clamps a float to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
