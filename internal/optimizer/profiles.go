// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package optimizer

// ============================================================================
// PRIORITY LEVELS
// ============================================================================

// Priority expresses how much quality matters relative to cost for a
// single task. Higher priorities tolerate more expensive backends.
type Priority int

const (
	// PriorityLow prefers the cheapest viable backend.
	PriorityLow Priority = iota
	// PriorityBalanced trades cost against capability (default).
	PriorityBalanced
	// PriorityHigh leans toward capability.
	PriorityHigh
	// PriorityCritical always uses the most capable backend.
	PriorityCritical
)

// String returns the lowercase name used in config files and exports.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityBalanced:
		return "balanced"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParsePriority converts a config string to a Priority. Unrecognized
// values map to PriorityBalanced.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "critical":
		return PriorityCritical
	default:
		return PriorityBalanced
	}
}

// ============================================================================
// BACKEND PROFILES
// ============================================================================

// BackendProfile holds static pricing and capability metadata for one
// backend. Profiles drive selection and estimation; they do not talk to
// the network.
type BackendProfile struct {
	Name                 string   `json:"name"`
	CostPerMillionInput  float64  `json:"cost_per_million_input"`
	CostPerMillionOutput float64  `json:"cost_per_million_output"`
	Capability           float64  `json:"capability"` // 0.0-1.0
	SupportsThinking     bool     `json:"supports_thinking"`
	MaxContextTokens     uint32   `json:"max_context_tokens"`
	Specializations      []string `json:"specializations"`
}

// Specializes reports whether the profile lists the given specialization.
func (p BackendProfile) Specializes(spec string) bool {
	for _, s := range p.Specializations {
		if s == spec {
			return true
		}
	}
	return false
}

// Backend names known to the default profile table.
const (
	BackendFlash  = "gemini-flash"
	BackendCode   = "gemini-code"
	BackendPro    = "gemini-pro"
	BackendProExp = "gemini-pro-exp"
)

// DefaultBackend is the fallback when no selection rule fires.
const DefaultBackend = BackendFlash

// ReferenceBackend is the expensive backend that savings are computed
// against: "what would this have cost on the best model".
const ReferenceBackend = BackendProExp

// DefaultProfiles returns the built-in backend table. Callers may
// mutate the returned slice freely; each call returns a fresh copy.
func DefaultProfiles() []BackendProfile {
	return []BackendProfile{
		{
			Name:                 BackendFlash,
			CostPerMillionInput:  0.075,
			CostPerMillionOutput: 0.30,
			Capability:           0.55,
			SupportsThinking:     false,
			MaxContextTokens:     1_048_576,
			Specializations:      []string{"text", "general"},
		},
		{
			Name:                 BackendCode,
			CostPerMillionInput:  0.50,
			CostPerMillionOutput: 1.50,
			Capability:           0.75,
			SupportsThinking:     false,
			MaxContextTokens:     1_048_576,
			Specializations:      []string{"code"},
		},
		{
			Name:                 BackendPro,
			CostPerMillionInput:  1.25,
			CostPerMillionOutput: 5.00,
			Capability:           0.80,
			SupportsThinking:     true,
			MaxContextTokens:     2_097_152,
			Specializations:      []string{"general", "reasoning", "analysis"},
		},
		{
			Name:                 BackendProExp,
			CostPerMillionInput:  2.50,
			CostPerMillionOutput: 10.00,
			Capability:           0.95,
			SupportsThinking:     true,
			MaxContextTokens:     2_097_152,
			Specializations:      []string{"reasoning", "thinking", "complex"},
		},
	}
}
