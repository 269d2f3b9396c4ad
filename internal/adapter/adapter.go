// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package adapter

import (
	"context"
	"errors"
	"fmt"
)

// ============================================================================
// ADAPTER CONTRACT
// ============================================================================

// Adapter is the contract every code-generation backend must satisfy.
// Implementations wrap exactly one external service and own their retry
// and timeout policy; the orchestrator never retries on top of them.
type Adapter interface {
	// Execute runs the full generation flow for a task description and
	// returns the generated code with its metadata.
	Execute(ctx context.Context, task string) (*Result, error)

	// Capabilities describes the backend's pricing and limits. Used to
	// validate the static backend profile table at startup.
	Capabilities() Capabilities
}

// Result is the outcome of one adapter execution.
type Result struct {
	// Code is the generated source text.
	Code string `json:"code"`
	// Language is the detected or declared language of Code.
	Language string `json:"language"`
	// Confidence is the adapter's own quality estimate in [0,1].
	Confidence float64 `json:"confidence"`
	// VerificationPassed reports whether the lightweight structural
	// verification of the generated code succeeded.
	VerificationPassed bool `json:"verification_passed"`
	// InputTokens is the number of input units consumed.
	InputTokens uint32 `json:"input_tokens"`
	// OutputTokens is the number of output units generated.
	OutputTokens uint32 `json:"output_tokens"`
	// ThinkingRequested records that the task was framed for step-by-step
	// reasoning. The reasoning trace itself is not captured: adapters do
	// not fabricate reasoning steps they cannot observe.
	ThinkingRequested bool `json:"thinking_requested,omitempty"`
}

// Capabilities describes a backend's pricing and limits.
type Capabilities struct {
	// Name identifies the adapter implementation.
	Name string `json:"name"`
	// CostPerMillionInput is the cost in dollars per 1M input units.
	CostPerMillionInput float64 `json:"cost_per_million_input"`
	// CostPerMillionOutput is the cost in dollars per 1M output units.
	CostPerMillionOutput float64 `json:"cost_per_million_output"`
	// SupportsThinking reports extended-reasoning support.
	SupportsThinking bool `json:"supports_thinking"`
	// MaxContextTokens is the maximum context size in units.
	MaxContextTokens uint32 `json:"max_context_tokens"`
}

// ============================================================================
// ERRORS
// ============================================================================

var (
	// ErrNotConfigured indicates the adapter is missing required
	// configuration (e.g. API key).
	ErrNotConfigured = errors.New("adapter not configured")

	// ErrInvalidResponse indicates the backend returned a response the
	// adapter cannot interpret (e.g. no content).
	ErrInvalidResponse = errors.New("invalid response from backend")
)

// NotFoundError is returned when selection produced a backend id with no
// registered adapter. A configuration error, fatal to that task only.
type NotFoundError struct {
	Backend string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no adapter registered for backend %q", e.Backend)
}
