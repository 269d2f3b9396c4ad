// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package adapter defines the code-generation backend boundary and its
// concrete implementations.
//
// An Adapter wraps one external code-generation service: the Gemini API
// (direct HTTP via the genai SDK) or the Gemini CLI (spawned subprocess,
// stdout scraped). The orchestrator only ever sees the Adapter interface.
//
// # Key Types
//
//   - Adapter: Execute a task, report Capabilities
//   - Result: generated code, language, confidence, token counts
//   - Registry: explicit backend-id -> Adapter mapping, no global state
//
// # Retries
//
// Retry policy lives here, not in the orchestrator: the Gemini API
// adapter retries transient failures with exponential backoff; callers
// see only the final outcome.
package adapter
