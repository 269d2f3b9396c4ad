// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package tools provides the native tool system for enjambre.
//
// Tools are small local operations (file listing, hashing, encoding,
// system info) that run without any backend call. Each tool declares a
// risk level; the registry is explicit, with no package-level global
// state.
//
// # Key Types
//
//   - Tool: one executable operation with declared risk
//   - Registry: explicit name-to-tool mapping
//   - RiskLevel: how dangerous an operation is
package tools
