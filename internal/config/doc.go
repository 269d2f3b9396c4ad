// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package config provides unified configuration loading for enjambre.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Locations (in order of precedence):
//   - ENJAMBRE_CONFIG environment variable
//   - ~/.enjambre/config.toml
//   - Built-in defaults
//
// The GEMINI_API_KEY environment variable always overrides the file.
package config
