// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package util provides shared utilities for the enjambre CLI:
// atomic file writes and string helpers used across packages.
package util
