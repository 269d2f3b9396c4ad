// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// Package cli implements the enjambre command line: argument parsing,
// application wiring, and the run, chat, stats, report, export,
// history, tools, and config commands.
//
// # Key Types
//
//   - Command: which subcommand was requested
//   - Args: parsed flags and positional input
//   - App: the wired application (config, orchestrator, archive)
//
// # Output
//
// Human output is styled with lipgloss and syntax-highlighted with
// chroma when stdout is a TTY; --json switches every command to plain
// JSON on stdout. Colors honor NO_COLOR and FORCE_COLOR.
package cli
