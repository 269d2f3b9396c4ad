// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// cli.go - CLI parsing and command dispatch for enjambre.
package cli

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdRun Command = iota
	CmdChat
	CmdStats
	CmdReport
	CmdExport
	CmdHistory
	CmdTools
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet    bool
	Verbose  bool
	JSON     bool
	NoColor  bool
	Priority string
	Config   string

	// Command-specific
	Query       string
	Subcommand  string
	ConfigKey   string
	ConfigVal   string
	SetBaseline bool
	Limit       int

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --hours)
	Options map[string]string
}

const usageText = `enjambre - cost-aware Gemini task orchestration

Enjambre routes coding tasks to the cheapest Gemini backend that can
handle them, verifies the generated code, and tracks cost and
performance over time.

Usage:
  enjambre run "task"          Execute one task
  enjambre chat                Interactive session
  enjambre stats               Usage and cost statistics
  enjambre report              Performance report with alerts and trends
  enjambre export              Export session metrics as JSON
  enjambre history [-n N]      Archived task runs
  enjambre tools [list|exec]   Native tool system
  enjambre config [show|set|path|init]  Configuration
  enjambre version             Version information
  enjambre help                This help

Global flags:
  -q, --quiet        Suppress non-essential output
  -v, --verbose      Verbose logging
  --json             JSON output where supported
  --no-color         Disable colored output
  --priority LEVEL   low, balanced, high, or critical
  --config PATH      Use an explicit config file

Examples:
  enjambre run "implement a fibonacci function in rust"
  enjambre run --priority critical "fix this race condition"
  enjambre report --set-baseline
  enjambre history -n 20
  enjambre tools exec hash input=hello

Environment:
  GEMINI_API_KEY     API key for the Gemini API backend
  ENJAMBRE_CONFIG    Config file override
  ENJAMBRE_PRIORITY  Default task priority
`

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version details to stdout.
func PrintVersion() {
	fmt.Printf("enjambre %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// ParseArgs parses os.Args[1:] into a command and its arguments.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	// No command defaults to help.
	if len(remaining) == 0 {
		return CmdHelp, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "run", "ask":
		parsed.Query = strings.Join(remaining, " ")
		return CmdRun, parsed

	case "chat":
		return CmdChat, parsed

	case "stats", "s":
		return CmdStats, parsed

	case "report":
		parseReportArgs(&parsed, remaining)
		return CmdReport, parsed

	case "export":
		return CmdExport, parsed

	case "history":
		parseHistoryArgs(&parsed, remaining)
		return CmdHistory, parsed

	case "tools", "tool":
		parseToolsArgs(&parsed, remaining)
		return CmdTools, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Bare text is treated as a task to run.
		parsed.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdRun, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsed := Args{
		Options: make(map[string]string),
		Limit:   10,
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--no-color":
			parsed.NoColor = true
		case "--priority":
			if i+1 < len(args) {
				i++
				parsed.Priority = args[i]
			}
		case "--config":
			if i+1 < len(args) {
				i++
				parsed.Config = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--priority="):
				parsed.Priority = strings.TrimPrefix(arg, "--priority=")
			case strings.HasPrefix(arg, "--config="):
				parsed.Config = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseReportArgs parses report command specific arguments.
func parseReportArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch arg {
		case "--set-baseline":
			args.SetBaseline = true
		case "--hours":
			if i+1 < len(remaining) {
				i++
				args.Options["hours"] = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--hours=") {
				args.Options["hours"] = strings.TrimPrefix(arg, "--hours=")
			}
		}
	}
}

// parseHistoryArgs parses history command specific arguments.
func parseHistoryArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch arg {
		case "-n", "--limit":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Limit = n
				}
			}
		default:
			if strings.HasPrefix(arg, "--limit=") {
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
					args.Limit = n
				}
			}
		}
	}
}

// parseToolsArgs parses tools command specific arguments.
// Forms: "tools", "tools list", "tools exec NAME key=value ...".
func parseToolsArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	rest := remaining[1:]

	if args.Subcommand == "exec" && len(rest) > 0 {
		args.Query = rest[0]
		for _, kv := range rest[1:] {
			if k, v, ok := strings.Cut(kv, "="); ok {
				args.Options[k] = v
			}
		}
	}
}

// parseConfigArgs parses config command specific arguments.
// Forms: "config", "config show", "config path", "config init",
// "config set KEY VALUE".
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if args.Subcommand == "set" {
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}
