// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package cli

import (
	"path/filepath"
	"testing"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/config"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/telemetry"
)

func testConfig() *config.Config {
	return config.Default()
}

// ============================================================================
// APP LIFECYCLE TESTS
// ============================================================================

func TestAppCloseReleasesArchive(t *testing.T) {
	archive, err := telemetry.Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	app := &App{Archive: archive}
	app.Close()

	if _, err := archive.RecentRuns(1); err == nil {
		t.Error("archive still usable after Close")
	}
}

func TestAppCloseWithoutArchive(t *testing.T) {
	(&App{}).Close()
}

// ============================================================================
// ARGUMENT PARSING TESTS
// ============================================================================

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"empty defaults to help", []string{}, CmdHelp},
		{"run", []string{"run", "do a thing"}, CmdRun},
		{"ask alias", []string{"ask", "do a thing"}, CmdRun},
		{"chat", []string{"chat"}, CmdChat},
		{"stats", []string{"stats"}, CmdStats},
		{"stats alias", []string{"s"}, CmdStats},
		{"report", []string{"report"}, CmdReport},
		{"export", []string{"export"}, CmdExport},
		{"history", []string{"history"}, CmdHistory},
		{"tools", []string{"tools"}, CmdTools},
		{"config", []string{"config"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"bare text runs", []string{"implement", "a", "parser"}, CmdRun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ParseArgs(tt.args)
			if got != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseArgsBareTextBecomesQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"implement", "a", "parser"})
	if cmd != CmdRun {
		t.Fatalf("command = %v, want CmdRun", cmd)
	}
	if args.Query != "implement a parser" {
		t.Errorf("Query = %q, want joined text", args.Query)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "-q", "--priority", "critical", "run", "task"})
	if cmd != CmdRun {
		t.Fatalf("command = %v, want CmdRun", cmd)
	}
	if !args.JSON || !args.Quiet {
		t.Errorf("flags not parsed: %+v", args)
	}
	if args.Priority != "critical" {
		t.Errorf("Priority = %q, want critical", args.Priority)
	}
	if args.Query != "task" {
		t.Errorf("Query = %q, want task", args.Query)
	}
}

func TestParseArgsEqualsForm(t *testing.T) {
	_, args := ParseArgs([]string{"--priority=high", "--config=/tmp/c.toml", "stats"})
	if args.Priority != "high" {
		t.Errorf("Priority = %q, want high", args.Priority)
	}
	if args.Config != "/tmp/c.toml" {
		t.Errorf("Config = %q, want /tmp/c.toml", args.Config)
	}
}

func TestParseArgsReport(t *testing.T) {
	_, args := ParseArgs([]string{"report", "--set-baseline", "--hours", "6"})
	if !args.SetBaseline {
		t.Error("SetBaseline not parsed")
	}
	if args.Options["hours"] != "6" {
		t.Errorf("hours option = %q, want 6", args.Options["hours"])
	}
}

func TestParseArgsHistoryLimit(t *testing.T) {
	_, args := ParseArgs([]string{"history", "-n", "25"})
	if args.Limit != 25 {
		t.Errorf("Limit = %d, want 25", args.Limit)
	}

	_, args = ParseArgs([]string{"history"})
	if args.Limit != 10 {
		t.Errorf("default Limit = %d, want 10", args.Limit)
	}

	_, args = ParseArgs([]string{"history", "-n", "bogus"})
	if args.Limit != 10 {
		t.Errorf("Limit with bad value = %d, want default 10", args.Limit)
	}
}

func TestParseArgsToolsExec(t *testing.T) {
	_, args := ParseArgs([]string{"tools", "exec", "hash", "input=hello", "mode=fast"})
	if args.Subcommand != "exec" {
		t.Errorf("Subcommand = %q, want exec", args.Subcommand)
	}
	if args.Query != "hash" {
		t.Errorf("Query = %q, want hash", args.Query)
	}
	if args.Options["input"] != "hello" || args.Options["mode"] != "fast" {
		t.Errorf("Options = %v, want input/mode parsed", args.Options)
	}
}

func TestParseArgsToolsDefaultsToList(t *testing.T) {
	_, args := ParseArgs([]string{"tools"})
	if args.Subcommand != "list" {
		t.Errorf("Subcommand = %q, want list", args.Subcommand)
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "cost.priority", "high"})
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q, want set", args.Subcommand)
	}
	if args.ConfigKey != "cost.priority" || args.ConfigVal != "high" {
		t.Errorf("key/val = %q/%q", args.ConfigKey, args.ConfigVal)
	}
}

// ============================================================================
// CONFIG KEY MAPPING TESTS
// ============================================================================

func TestApplyConfigKey(t *testing.T) {
	cfg := testConfig()

	if err := applyConfigKey(cfg, "cost.max_cost_per_task", "0.02"); err != nil {
		t.Fatalf("applyConfigKey error: %v", err)
	}
	if cfg.Cost.MaxCostPerTask != 0.02 {
		t.Errorf("MaxCostPerTask = %f, want 0.02", cfg.Cost.MaxCostPerTask)
	}

	if err := applyConfigKey(cfg, "telemetry.enabled", "false"); err != nil {
		t.Fatalf("applyConfigKey error: %v", err)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry.enabled not applied")
	}

	if err := applyConfigKey(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := applyConfigKey(cfg, "cost.max_cost_per_task", "abc"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
