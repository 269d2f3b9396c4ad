// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// config_cmd.go - configuration inspection and editing.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/config"
)

// ConfigCmd dispatches config subcommands. It works on the config file
// directly rather than the loaded App so edits survive.
func ConfigCmd(args Args) int {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "path":
		return configPath()
	case "init":
		return configInit()
	case "set":
		return configSet(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand %q; try show, set, path, or init\n", args.Subcommand)
		return 2
	}
}

func loadForConfigCmd(args Args) (*config.Config, error) {
	if args.Config != "" {
		return config.LoadFromPath(args.Config)
	}
	return config.Load()
}

func configShow(args Args) int {
	cfg, err := loadForConfigCmd(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Println(render(titleStyle, "── configuration ──"))
	key := "(not set)"
	if cfg.Gemini.APIKey != "" {
		key = "(set)"
	}
	fmt.Printf("%s %s\n", render(labelStyle, "gemini.api_key:"), key)
	fmt.Printf("%s %s\n", render(labelStyle, "gemini.model:"), cfg.Gemini.Model)
	fmt.Printf("%s %s\n", render(labelStyle, "gemini.cli_path:"), cfg.Gemini.CLIPath)
	fmt.Printf("%s $%.4f\n", render(labelStyle, "cost.max_cost_per_task:"), cfg.Cost.MaxCostPerTask)
	fmt.Printf("%s $%.4f\n", render(labelStyle, "cost.max_cost_per_period:"), cfg.Cost.MaxCostPerPeriod)
	fmt.Printf("%s %s\n", render(labelStyle, "cost.priority:"), cfg.Cost.Priority)
	fmt.Printf("%s %t\n", render(labelStyle, "telemetry.enabled:"), cfg.Telemetry.Enabled)
	fmt.Printf("%s %s\n", render(labelStyle, "ui.color:"), cfg.UI.Color)
	return 0
}

func configPath() int {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(path)
	return 0
}

func configInit() int {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "config already exists at %s\n", path)
		return 1
	}
	if err := config.Save(config.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("%s %s\n", render(successStyle, "wrote"), path)
	return 0
}

func configSet(args Args) int {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		fmt.Fprintln(os.Stderr, "usage: enjambre config set KEY VALUE")
		return 2
	}

	cfg, err := loadForConfigCmd(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := applyConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if args.Config != "" {
		err = config.SaveTo(cfg, args.Config)
	} else {
		err = config.Save(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("%s %s = %s\n", render(successStyle, "set"), args.ConfigKey, args.ConfigVal)
	return 0
}

// applyConfigKey maps dotted keys to config fields. Only commonly
// edited keys are supported; everything else is edited in the file.
func applyConfigKey(cfg *config.Config, key, val string) error {
	switch key {
	case "gemini.api_key":
		cfg.Gemini.APIKey = val
	case "gemini.model":
		cfg.Gemini.Model = val
	case "gemini.cli_path":
		cfg.Gemini.CLIPath = val
	case "cost.priority":
		cfg.Cost.Priority = val
	case "cost.max_cost_per_task":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.Cost.MaxCostPerTask = f
	case "cost.max_cost_per_period":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.Cost.MaxCostPerPeriod = f
	case "telemetry.enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.Telemetry.Enabled = b
	case "ui.color":
		cfg.UI.Color = val
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
