// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// app.go - wiring of config, adapters, orchestrator, and telemetry.
package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/adapter"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/config"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/optimizer"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/perf"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/swarm"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/telemetry"
)

// apiModels maps backend profile names to Gemini API model identifiers.
var apiModels = map[string]string{
	optimizer.BackendFlash:  "gemini-1.5-flash",
	optimizer.BackendCode:   "gemini-1.5-pro",
	optimizer.BackendPro:    "gemini-1.5-pro",
	optimizer.BackendProExp: "gemini-exp-1206",
}

// App bundles everything a command handler needs.
type App struct {
	Cfg     *config.Config
	Orch    *swarm.Orchestrator
	Archive *telemetry.Archive // nil when telemetry is disabled
	Args    Args
}

// NewApp loads configuration and wires the orchestrator.
func NewApp(ctx context.Context, args Args) (*App, error) {
	var cfg *config.Config
	var err error
	if args.Config != "" {
		cfg, err = config.LoadFromPath(args.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.Priority != "" {
		cfg.Cost.Priority = args.Priority
	}
	if args.NoColor {
		ForceColorsEnabled(false)
	}

	reg, err := buildRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opt := optimizer.New(optimizer.CostConstraints{
		MaxCostPerTask:   cfg.Cost.MaxCostPerTask,
		MaxCostPerPeriod: cfg.Cost.MaxCostPerPeriod,
		Priority:         optimizer.ParsePriority(cfg.Cost.Priority),
	})

	orch := swarm.New(reg, opt, swarm.WithThresholds(perf.Thresholds{
		MinSuccessRate:     cfg.Monitor.MinSuccessRate,
		MaxAvgResponseTime: time.Duration(cfg.Monitor.MaxAvgResponseMs) * time.Millisecond,
		MaxCostPerTask:     cfg.Monitor.MaxCostPerTask,
		MinTokensPerSecond: cfg.Monitor.MinTokensPerSecond,
	}))

	app := &App{Cfg: cfg, Orch: orch, Args: args}

	if cfg.Telemetry.Enabled {
		path, err := cfg.TelemetryDBPath()
		if err != nil {
			return nil, err
		}
		archive, err := telemetry.Open(path)
		if err != nil {
			// Telemetry is best-effort; the orchestrator works without it.
			log.Printf("TELEMETRY_DISABLED | err=%v", err)
		} else {
			app.Archive = archive
		}
	}
	return app, nil
}

// Close releases app resources.
func (a *App) Close() {
	if a.Archive != nil {
		a.Archive.Close()
	}
}

// buildRegistry registers an adapter for every backend profile. The API
// adapter is preferred; without an API key the CLI subprocess adapter
// serves all backends.
func buildRegistry(ctx context.Context, cfg *config.Config) (*adapter.Registry, error) {
	reg := adapter.NewRegistry()

	if cfg.Gemini.APIKey != "" {
		for _, p := range optimizer.DefaultProfiles() {
			api, err := adapter.NewGeminiAPI(ctx, cfg.Gemini.APIKey,
				adapter.WithModel(apiModels[p.Name]),
				adapter.WithMaxRetries(cfg.Gemini.MaxRetries),
				adapter.WithRequestsPerMinute(cfg.Gemini.RequestsPerMinute),
				adapter.WithCapabilities(adapter.Capabilities{
					Name:                 p.Name,
					CostPerMillionInput:  p.CostPerMillionInput,
					CostPerMillionOutput: p.CostPerMillionOutput,
					SupportsThinking:     p.SupportsThinking,
					MaxContextTokens:     p.MaxContextTokens,
				}),
			)
			if err != nil {
				return nil, fmt.Errorf("cannot build API adapter for %s: %w", p.Name, err)
			}
			reg.Register(p.Name, api)
		}
		return reg, nil
	}

	for _, p := range optimizer.DefaultProfiles() {
		cli := adapter.NewGeminiCLI(cfg.Gemini.CLIPath, apiModels[p.Name])
		cli.Timeout = cfg.CLITimeout()
		cli.Caps = adapter.Capabilities{
			Name:                 p.Name,
			CostPerMillionInput:  p.CostPerMillionInput,
			CostPerMillionOutput: p.CostPerMillionOutput,
			SupportsThinking:     p.SupportsThinking,
			MaxContextTokens:     p.MaxContextTokens,
		}
		reg.Register(p.Name, cli)
	}
	return reg, nil
}
