// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// report_cmd.go - stats, report, export, and history commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/swarm"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/util"
)

// Stats prints cost and usage statistics.
func Stats(app *App) int {
	if app.Args.JSON {
		out, err := json.MarshalIndent(app.Orch.GetPerformanceReport(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	printSessionStats(app)
	return 0
}

func printSessionStats(app *App) {
	fmt.Println(render(titleStyle, "── usage statistics ──"))

	stats := app.Orch.Optimizer().AllUsageStats()
	if len(stats) == 0 {
		fmt.Println(render(dimStyle, "no tasks executed this session"))
	}
	for _, s := range stats {
		fmt.Printf("%s\n", render(valueStyle, s.Backend))
		fmt.Printf("  %s %d\n", render(labelStyle, "tasks:"), s.TotalTasks)
		fmt.Printf("  %s %.0f%%\n", render(labelStyle, "success:"), s.SuccessRate*100)
		fmt.Printf("  %s %s\n", render(labelStyle, "total cost:"), render(costStyle, fmt.Sprintf("$%.6f", s.TotalCost)))
		if s.CostPerSuccessfulTask > 0 {
			fmt.Printf("  %s $%.6f\n", render(labelStyle, "cost/success:"), s.CostPerSuccessfulTask)
		}
	}
	if total := app.Orch.Optimizer().UsageStats(); total.TotalTasks > 0 {
		fmt.Printf("%s\n", render(valueStyle, "all backends"))
		fmt.Printf("  %s %d\n", render(labelStyle, "tasks:"), total.TotalTasks)
		fmt.Printf("  %s %.0f%%\n", render(labelStyle, "success:"), total.SuccessRate*100)
		fmt.Printf("  %s %s\n", render(labelStyle, "total cost:"), render(costStyle, fmt.Sprintf("$%.6f", total.TotalCost)))
	}
	fmt.Printf("%s %s\n", render(labelStyle, "period spend:"),
		render(costStyle, fmt.Sprintf("$%.6f", app.Orch.Optimizer().PeriodSpend())))

	if app.Archive != nil {
		if saved, err := app.Archive.TotalSaved(); err == nil {
			fmt.Printf("%s %s\n", render(labelStyle, "lifetime saved:"),
				render(costStyle, fmt.Sprintf("$%.6f", saved)))
		}
	}
}

// Report prints the performance report, optionally capturing a baseline
// first.
func Report(app *App) int {
	if app.Args.SetBaseline {
		b := app.Orch.Monitor().SetBaseline()
		fmt.Printf("%s avg response %v\n", render(successStyle, "baseline captured:"), b.AvgResponseTime)
	}

	report := app.Orch.GetPerformanceReport()
	report.Trend = app.Orch.Monitor().Trends(trendHours(app))
	if app.Args.JSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	printReport(app, report)
	return 0
}

func printReport(app *App, report swarm.Report) {
	fmt.Println(render(titleStyle, "── performance report ──"))
	m := report.Metrics
	fmt.Printf("%s %d\n", render(labelStyle, "tasks (1h):"), m.TotalTasks)
	fmt.Printf("%s %.0f%%\n", render(labelStyle, "success rate:"), m.SuccessRate*100)
	fmt.Printf("%s %v\n", render(labelStyle, "avg response:"), m.AvgResponseTime)
	fmt.Printf("%s $%.6f\n", render(labelStyle, "avg cost:"), m.AvgCostPerTask)
	fmt.Printf("%s %.1f tok/s\n", render(labelStyle, "throughput:"), m.AvgTokensPerSecond)
	fmt.Printf("%s %.2fx\n", render(labelStyle, "speed vs baseline:"), m.SpeedImprovementFactor)
	fmt.Printf("%s %s\n", render(labelStyle, "trend:"), report.Trend.Direction.String())

	if len(report.Alerts) > 0 {
		fmt.Println(render(warnStyle, "alerts:"))
		for _, a := range report.Alerts {
			style := warnStyle
			if a.Severity.String() == "critical" {
				style = errorStyle
			}
			fmt.Printf("  %s %s: %.3f (threshold %.3f)\n",
				render(style, "["+a.Severity.String()+"]"), a.Category, a.Measured, a.Threshold)
			fmt.Printf("    %s\n", render(dimStyle, a.Recommendation))
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Println(render(labelStyle, "recommendations:"))
		for _, r := range report.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
}

// Export prints the session metrics export JSON.
func Export(app *App) int {
	out, err := app.Orch.ExportMetrics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// History prints archived task runs.
func History(app *App) int {
	if app.Archive == nil {
		fmt.Fprintln(os.Stderr, render(warnStyle, "telemetry is disabled; no history available"))
		return 1
	}

	runs, err := app.Archive.RecentRuns(app.Args.Limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if app.Args.JSON {
		out, merr := json.MarshalIndent(runs, "", "  ")
		if merr != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", merr)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	if len(runs) == 0 {
		fmt.Println(render(dimStyle, "no archived runs"))
		return 0
	}
	fmt.Println(render(titleStyle, "── task history ──"))
	for _, r := range runs {
		status := render(errorStyle, "✗")
		if r.Success {
			status = render(successStyle, "✓")
		}
		fmt.Printf("%s %s %s %s %s\n",
			status,
			render(dimStyle, r.ExecutedAt.Format("2006-01-02 15:04")),
			render(valueStyle, fmt.Sprintf("%-15s", r.Backend)),
			render(costStyle, fmt.Sprintf("$%.6f", r.ActualCost)),
			util.Truncate(r.Description, 60))
	}
	return 0
}

// trendHours resolves the --hours option with the config default.
func trendHours(app *App) int {
	if raw, ok := app.Args.Options["hours"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	if app.Cfg.Monitor.TrendHours > 0 {
		return app.Cfg.Monitor.TrendHours
	}
	return 24
}
