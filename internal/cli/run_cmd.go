// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// run_cmd.go - the run command: execute a single task.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/optimizer"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/swarm"
)

// RunTask executes one task and prints the outcome.
func RunTask(ctx context.Context, app *App) int {
	query := strings.TrimSpace(app.Args.Query)
	if query == "" {
		fmt.Fprintln(os.Stderr, render(errorStyle, "error:")+" no task given; usage: enjambre run \"task\"")
		return 2
	}

	res, err := app.Orch.ExecuteTask(ctx, swarm.Request{Description: query})
	if err != nil {
		return printRunError(err)
	}
	if app.Archive != nil {
		if aerr := app.Archive.RecordRun(res, query); aerr != nil {
			log.Printf("TELEMETRY_WRITE_FAILED | err=%v", aerr)
		}
	}

	if app.Args.JSON {
		out, merr := json.MarshalIndent(res, "", "  ")
		if merr != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", merr)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	printResult(app, res)
	return 0
}

func printRunError(err error) int {
	var limitErr *optimizer.CostLimitError
	if errors.As(err, &limitErr) {
		fmt.Fprintln(os.Stderr, render(warnStyle, "vetoed:")+" "+limitErr.Error())
		fmt.Fprintln(os.Stderr, render(dimStyle, "raise cost.max_cost_per_task in the config or lower the task scope"))
		return 3
	}
	fmt.Fprintln(os.Stderr, render(errorStyle, "error:")+" "+err.Error())
	return 1
}

func printResult(app *App, res *swarm.ExecutionResult) {
	if !app.Args.Quiet {
		fmt.Println(render(titleStyle, "── enjambre ──"))
		fmt.Printf("%s %s\n", render(labelStyle, "backend:"), render(valueStyle, res.Backend))
		if res.Result.Language != "" {
			fmt.Printf("%s %s\n", render(labelStyle, "language:"), render(valueStyle, res.Result.Language))
		}
		verified := render(errorStyle, "failed")
		if res.Result.VerificationPassed {
			verified = render(successStyle, "passed")
		}
		fmt.Printf("%s %s\n", render(labelStyle, "verification:"), verified)
		fmt.Printf("%s %s\n", render(labelStyle, "cost:"),
			render(costStyle, fmt.Sprintf("$%.6f (saved $%.6f)", res.ActualCost, res.CostSaved)))
		fmt.Printf("%s %s\n", render(labelStyle, "duration:"), render(valueStyle, res.Duration.String()))
		fmt.Printf("%s %s\n", render(labelStyle, "score:"), render(valueStyle, fmt.Sprintf("%.2f", res.Score)))
		fmt.Println()
	}

	code := res.Result.Code
	if app.Cfg.UI.SyntaxHighlight {
		code = highlightCode(code, res.Result.Language)
	}
	fmt.Println(code)
}
