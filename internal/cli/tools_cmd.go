// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// tools_cmd.go - the native tool system commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/tools"
)

// Tools dispatches "tools list" and "tools exec".
func Tools(ctx context.Context, app *App) int {
	switch app.Args.Subcommand {
	case "", "list":
		printToolList()
		return 0

	case "exec":
		if app.Args.Query == "" {
			fmt.Fprintln(os.Stderr, render(errorStyle, "error:")+" usage: enjambre tools exec NAME key=value ...")
			return 2
		}
		reg := tools.DefaultRegistry()
		params := tools.Params{}
		for k, v := range app.Args.Options {
			params[k] = v
		}
		out, err := reg.Execute(ctx, app.Args.Query, params)
		if err != nil {
			fmt.Fprintln(os.Stderr, render(errorStyle, "error:")+" "+err.Error())
			return 1
		}
		fmt.Print(out)
		if len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Println()
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown tools subcommand %q; try list or exec\n", app.Args.Subcommand)
		return 2
	}
}

func printToolList() {
	fmt.Println(render(titleStyle, "── native tools ──"))
	for _, t := range tools.DefaultRegistry().List() {
		fmt.Printf("%s %s %s\n",
			render(valueStyle, fmt.Sprintf("%-12s", t.Name())),
			render(dimStyle, "["+t.Risk().String()+"]"),
			t.Description())
	}
}
