// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

// chat_cmd.go - interactive REPL session.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/config"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/swarm"
)

// historyFile is where the REPL persists input history, under the
// config directory.
const historyFile = "history"

// Chat runs the interactive session until /quit or EOF.
func Chat(ctx context.Context, app *App) int {
	if err := RequiresTTY("chat"); err != nil {
		fmt.Fprintln(os.Stderr, render(errorStyle, "error:")+" "+err.Error())
		return 2
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := loadHistory(line)
	defer saveHistory(line, histPath)

	fmt.Println(render(titleStyle, "enjambre chat") + render(dimStyle, " | session "+app.Orch.SessionID()))
	fmt.Println(render(dimStyle, "type a task, or /stats /report /quit"))

	for {
		input, err := line.Prompt("enjambre> ")
		if err != nil {
			// liner.ErrPromptAborted on Ctrl-C, io.EOF on Ctrl-D.
			fmt.Println()
			return 0
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := chatCommand(ctx, app, input); quit {
				return 0
			}
			continue
		}

		res, err := app.Orch.ExecuteTask(ctx, swarm.Request{Description: input})
		if err != nil {
			printRunError(err)
			continue
		}
		if app.Archive != nil {
			app.Archive.RecordRun(res, input)
		}
		printResult(app, res)
	}
}

// chatCommand handles slash commands; returns true to quit.
func chatCommand(ctx context.Context, app *App, input string) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		return true
	case "/stats":
		printSessionStats(app)
	case "/report":
		printReport(app, app.Orch.GetPerformanceReport())
	case "/tools":
		printToolList()
	case "/help":
		fmt.Println(render(dimStyle, "commands: /stats /report /tools /quit"))
	default:
		fmt.Println(render(warnStyle, "unknown command; try /help"))
	}
	return false
}

func loadHistory(line *liner.State) string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, historyFile)
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return path
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
