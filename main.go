// enjambre - cost-aware Gemini task orchestration for the command line.
//
// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.ParseArgs(os.Args[1:])

	if !args.Verbose {
		log.SetOutput(io.Discard)
	}

	// Commands that need no orchestrator.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdConfig:
		os.Exit(cli.ConfigCmd(args))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTools {
		app := &cli.App{Args: args}
		os.Exit(cli.Tools(ctx, app))
	}

	app, err := cli.NewApp(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enjambre: %v\n", err)
		os.Exit(1)
	}

	var code int
	switch cmd {
	case cli.CmdRun:
		code = cli.RunTask(ctx, app)
	case cli.CmdChat:
		code = cli.Chat(ctx, app)
	case cli.CmdStats:
		code = cli.Stats(app)
	case cli.CmdReport:
		code = cli.Report(app)
	case cli.CmdExport:
		code = cli.Export(app)
	case cli.CmdHistory:
		code = cli.History(app)
	default:
		cli.PrintUsage()
		code = 2
	}

	// os.Exit skips deferred calls, so release the archive handle first.
	app.Close()
	os.Exit(code)
}
