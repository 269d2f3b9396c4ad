// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ============================================================================
// GEMINI CLI ADAPTER
// ============================================================================

// cliConfidence is the confidence attached to CLI results. The CLI does
// its own internal refinement, so results are trusted slightly more than
// a single raw API call.
const cliConfidence = 0.95

// DefaultCLITimeout bounds a single CLI invocation.
const DefaultCLITimeout = 120 * time.Second

// GeminiCLI executes tasks by spawning the external Gemini CLI in
// non-interactive prompt mode and scraping its stdout.
type GeminiCLI struct {
	// Path is the CLI binary to spawn ("gemini" by default).
	Path string
	// Model passed via --model, empty for the CLI's default.
	Model string
	// Timeout bounds a single invocation.
	Timeout time.Duration
	// Caps overrides the advertised capabilities when its Name is set,
	// used when the CLI fronts a model other than the flash default.
	Caps Capabilities

	// runCommand is swapped in tests to avoid spawning a real process.
	runCommand func(ctx context.Context, path string, args []string, stdin string) (string, error)
}

// NewGeminiCLI creates a subprocess adapter for the Gemini CLI.
func NewGeminiCLI(path, model string) *GeminiCLI {
	if path == "" {
		path = "gemini"
	}
	return &GeminiCLI{
		Path:       path,
		Model:      model,
		Timeout:    DefaultCLITimeout,
		runCommand: runCLI,
	}
}

// Execute spawns the CLI with the task as prompt and parses the output.
func (g *GeminiCLI) Execute(ctx context.Context, task string) (*Result, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	args := []string{"--prompt"}
	if g.Model != "" {
		args = append(args, "--model", g.Model)
	}

	run := g.runCommand
	if run == nil {
		run = runCLI
	}

	output, err := run(ctx, g.Path, args, task)
	if err != nil {
		return nil, fmt.Errorf("gemini CLI execution failed: %w", err)
	}

	output = stripANSI(output)
	if strings.TrimSpace(output) == "" {
		return nil, fmt.Errorf("%w: CLI produced no output", ErrInvalidResponse)
	}

	code, language := ExtractCodeBlock(output)
	if language == "" {
		language = DetectLanguage(code)
	}

	return &Result{
		Code:               code,
		Language:           language,
		Confidence:         cliConfidence,
		VerificationPassed: VerifyCode(code).Valid,
		// The CLI reports no usage, so both counts are estimated.
		InputTokens:  EstimateTokens(task),
		OutputTokens: EstimateTokens(output),
	}, nil
}

// Capabilities describes the CLI backend. Token costs mirror the API
// pricing of the underlying model; context is the CLI's documented cap.
func (g *GeminiCLI) Capabilities() Capabilities {
	if g.Caps.Name != "" {
		return g.Caps
	}
	return Capabilities{
		Name:                 "Gemini CLI",
		CostPerMillionInput:  0.075,
		CostPerMillionOutput: 0.30,
		SupportsThinking:     false,
		MaxContextTokens:     32_768,
	}
}

// runCLI spawns the process, feeding the prompt on stdin.
func runCLI(ctx context.Context, path string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%w: %s", err, detail)
		}
		return "", err
	}
	return stdout.String(), nil
}

// stripANSI removes ANSI escape sequences from CLI output so that code
// extraction sees plain text.
func stripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			// CSI sequences end with a letter in @-~.
			if (r >= '@' && r <= '~') && r != '[' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
