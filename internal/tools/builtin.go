// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// LIST FILES
// =============================================================================

// ListFilesTool lists a directory with sizes, one entry per line.
type ListFilesTool struct{}

func (t *ListFilesTool) Name() string        { return "list_files" }
func (t *ListFilesTool) Description() string { return "List directory contents with sizes" }
func (t *ListFilesTool) Risk() RiskLevel     { return RiskLow }

func (t *ListFilesTool) Execute(ctx context.Context, params Params) (string, error) {
	dir := params.String("path", ".")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot list %s: %w", dir, err)
	}

	var b strings.Builder
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		kind := "file"
		if e.IsDir() {
			kind = "dir"
		}
		fmt.Fprintf(&b, "%-4s %10d  %s\n", kind, info.Size(), e.Name())
	}
	fmt.Fprintf(&b, "%d entries in %s\n", len(entries), filepath.Clean(dir))
	return b.String(), nil
}

// =============================================================================
// HASH
// =============================================================================

// HashTool computes the SHA-256 digest of a string or file.
type HashTool struct{}

func (t *HashTool) Name() string        { return "hash" }
func (t *HashTool) Description() string { return "SHA-256 digest of a string or file" }
func (t *HashTool) Risk() RiskLevel     { return RiskLow }

func (t *HashTool) Execute(ctx context.Context, params Params) (string, error) {
	if path := params.String("file", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("cannot read %s: %w", path, err)
		}
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	}
	input, ok := params["input"]
	if !ok {
		return "", fmt.Errorf("hash: need input or file parameter")
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}

// =============================================================================
// BASE64
// =============================================================================

// Base64Tool encodes or decodes standard base64.
type Base64Tool struct{}

func (t *Base64Tool) Name() string        { return "base64" }
func (t *Base64Tool) Description() string { return "Encode or decode base64" }
func (t *Base64Tool) Risk() RiskLevel     { return RiskLow }

func (t *Base64Tool) Execute(ctx context.Context, params Params) (string, error) {
	input, ok := params["input"]
	if !ok {
		return "", fmt.Errorf("base64: need input parameter")
	}
	switch mode := params.String("mode", "encode"); mode {
	case "encode":
		return base64.StdEncoding.EncodeToString([]byte(input)), nil
	case "decode":
		decoded, err := base64.StdEncoding.DecodeString(input)
		if err != nil {
			return "", fmt.Errorf("base64: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("base64: unknown mode %q", mode)
	}
}

// =============================================================================
// JSON
// =============================================================================

// JSONTool validates and pretty-prints JSON.
type JSONTool struct{}

func (t *JSONTool) Name() string        { return "json" }
func (t *JSONTool) Description() string { return "Validate and pretty-print JSON" }
func (t *JSONTool) Risk() RiskLevel     { return RiskLow }

func (t *JSONTool) Execute(ctx context.Context, params Params) (string, error) {
	input, ok := params["input"]
	if !ok {
		return "", fmt.Errorf("json: need input parameter")
	}
	var v interface{}
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		return "", fmt.Errorf("json: invalid: %w", err)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json: %w", err)
	}
	return string(pretty), nil
}

// =============================================================================
// SYSTEM INFO
// =============================================================================

// SysInfoTool reports runtime platform details.
type SysInfoTool struct{}

func (t *SysInfoTool) Name() string        { return "sysinfo" }
func (t *SysInfoTool) Description() string { return "Report OS, architecture, and CPU count" }
func (t *SysInfoTool) Risk() RiskLevel     { return RiskLow }

func (t *SysInfoTool) Execute(ctx context.Context, params Params) (string, error) {
	fields := map[string]string{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       strconv.Itoa(runtime.NumCPU()),
		"go_version": runtime.Version(),
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, fields[k])
	}
	return b.String(), nil
}
