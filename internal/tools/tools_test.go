// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ============================================================================
// REGISTRY TESTS
// ============================================================================

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	r := DefaultRegistry()

	want := []string{"base64", "hash", "json", "list_files", "sysinfo"}
	list := r.List()
	if len(list) != len(want) {
		t.Fatalf("got %d tools, want %d", len(list), len(want))
	}
	for i, tool := range list {
		if tool.Name() != want[i] {
			t.Errorf("tool[%d] = %s, want %s (sorted)", i, tool.Name(), want[i])
		}
	}
}

func TestLookupUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("nope")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nfErr.Tool != "nope" {
		t.Errorf("error names tool %q, want nope", nfErr.Tool)
	}
}

func TestAllBuiltinsAreLowRisk(t *testing.T) {
	for _, tool := range DefaultRegistry().List() {
		if tool.Risk() != RiskLow {
			t.Errorf("%s has risk %v, all builtins should be read-only", tool.Name(), tool.Risk())
		}
		if tool.Description() == "" {
			t.Errorf("%s has no description", tool.Name())
		}
	}
}

// ============================================================================
// BUILTIN TESTS
// ============================================================================

func TestHashToolString(t *testing.T) {
	r := DefaultRegistry()
	got, err := r.Execute(context.Background(), "hash", Params{"input": "hello"})
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	sum := sha256.Sum256([]byte("hello"))
	if got != hex.EncodeToString(sum[:]) {
		t.Errorf("hash = %s, want sha256 of input", got)
	}
}

func TestHashToolFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := DefaultRegistry()
	got, err := r.Execute(context.Background(), "hash", Params{"file": path})
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	sum := sha256.Sum256([]byte("content"))
	if got != hex.EncodeToString(sum[:]) {
		t.Errorf("file hash mismatch")
	}
}

func TestBase64RoundTrip(t *testing.T) {
	r := DefaultRegistry()
	ctx := context.Background()

	encoded, err := r.Execute(ctx, "base64", Params{"input": "enjambre", "mode": "encode"})
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	decoded, err := r.Execute(ctx, "base64", Params{"input": encoded, "mode": "decode"})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded != "enjambre" {
		t.Errorf("round trip gave %q", decoded)
	}
}

func TestBase64RejectsBadMode(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.Execute(context.Background(), "base64", Params{"input": "x", "mode": "rot13"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestJSONToolPrettyPrints(t *testing.T) {
	r := DefaultRegistry()
	got, err := r.Execute(context.Background(), "json", Params{"input": `{"b":1,"a":[2,3]}`})
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	if !strings.Contains(got, "\n") || !strings.Contains(got, `"a"`) {
		t.Errorf("output not pretty-printed: %q", got)
	}

	if _, err := r.Execute(context.Background(), "json", Params{"input": "{broken"}); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestListFilesTool(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aaa"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}

	r := DefaultRegistry()
	got, err := r.Execute(context.Background(), "list_files", Params{"path": dir})
	if err != nil {
		t.Fatalf("list_files error: %v", err)
	}
	if !strings.Contains(got, "a.txt") || !strings.Contains(got, "sub") {
		t.Errorf("listing missing entries: %q", got)
	}
	if !strings.Contains(got, "2 entries") {
		t.Errorf("listing missing count: %q", got)
	}
}

func TestSysInfoTool(t *testing.T) {
	r := DefaultRegistry()
	got, err := r.Execute(context.Background(), "sysinfo", Params{})
	if err != nil {
		t.Fatalf("sysinfo error: %v", err)
	}
	for _, key := range []string{"os:", "arch:", "cpus:", "go_version:"} {
		if !strings.Contains(got, key) {
			t.Errorf("sysinfo missing %s: %q", key, got)
		}
	}
}
