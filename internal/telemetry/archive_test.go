// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/adapter"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/swarm"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleResult(taskID, sessionID, backend string) *swarm.ExecutionResult {
	return &swarm.ExecutionResult{
		TaskID:    taskID,
		SessionID: sessionID,
		Backend:   backend,
		Result: &adapter.Result{
			Code:               "fn main() {}",
			Language:           "rust",
			Confidence:         0.9,
			VerificationPassed: true,
			InputTokens:        100,
			OutputTokens:       300,
		},
		EstimatedCost: 0.001,
		ActualCost:    0.0008,
		CostSaved:     0.004,
		Duration:      1500 * time.Millisecond,
		Score:         0.85,
	}
}

func TestRecordAndRecentRuns(t *testing.T) {
	a := newTestArchive(t)

	if err := a.RecordRun(sampleResult("t1", "s1", "gemini-flash"), "write a parser"); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}
	if err := a.RecordRun(sampleResult("t2", "s1", "gemini-pro"), "explain a bug"); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	runs, err := a.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].TaskID != "t2" {
		t.Errorf("first run = %s, want t2", runs[0].TaskID)
	}
	got := runs[1]
	if got.Backend != "gemini-flash" || got.Language != "rust" || !got.VerificationPassed {
		t.Errorf("run lost fields: %+v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got.Duration)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	a := newTestArchive(t)
	for i := 0; i < 5; i++ {
		if err := a.RecordRun(sampleResult("t", "s", "gemini-flash"), "task"); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := a.RecentRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs, want 3", len(runs))
	}
}

func TestSessionRunsAndSummary(t *testing.T) {
	a := newTestArchive(t)

	for i := 0; i < 3; i++ {
		if err := a.RecordRun(sampleResult("t", "session-a", "gemini-flash"), "task"); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.RecordRun(sampleResult("t", "session-b", "gemini-pro"), "other"); err != nil {
		t.Fatal(err)
	}

	runs, err := a.SessionRuns("session-a")
	if err != nil {
		t.Fatalf("SessionRuns() error: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d session runs, want 3", len(runs))
	}

	summary, err := a.Summary("session-a")
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if summary.Tasks != 3 || summary.Successes != 3 {
		t.Errorf("Summary = %+v, want 3 tasks / 3 successes", summary)
	}
	wantCost := 3 * 0.0008
	if diff := summary.TotalCost - wantCost; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TotalCost = %f, want %f", summary.TotalCost, wantCost)
	}
}

func TestTotalSavedEmptyArchive(t *testing.T) {
	a := newTestArchive(t)
	total, err := a.TotalSaved()
	if err != nil {
		t.Fatalf("TotalSaved() error: %v", err)
	}
	if total != 0 {
		t.Errorf("TotalSaved() = %f, want 0", total)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")

	a, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.RecordRun(sampleResult("t1", "s1", "gemini-flash"), "task"); err != nil {
		t.Fatal(err)
	}
	a.Close()

	// Reopening keeps existing data.
	b, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer b.Close()
	runs, err := b.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
