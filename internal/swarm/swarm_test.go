// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package swarm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/adapter"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/optimizer"
)

// fakeAdapter returns a canned result and remembers the last prompt.
type fakeAdapter struct {
	mu     sync.Mutex
	caps   adapter.Capabilities
	result *adapter.Result
	err    error
	prompt string
	calls  int
}

func (f *fakeAdapter) Execute(ctx context.Context, task string) (*adapter.Result, error) {
	f.mu.Lock()
	f.prompt = task
	f.calls++
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	return &res, nil
}

func (f *fakeAdapter) Capabilities() adapter.Capabilities { return f.caps }

func (f *fakeAdapter) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestRegistry registers one fake under every default backend name
// so any selection outcome resolves.
func newTestRegistry(fake *fakeAdapter) *adapter.Registry {
	reg := adapter.NewRegistry()
	for _, p := range optimizer.DefaultProfiles() {
		reg.Register(p.Name, fake)
	}
	return reg
}

func goodResult() *adapter.Result {
	return &adapter.Result{
		Code:               "func add(a, b int) int { return a + b }",
		Language:           "go",
		Confidence:         0.9,
		VerificationPassed: true,
		InputTokens:        1000,
		OutputTokens:       2000,
	}
}

// ============================================================================
// EXECUTION TESTS
// ============================================================================

func TestExecuteTaskSuccess(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	orch := New(newTestRegistry(fake), optimizer.New(optimizer.CostConstraints{}))

	res, err := orch.ExecuteTask(context.Background(), Request{Description: "write a tiny helper"})
	if err != nil {
		t.Fatalf("ExecuteTask() error: %v", err)
	}
	if res.TaskID == "" {
		t.Error("TaskID not assigned")
	}
	if res.SessionID != orch.SessionID() {
		t.Errorf("SessionID = %q, want %q", res.SessionID, orch.SessionID())
	}
	if res.ActualCost <= 0 {
		t.Errorf("ActualCost = %f, want > 0", res.ActualCost)
	}
	if res.CostSaved < 0 {
		t.Errorf("CostSaved = %f, must never be negative", res.CostSaved)
	}
	if orch.Monitor().TotalTasksExecuted() != 1 {
		t.Errorf("monitor recorded %d tasks, want 1", orch.Monitor().TotalTasksExecuted())
	}
	if orch.Optimizer().HistoryLen() != 1 {
		t.Errorf("optimizer recorded %d usages, want 1", orch.Optimizer().HistoryLen())
	}
}

func TestExecuteTaskCostSavedAgainstReference(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	opt := optimizer.New(optimizer.CostConstraints{})
	orch := New(newTestRegistry(fake), opt)

	res, err := orch.ExecuteTask(context.Background(), Request{Description: "write a tiny helper"})
	if err != nil {
		t.Fatalf("ExecuteTask() error: %v", err)
	}

	reference := opt.EstimateCost(optimizer.ReferenceBackend, 1000, 2000)
	wantSaved := reference - res.ActualCost
	if wantSaved < 0 {
		wantSaved = 0
	}
	if diff := res.CostSaved - wantSaved; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("CostSaved = %f, want %f", res.CostSaved, wantSaved)
	}
}

func TestExecuteTaskEstimateUsesTokenHeuristic(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	opt := optimizer.New(optimizer.CostConstraints{})
	orch := New(newTestRegistry(fake), opt)

	desc := "write a tiny helper"
	res, err := orch.ExecuteTask(context.Background(), Request{Description: desc})
	if err != nil {
		t.Fatalf("ExecuteTask() error: %v", err)
	}

	in := adapter.EstimateTokens(desc)
	want := opt.EstimateCost(res.Backend, in, 3*in)
	if want <= 0 {
		t.Fatalf("expected a positive pre-execution estimate, got %f", want)
	}
	if diff := res.EstimatedCost - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("EstimatedCost = %f, want %f", res.EstimatedCost, want)
	}
}

func TestExecuteTaskCostLimitVeto(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	opt := optimizer.New(optimizer.CostConstraints{MaxCostPerTask: 1e-12})
	orch := New(newTestRegistry(fake), opt)

	_, err := orch.ExecuteTask(context.Background(), Request{
		Description: "summarize this very long requirements document into a release plan",
	})
	var limitErr *optimizer.CostLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected CostLimitError, got %v", err)
	}

	// A vetoed task must not reach the backend or leave tracking traces.
	if fake.callCount() != 0 {
		t.Errorf("adapter called %d times, want 0", fake.callCount())
	}
	if orch.Monitor().TotalTasksExecuted() != 0 {
		t.Errorf("monitor recorded %d tasks after veto, want 0", orch.Monitor().TotalTasksExecuted())
	}
	if opt.HistoryLen() != 0 {
		t.Errorf("optimizer recorded %d usages after veto, want 0", opt.HistoryLen())
	}
}

func TestExecuteTaskUnknownBackend(t *testing.T) {
	orch := New(adapter.NewRegistry(), optimizer.New(optimizer.CostConstraints{}))

	_, err := orch.ExecuteTask(context.Background(), Request{Description: "anything"})
	var nfErr *adapter.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestExecuteTaskFailureRecordedAtZeroCost(t *testing.T) {
	fake := &fakeAdapter{err: adapter.ErrInvalidResponse}
	opt := optimizer.New(optimizer.CostConstraints{})
	orch := New(newTestRegistry(fake), opt)

	_, err := orch.ExecuteTask(context.Background(), Request{Description: "do a thing"})
	if !errors.Is(err, adapter.ErrInvalidResponse) {
		t.Fatalf("expected wrapped ErrInvalidResponse, got %v", err)
	}

	// Failure still completes tracking, at zero cost.
	if orch.Monitor().TotalTasksExecuted() != 1 {
		t.Errorf("monitor recorded %d tasks, want 1", orch.Monitor().TotalTasksExecuted())
	}
	hist := opt.History()
	if len(hist) != 1 {
		t.Fatalf("optimizer history len = %d, want 1", len(hist))
	}
	if hist[0].Cost != 0 || hist[0].Success {
		t.Errorf("failure recorded as cost=%f success=%t, want 0/false", hist[0].Cost, hist[0].Success)
	}
}

func TestExecuteTaskCancellationCompletesTracking(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	orch := New(newTestRegistry(fake), optimizer.New(optimizer.CostConstraints{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.ExecuteTask(ctx, Request{Description: "do a thing"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	records := orch.Monitor().Records()
	if len(records) != 1 {
		t.Fatalf("monitor records = %d, want 1 (cancellation completes tracking)", len(records))
	}
	if !records[0].Cancelled {
		t.Error("record not flagged cancelled")
	}
}

func TestExecuteTaskThinkingPromptRewrite(t *testing.T) {
	fake := &fakeAdapter{result: goodResult(), caps: adapter.Capabilities{SupportsThinking: true}}
	orch := New(newTestRegistry(fake), optimizer.New(optimizer.CostConstraints{}))

	desc := "analyze this algorithm and explain your reasoning step by step"
	res, err := orch.ExecuteTask(context.Background(), Request{Description: desc})
	if err != nil {
		t.Fatalf("ExecuteTask() error: %v", err)
	}

	if !res.Result.ThinkingRequested {
		t.Error("ThinkingRequested not set on result")
	}
	prompt := fake.lastPrompt()
	if !strings.HasPrefix(prompt, thinkingPrefix) {
		t.Errorf("prompt missing thinking prefix: %q", prompt)
	}
	if !strings.HasSuffix(prompt, desc) {
		t.Errorf("prompt lost the original description: %q", prompt)
	}
}

func TestExecuteTaskPlainPromptUntouched(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	orch := New(newTestRegistry(fake), optimizer.New(optimizer.CostConstraints{}))

	desc := "write a short greeting"
	res, err := orch.ExecuteTask(context.Background(), Request{Description: desc})
	if err != nil {
		t.Fatalf("ExecuteTask() error: %v", err)
	}
	if res.Result.ThinkingRequested {
		t.Error("ThinkingRequested set for a non-thinking task")
	}
	if got := fake.lastPrompt(); got != desc {
		t.Errorf("prompt = %q, want untouched %q", got, desc)
	}
}

// ============================================================================
// REPORTING TESTS
// ============================================================================

func TestExportMetricsRoundTrip(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	orch := New(newTestRegistry(fake), optimizer.New(optimizer.CostConstraints{}))

	for i := 0; i < 3; i++ {
		if _, err := orch.ExecuteTask(context.Background(), Request{Description: "write a helper"}); err != nil {
			t.Fatalf("ExecuteTask() error: %v", err)
		}
	}

	raw, err := orch.ExportMetrics()
	if err != nil {
		t.Fatalf("ExportMetrics() error: %v", err)
	}

	var got struct {
		SessionID          string `json:"session_id"`
		TotalTasksExecuted int    `json:"total_tasks_executed"`
		Metrics            struct {
			TotalTasks int `json:"total_tasks"`
		} `json:"metrics"`
		TotalUsage struct {
			Backend    string `json:"backend"`
			TotalTasks int    `json:"total_tasks"`
		} `json:"total_usage"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.SessionID != orch.SessionID() {
		t.Errorf("session_id = %q, want %q", got.SessionID, orch.SessionID())
	}
	if got.TotalTasksExecuted != 3 {
		t.Errorf("total_tasks_executed = %d, want 3", got.TotalTasksExecuted)
	}
	if got.Metrics.TotalTasks != 3 {
		t.Errorf("metrics.total_tasks = %d, want 3", got.Metrics.TotalTasks)
	}
	if got.TotalUsage.Backend != "all" || got.TotalUsage.TotalTasks != 3 {
		t.Errorf("total_usage = %+v, want aggregate over 3 tasks", got.TotalUsage)
	}
}

func TestGetPerformanceReport(t *testing.T) {
	fake := &fakeAdapter{result: goodResult()}
	orch := New(newTestRegistry(fake), optimizer.New(optimizer.CostConstraints{}))

	if _, err := orch.ExecuteTask(context.Background(), Request{Description: "write a helper"}); err != nil {
		t.Fatalf("ExecuteTask() error: %v", err)
	}

	report := orch.GetPerformanceReport()
	if report.SessionID != orch.SessionID() {
		t.Errorf("SessionID = %q, want %q", report.SessionID, orch.SessionID())
	}
	if report.Metrics.TotalTasks != 1 {
		t.Errorf("Metrics.TotalTasks = %d, want 1", report.Metrics.TotalTasks)
	}
	if len(report.Aggregates) != 1 {
		t.Errorf("Aggregates len = %d, want 1", len(report.Aggregates))
	}
	if len(report.UsageStats) != 1 {
		t.Errorf("UsageStats len = %d, want 1", len(report.UsageStats))
	}
}

func TestSessionIDsUniquePerOrchestrator(t *testing.T) {
	reg := adapter.NewRegistry()
	opt := optimizer.New(optimizer.CostConstraints{})
	a := New(reg, opt)
	b := New(reg, opt)
	if a.SessionID() == b.SessionID() {
		t.Error("two orchestrators share a session ID")
	}
}
