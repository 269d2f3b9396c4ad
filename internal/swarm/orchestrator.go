// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package swarm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/adapter"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/complexity"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/optimizer"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/perf"
)

// ============================================================================
// REQUEST AND RESULT
// ============================================================================

// Request is one task submitted for execution. An empty ID is assigned
// on submission.
type Request struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ExecutionResult is a completed task with its cost accounting.
type ExecutionResult struct {
	TaskID        string                    `json:"task_id"`
	SessionID     string                    `json:"session_id"`
	Backend       string                    `json:"backend"`
	Result        *adapter.Result           `json:"result"`
	Complexity    complexity.TaskComplexity `json:"complexity"`
	EstimatedCost float64                   `json:"estimated_cost"`
	ActualCost    float64                   `json:"actual_cost"`
	CostSaved     float64                   `json:"cost_saved"`
	Duration      time.Duration             `json:"duration_ns"`
	Score         float64                   `json:"score"`
}

// thinkingPrefix is prepended to the prompt when the task needs
// extended reasoning and the selected backend supports it.
const thinkingPrefix = "Think step by step and show your reasoning before the final answer.\n\n"

// outputTokenRatio estimates output volume from input volume for
// pre-execution cost estimates. Code generation tends to expand.
const outputTokenRatio = 3

// ============================================================================
// ORCHESTRATOR
// ============================================================================

// Orchestrator coordinates one session's task executions. Safe for
// concurrent use; no orchestrator lock is held across an adapter call.
type Orchestrator struct {
	sessionID string
	registry  *adapter.Registry
	optimizer *optimizer.CostOptimizer
	monitor   *perf.Monitor
	limits    perf.Thresholds
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithThresholds overrides the default alert thresholds.
func WithThresholds(t perf.Thresholds) Option {
	return func(o *Orchestrator) { o.limits = t }
}

// New builds an orchestrator with a fresh session ID.
func New(reg *adapter.Registry, opt *optimizer.CostOptimizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sessionID: uuid.NewString(),
		registry:  reg,
		optimizer: opt,
		monitor:   perf.NewMonitor(),
		limits:    perf.DefaultThresholds(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// SessionID returns this orchestrator's session identifier.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// Optimizer exposes the cost optimizer for reporting layers.
func (o *Orchestrator) Optimizer() *optimizer.CostOptimizer { return o.optimizer }

// Monitor exposes the performance monitor for reporting layers.
func (o *Orchestrator) Monitor() *perf.Monitor { return o.monitor }

// ============================================================================
// EXECUTION
// ============================================================================

// ExecuteTask runs one task end to end. Cost limit vetoes return a
// *optimizer.CostLimitError before any backend call; unknown backends
// return a *adapter.NotFoundError. Failed and cancelled executions are
// recorded in performance tracking before the error is returned.
func (o *Orchestrator) ExecuteTask(ctx context.Context, req Request) (*ExecutionResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	c := complexity.Analyze(req.Description)
	backend := o.optimizer.SelectBackend(c)

	ad, err := o.registry.Lookup(backend)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", req.ID, err)
	}
	caps := ad.Capabilities()

	inputTokens := adapter.EstimateTokens(req.Description)
	estimated := o.optimizer.EstimateCost(backend, inputTokens, outputTokenRatio*inputTokens)
	if err := o.optimizer.CheckConstraints(backend, estimated); err != nil {
		log.Printf("TASK_VETOED | task=%s backend=%s estimated=%.6f", req.ID, backend, estimated)
		return nil, fmt.Errorf("task %s: %w", req.ID, err)
	}

	prompt := req.Description
	thinking := c.ThinkingNeeded && caps.SupportsThinking
	if thinking {
		prompt = thinkingPrefix + prompt
	}

	tok := o.monitor.StartTask(backend)
	res, execErr := ad.Execute(ctx, prompt)
	if execErr != nil {
		cancelled := errors.Is(execErr, context.Canceled) || errors.Is(execErr, context.DeadlineExceeded)
		rec := o.monitor.CompleteTask(tok, perf.Outcome{Cancelled: cancelled})
		o.optimizer.RecordUsage(optimizer.UsageRecord{
			Backend:    backend,
			Complexity: c,
		})
		log.Printf("TASK_FAILED | task=%s backend=%s cancelled=%t duration=%v", req.ID, backend, cancelled, rec.Duration)
		return nil, fmt.Errorf("task %s on %s: %w", req.ID, backend, execErr)
	}
	res.ThinkingRequested = thinking

	actual := o.optimizer.EstimateCost(backend, res.InputTokens, res.OutputTokens)
	reference := o.optimizer.EstimateCost(optimizer.ReferenceBackend, res.InputTokens, res.OutputTokens)
	saved := reference - actual
	if saved < 0 {
		saved = 0
	}

	rec := o.monitor.CompleteTask(tok, perf.Outcome{
		Success:            res.VerificationPassed,
		Cost:               actual,
		InputTokens:        res.InputTokens,
		OutputTokens:       res.OutputTokens,
		Confidence:         res.Confidence,
		VerificationPassed: res.VerificationPassed,
	})
	o.optimizer.RecordUsage(optimizer.UsageRecord{
		Backend:      backend,
		Cost:         actual,
		Success:      res.VerificationPassed,
		Satisfaction: res.Confidence,
		Complexity:   c,
	})

	log.Printf("TASK_EXECUTED | task=%s backend=%s cost=%.6f saved=%.6f verified=%t duration=%v",
		req.ID, backend, actual, saved, res.VerificationPassed, rec.Duration)

	return &ExecutionResult{
		TaskID:        req.ID,
		SessionID:     o.sessionID,
		Backend:       backend,
		Result:        res,
		Complexity:    c,
		EstimatedCost: estimated,
		ActualCost:    actual,
		CostSaved:     saved,
		Duration:      rec.Duration,
		Score:         rec.Score,
	}, nil
}
