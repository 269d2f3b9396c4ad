// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package perf

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// maxTaskRecords bounds the completed-task buffer. Oldest records
	// are evicted first.
	maxTaskRecords = 1000

	// metricsWindow is the rolling window CurrentMetrics aggregates over.
	metricsWindow = time.Hour

	// minLatency floors the divisor when computing the speed improvement
	// factor, so a pathologically fast window cannot produce infinity.
	minLatency = time.Millisecond
)

// ============================================================================
// TASK LIFECYCLE
// ============================================================================

// TaskToken is the opaque handle tying a StartTask call to its
// CompleteTask. Tokens are single-use.
type TaskToken struct {
	id      string
	backend string
	start   time.Time
}

// ID returns the generated task identifier.
func (t TaskToken) ID() string { return t.id }

// Backend returns the backend the task was started against.
func (t TaskToken) Backend() string { return t.backend }

// Outcome describes how a started task finished.
type Outcome struct {
	Success            bool
	Cancelled          bool
	Cost               float64
	InputTokens        uint32
	OutputTokens       uint32
	Confidence         float64
	VerificationPassed bool
}

// TaskRecord is one completed task as retained by the monitor.
type TaskRecord struct {
	ID              string        `json:"id"`
	Backend         string        `json:"backend"`
	StartedAt       time.Time     `json:"started_at"`
	CompletedAt     time.Time     `json:"completed_at"`
	Duration        time.Duration `json:"duration_ns"`
	Success         bool          `json:"success"`
	Cancelled       bool          `json:"cancelled"`
	Cost            float64       `json:"cost"`
	InputTokens     uint32        `json:"input_tokens"`
	OutputTokens    uint32        `json:"output_tokens"`
	TokensPerSecond float64       `json:"tokens_per_second"`
	Score           float64       `json:"score"`
}

// BackendAggregate keeps incrementally-updated per-backend means, so
// lifetime stats survive buffer eviction.
type BackendAggregate struct {
	Backend          string  `json:"backend"`
	Tasks            int     `json:"tasks"`
	Successes        int     `json:"successes"`
	TotalCost        float64 `json:"total_cost"`
	MeanDurationMs   float64 `json:"mean_duration_ms"`
	MeanTokensPerSec float64 `json:"mean_tokens_per_sec"`
	MeanScore        float64 `json:"mean_score"`
}

// SuccessRate returns successes / tasks, zero when empty.
func (a BackendAggregate) SuccessRate() float64 {
	if a.Tasks == 0 {
		return 0
	}
	return float64(a.Successes) / float64(a.Tasks)
}

// ============================================================================
// METRICS AND BASELINE
// ============================================================================

// Metrics is a snapshot over the rolling window. All fields are
// zero-valued when no tasks completed inside the window, except
// SpeedImprovementFactor which defaults to 1.0.
type Metrics struct {
	WindowStart     time.Time     `json:"window_start"`
	WindowEnd       time.Time     `json:"window_end"`
	TotalTasks      int           `json:"total_tasks"`
	SuccessRate     float64       `json:"success_rate"`
	AvgResponseTime time.Duration `json:"avg_response_time_ns"`
	AvgCostPerTask  float64       `json:"avg_cost_per_task"`
	// CostEfficiency is window cost divided by successful completions,
	// zero when nothing in the window succeeded.
	CostEfficiency float64 `json:"cost_efficiency"`
	// Throughput is completions per hour; with the one-hour rolling
	// window it equals TotalTasks.
	Throughput             float64 `json:"throughput"`
	AvgTokensPerSecond     float64 `json:"avg_tokens_per_second"`
	AvgScore               float64 `json:"avg_score"`
	SpeedImprovementFactor float64 `json:"speed_improvement_factor"`
}

// Baseline is an explicitly captured reference point for speed
// comparisons.
type Baseline struct {
	AvgResponseTime time.Duration `json:"avg_response_time_ns"`
	CapturedAt      time.Time     `json:"captured_at"`
}

// ============================================================================
// MONITOR
// ============================================================================

// Monitor records task lifecycles and serves derived metrics. Safe for
// concurrent use. The zero value is not usable; construct with NewMonitor.
type Monitor struct {
	mu         sync.RWMutex
	records    []TaskRecord
	aggregates map[string]*BackendAggregate
	baseline   *Baseline
	totalEver  int

	now func() time.Time
}

// NewMonitor builds an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		records:    make([]TaskRecord, 0, 64),
		aggregates: make(map[string]*BackendAggregate),
		now:        time.Now,
	}
}

// StartTask opens a tracking span for a task on the given backend and
// returns the token CompleteTask needs. Started-but-never-completed
// tasks leave no trace in metrics.
func (m *Monitor) StartTask(backend string) TaskToken {
	return TaskToken{
		id:      uuid.NewString(),
		backend: backend,
		start:   m.now(),
	}
}

// CompleteTask closes the span for a token and retains the resulting
// record. Cancelled outcomes are recorded like any other completion.
func (m *Monitor) CompleteTask(tok TaskToken, out Outcome) TaskRecord {
	end := m.now()
	duration := end.Sub(tok.start)
	if duration < 0 {
		duration = 0
	}

	rec := TaskRecord{
		ID:           tok.id,
		Backend:      tok.backend,
		StartedAt:    tok.start,
		CompletedAt:  end,
		Duration:     duration,
		Success:      out.Success,
		Cancelled:    out.Cancelled,
		Cost:         out.Cost,
		InputTokens:  out.InputTokens,
		OutputTokens: out.OutputTokens,
		Score:        Score(out, duration),
	}
	if duration > 0 {
		rec.TokensPerSecond = float64(out.OutputTokens) / duration.Seconds()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) >= maxTaskRecords {
		m.records = m.records[1:]
	}
	m.records = append(m.records, rec)
	m.totalEver++

	agg, ok := m.aggregates[tok.backend]
	if !ok {
		agg = &BackendAggregate{Backend: tok.backend}
		m.aggregates[tok.backend] = agg
	}
	agg.Tasks++
	if out.Success {
		agg.Successes++
	}
	agg.TotalCost += out.Cost
	n := float64(agg.Tasks)
	agg.MeanDurationMs += (float64(duration.Milliseconds()) - agg.MeanDurationMs) / n
	agg.MeanTokensPerSec += (rec.TokensPerSecond - agg.MeanTokensPerSec) / n
	agg.MeanScore += (rec.Score - agg.MeanScore) / n

	return rec
}

// TotalTasksExecuted returns the lifetime completion count, which keeps
// growing after buffer eviction begins.
func (m *Monitor) TotalTasksExecuted() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalEver
}

// RecordCount returns the number of retained task records.
func (m *Monitor) RecordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Records returns a copy of the retained records, oldest first.
func (m *Monitor) Records() []TaskRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TaskRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Aggregates returns a copy of the per-backend lifetime aggregates.
func (m *Monitor) Aggregates() []BackendAggregate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BackendAggregate, 0, len(m.aggregates))
	for _, agg := range m.aggregates {
		out = append(out, *agg)
	}
	return out
}

// ============================================================================
// ROLLING METRICS
// ============================================================================

// CurrentMetrics aggregates records completed within the rolling window
// ending now.
func (m *Monitor) CurrentMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	end := m.now()
	start := end.Add(-metricsWindow)
	metrics := Metrics{
		WindowStart:            start,
		WindowEnd:              end,
		SpeedImprovementFactor: 1.0,
	}

	var (
		successes     int
		totalDuration time.Duration
		totalCost     float64
		totalTPS      float64
		totalScore    float64
	)
	for _, rec := range m.records {
		if rec.CompletedAt.Before(start) {
			continue
		}
		metrics.TotalTasks++
		if rec.Success {
			successes++
		}
		totalDuration += rec.Duration
		totalCost += rec.Cost
		totalTPS += rec.TokensPerSecond
		totalScore += rec.Score
	}
	if metrics.TotalTasks == 0 {
		return metrics
	}

	n := float64(metrics.TotalTasks)
	metrics.SuccessRate = float64(successes) / n
	metrics.AvgResponseTime = totalDuration / time.Duration(metrics.TotalTasks)
	metrics.AvgCostPerTask = totalCost / n
	if successes > 0 {
		metrics.CostEfficiency = totalCost / float64(successes)
	}
	metrics.Throughput = n / metricsWindow.Hours()
	metrics.AvgTokensPerSecond = totalTPS / n
	metrics.AvgScore = totalScore / n

	if m.baseline != nil {
		current := metrics.AvgResponseTime
		if current < minLatency {
			current = minLatency
		}
		metrics.SpeedImprovementFactor = float64(m.baseline.AvgResponseTime) / float64(current)
	}
	return metrics
}

// SetBaseline captures the current window's average response time as the
// reference point for SpeedImprovementFactor. Explicit only: the monitor
// never baselines on its own.
func (m *Monitor) SetBaseline() Baseline {
	metrics := m.CurrentMetrics()

	m.mu.Lock()
	defer m.mu.Unlock()
	b := Baseline{
		AvgResponseTime: metrics.AvgResponseTime,
		CapturedAt:      m.now(),
	}
	m.baseline = &b
	return b
}

// GetBaseline returns the captured baseline, if any.
func (m *Monitor) GetBaseline() (Baseline, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.baseline == nil {
		return Baseline{}, false
	}
	return *m.baseline, true
}
