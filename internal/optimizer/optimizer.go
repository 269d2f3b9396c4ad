// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package optimizer

import (
	"fmt"
	"sync"
	"time"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/complexity"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// maxUsageHistory bounds the in-memory usage record buffer. Oldest
	// records are evicted first.
	maxUsageHistory = 1000

	// lowComplexityThreshold is the overall score below which a task is
	// considered trivial enough for the cheapest backend.
	lowComplexityThreshold = 0.3

	// highComplexityThreshold is the overall score above which the most
	// capable tier is justified.
	highComplexityThreshold = 0.7

	// codeSpecialistThreshold routes code-dominant tasks above this
	// overall score to the code specialist backend.
	codeSpecialistThreshold = 0.6

	// midTierThreshold is the lower bound for the mid-capability tier
	// under balanced priority.
	midTierThreshold = 0.4

	// periodWarningFraction triggers a budget warning recommendation once
	// period spend crosses this fraction of the ceiling.
	periodWarningFraction = 0.8

	// costEfficiencyThreshold flags backends whose cost per successful
	// task exceeds this value (USD).
	costEfficiencyThreshold = 0.05
)

// ============================================================================
// CONSTRAINTS AND ERRORS
// ============================================================================

// CostConstraints bounds what a single task, and the running period, may
// spend. Zero-valued limits mean "no limit".
type CostConstraints struct {
	MaxCostPerTask   float64  `json:"max_cost_per_task"`
	MaxCostPerPeriod float64  `json:"max_cost_per_period"`
	Priority         Priority `json:"priority"`
}

// CostLimitError reports a pre-execution budget veto. The task was never
// sent to a backend.
type CostLimitError struct {
	Backend   string
	Estimated float64
	Limit     float64
	Period    bool // true when the period ceiling vetoed, not the per-task one
}

func (e *CostLimitError) Error() string {
	scope := "per-task"
	if e.Period {
		scope = "period"
	}
	return fmt.Sprintf("estimated cost $%.6f for %s exceeds %s limit $%.6f",
		e.Estimated, e.Backend, scope, e.Limit)
}

// ============================================================================
// USAGE HISTORY
// ============================================================================

// UsageRecord is one completed (or failed) task's cost outcome.
type UsageRecord struct {
	Backend      string                    `json:"backend"`
	Cost         float64                   `json:"cost"`
	Success      bool                      `json:"success"`
	Satisfaction float64                   `json:"satisfaction"` // 0.0-1.0
	Complexity   complexity.TaskComplexity `json:"complexity"`
	Timestamp    time.Time                 `json:"timestamp"`
}

// UsageStats aggregates the retained usage history for one backend.
type UsageStats struct {
	Backend               string  `json:"backend"`
	TotalTasks            int     `json:"total_tasks"`
	TotalCost             float64 `json:"total_cost"`
	SuccessRate           float64 `json:"success_rate"`
	AvgSatisfaction       float64 `json:"avg_satisfaction"`
	CostPerSuccessfulTask float64 `json:"cost_per_successful_task"`
}

// ============================================================================
// COST OPTIMIZER
// ============================================================================

// CostOptimizer selects backends, estimates and vetoes cost, and keeps a
// bounded usage history. Safe for concurrent use.
type CostOptimizer struct {
	mu          sync.RWMutex
	profiles    map[string]BackendProfile
	history     []UsageRecord
	periodSpend float64
	constraints CostConstraints
}

// New builds an optimizer over the default backend table.
func New(constraints CostConstraints) *CostOptimizer {
	return NewWithProfiles(DefaultProfiles(), constraints)
}

// NewWithProfiles builds an optimizer over a custom backend table.
func NewWithProfiles(profiles []BackendProfile, constraints CostConstraints) *CostOptimizer {
	m := make(map[string]BackendProfile, len(profiles))
	for _, p := range profiles {
		m[p.Name] = p
	}
	return &CostOptimizer{
		profiles:    m,
		history:     make([]UsageRecord, 0, 64),
		constraints: constraints,
	}
}

// Constraints returns the active cost constraints.
func (o *CostOptimizer) Constraints() CostConstraints {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.constraints
}

// Profile returns the profile for a backend name.
func (o *CostOptimizer) Profile(backend string) (BackendProfile, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.profiles[backend]
	return p, ok
}

// ============================================================================
// SELECTION
// ============================================================================

// SelectBackend picks a backend name for the given complexity profile.
// The decision table is ordered; the first matching rule wins. It never
// fails: the fallback is DefaultBackend.
func (o *CostOptimizer) SelectBackend(c complexity.TaskComplexity) string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	overall := c.Overall()

	// Rule 1: critical priority always gets the most capable backend
	// that matches the thinking requirement.
	if o.constraints.Priority == PriorityCritical {
		if c.ThinkingNeeded {
			if name := o.bestCapability(true); name != "" {
				return name
			}
		}
		if name := o.bestCapability(false); name != "" {
			return name
		}
		return DefaultBackend
	}

	// Rule 2: trivial task under low priority goes to the cheapest.
	if o.constraints.Priority == PriorityLow && overall < lowComplexityThreshold {
		return o.cheapest()
	}

	// Rule 3: thinking tasks route by depth.
	if c.ThinkingNeeded {
		if overall > highComplexityThreshold {
			if name := o.bestCapability(true); name != "" {
				return name
			}
		}
		if name := o.bestReasoningTier(); name != "" {
			return name
		}
	}

	// Rule 4: hard code-dominant tasks get the code specialist.
	if c.CodeDominant() && overall > codeSpecialistThreshold {
		if name := o.bestSpecialist("code"); name != "" {
			return name
		}
	}

	// Rule 5: remaining tasks tier by overall score.
	switch {
	case overall > highComplexityThreshold:
		if name := o.bestCapability(false); name != "" {
			return name
		}
	case overall > midTierThreshold:
		if name := o.bestReasoningTier(); name != "" {
			return name
		}
	default:
		return o.cheapest()
	}

	// Rule 6: fallback.
	return DefaultBackend
}

// bestCapability returns the highest-capability backend, optionally
// restricted to thinking-capable ones. Callers hold at least the read lock.
func (o *CostOptimizer) bestCapability(requireThinking bool) string {
	best := ""
	bestCap := -1.0
	for name, p := range o.profiles {
		if requireThinking && !p.SupportsThinking {
			continue
		}
		if p.Capability > bestCap || (p.Capability == bestCap && name < best) {
			best = name
			bestCap = p.Capability
		}
	}
	return best
}

// bestReasoningTier returns the cheapest thinking-capable backend, the
// mid tier between flash and the experimental model.
func (o *CostOptimizer) bestReasoningTier() string {
	best := ""
	bestCost := 0.0
	for name, p := range o.profiles {
		if !p.SupportsThinking {
			continue
		}
		cost := p.CostPerMillionInput + p.CostPerMillionOutput
		if best == "" || cost < bestCost || (cost == bestCost && name < best) {
			best = name
			bestCost = cost
		}
	}
	return best
}

// bestSpecialist returns the highest-capability backend with the given
// specialization.
func (o *CostOptimizer) bestSpecialist(spec string) string {
	best := ""
	bestCap := -1.0
	for name, p := range o.profiles {
		if !p.Specializes(spec) {
			continue
		}
		if p.Capability > bestCap || (p.Capability == bestCap && name < best) {
			best = name
			bestCap = p.Capability
		}
	}
	return best
}

// cheapest returns the backend with the lowest combined per-million rate.
func (o *CostOptimizer) cheapest() string {
	best := ""
	bestCost := 0.0
	for name, p := range o.profiles {
		cost := p.CostPerMillionInput + p.CostPerMillionOutput
		if best == "" || cost < bestCost || (cost == bestCost && name < best) {
			best = name
			bestCost = cost
		}
	}
	if best == "" {
		return DefaultBackend
	}
	return best
}

// ============================================================================
// ESTIMATION AND VETO
// ============================================================================

// EstimateCost computes the linear cost of a task on a backend:
// tokens/1e6 times the per-million rate, input and output summed.
// Unknown backends estimate to zero.
func (o *CostOptimizer) EstimateCost(backend string, inputTokens, outputTokens uint32) float64 {
	o.mu.RLock()
	p, ok := o.profiles[backend]
	o.mu.RUnlock()
	if !ok {
		return 0
	}
	in := float64(inputTokens) / 1e6 * p.CostPerMillionInput
	out := float64(outputTokens) / 1e6 * p.CostPerMillionOutput
	return in + out
}

// CheckConstraints vetoes a task whose estimated cost would exceed the
// per-task limit or push period spend past the period ceiling. A cost
// exactly equal to a limit is allowed. Zero limits never veto.
func (o *CostOptimizer) CheckConstraints(backend string, estimated float64) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.constraints.MaxCostPerTask > 0 && estimated > o.constraints.MaxCostPerTask {
		return &CostLimitError{
			Backend:   backend,
			Estimated: estimated,
			Limit:     o.constraints.MaxCostPerTask,
		}
	}
	if o.constraints.MaxCostPerPeriod > 0 && o.periodSpend+estimated > o.constraints.MaxCostPerPeriod {
		return &CostLimitError{
			Backend:   backend,
			Estimated: estimated,
			Limit:     o.constraints.MaxCostPerPeriod,
			Period:    true,
		}
	}
	return nil
}

// ============================================================================
// HISTORY AND STATS
// ============================================================================

// RecordUsage appends a usage record, evicting the oldest once the
// history holds maxUsageHistory entries, and accumulates period spend.
func (o *CostOptimizer) RecordUsage(rec UsageRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.history) >= maxUsageHistory {
		o.history = o.history[1:]
	}
	o.history = append(o.history, rec)
	o.periodSpend += rec.Cost
}

// PeriodSpend returns the accumulated spend since the last reset.
func (o *CostOptimizer) PeriodSpend() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.periodSpend
}

// ResetPeriod zeroes the period spend accumulator. Usage history is kept.
func (o *CostOptimizer) ResetPeriod() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.periodSpend = 0
}

// HistoryLen returns the number of retained usage records.
func (o *CostOptimizer) HistoryLen() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.history)
}

// History returns a copy of the retained usage records, oldest first.
func (o *CostOptimizer) History() []UsageRecord {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]UsageRecord, len(o.history))
	copy(out, o.history)
	return out
}

// UsageStatsFor aggregates retained history for one backend. All
// derived ratios are zero when their denominator is zero.
func (o *CostOptimizer) UsageStatsFor(backend string) UsageStats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := UsageStats{Backend: backend}
	successes := 0
	satisfaction := 0.0
	successCost := 0.0
	for _, rec := range o.history {
		if rec.Backend != backend {
			continue
		}
		stats.TotalTasks++
		stats.TotalCost += rec.Cost
		satisfaction += rec.Satisfaction
		if rec.Success {
			successes++
			successCost += rec.Cost
		}
	}
	if stats.TotalTasks > 0 {
		stats.SuccessRate = float64(successes) / float64(stats.TotalTasks)
		stats.AvgSatisfaction = satisfaction / float64(stats.TotalTasks)
	}
	if successes > 0 {
		stats.CostPerSuccessfulTask = successCost / float64(successes)
	}
	return stats
}

// UsageStats aggregates the entire retained history across backends.
// All derived ratios are zero when their denominator is zero.
func (o *CostOptimizer) UsageStats() UsageStats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := UsageStats{Backend: "all"}
	successes := 0
	satisfaction := 0.0
	successCost := 0.0
	for _, rec := range o.history {
		stats.TotalTasks++
		stats.TotalCost += rec.Cost
		satisfaction += rec.Satisfaction
		if rec.Success {
			successes++
			successCost += rec.Cost
		}
	}
	if stats.TotalTasks > 0 {
		stats.SuccessRate = float64(successes) / float64(stats.TotalTasks)
		stats.AvgSatisfaction = satisfaction / float64(stats.TotalTasks)
	}
	if successes > 0 {
		stats.CostPerSuccessfulTask = successCost / float64(successes)
	}
	return stats
}

// AllUsageStats aggregates retained history per backend.
func (o *CostOptimizer) AllUsageStats() []UsageStats {
	o.mu.RLock()
	backends := make(map[string]bool)
	for _, rec := range o.history {
		backends[rec.Backend] = true
	}
	o.mu.RUnlock()

	out := make([]UsageStats, 0, len(backends))
	for b := range backends {
		out = append(out, o.UsageStatsFor(b))
	}
	return out
}

// ============================================================================
// RECOMMENDATIONS
// ============================================================================

// Recommendations inspects the usage history and returns human-readable
// cost advice. Empty history yields no recommendations.
func (o *CostOptimizer) Recommendations() []string {
	var recs []string

	for _, stats := range o.AllUsageStats() {
		if stats.SuccessRate > 0.9 && stats.CostPerSuccessfulTask > costEfficiencyThreshold {
			recs = append(recs, fmt.Sprintf(
				"%s succeeds reliably (%.0f%%) but costs $%.4f per successful task; consider routing simpler tasks to a cheaper backend",
				stats.Backend, stats.SuccessRate*100, stats.CostPerSuccessfulTask))
		}
	}

	o.mu.RLock()
	failedReasoning := 0
	for _, rec := range o.history {
		if !rec.Success && rec.Complexity.ReasoningRequired > highComplexityThreshold {
			failedReasoning++
		}
	}
	spend := o.periodSpend
	ceiling := o.constraints.MaxCostPerPeriod
	o.mu.RUnlock()

	if failedReasoning > 2 {
		recs = append(recs, fmt.Sprintf(
			"%d high-reasoning tasks failed; consider enabling extended reasoning or a thinking-capable backend",
			failedReasoning))
	}
	if ceiling > 0 && spend > periodWarningFraction*ceiling {
		recs = append(recs, fmt.Sprintf(
			"period spend $%.4f is above %.0f%% of the $%.4f ceiling",
			spend, periodWarningFraction*100, ceiling))
	}
	return recs
}
