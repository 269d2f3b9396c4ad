// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package perf

import "time"

// ============================================================================
// THRESHOLDS AND ALERTS
// ============================================================================

// Thresholds defines the health limits Alerts checks the current window
// against. Zero-valued limits are not checked.
type Thresholds struct {
	MinSuccessRate     float64       `json:"min_success_rate"`
	MaxAvgResponseTime time.Duration `json:"max_avg_response_time_ns"`
	MaxCostPerTask     float64       `json:"max_cost_per_task"`
	MinTokensPerSecond float64       `json:"min_tokens_per_second"`
}

// DefaultThresholds returns the limits used when no config overrides them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSuccessRate:     0.8,
		MaxAvgResponseTime: 30 * time.Second,
		MaxCostPerTask:     0.05,
		MinTokensPerSecond: 5.0,
	}
}

// Severity ranks how far past a threshold a measurement is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText implements encoding.TextMarshaler so severities export as
// names, not numbers.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Alert is one threshold violation over the current window.
type Alert struct {
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Measured       float64  `json:"measured"`
	Threshold      float64  `json:"threshold"`
	Recommendation string   `json:"recommendation"`
}

// Alert categories.
const (
	AlertSuccessRate  = "success_rate"
	AlertResponseTime = "response_time"
	AlertCostPerTask  = "cost_per_task"
	AlertThroughput   = "tokens_per_second"
)

// criticalFactor escalates an alert to critical when the measurement is
// past the threshold by this factor.
const criticalFactor = 2.0

// severityFor grades a violation by the overshoot ratio between the
// measurement and its threshold. A measurement of zero against a
// positive minimum divides to +Inf, which grades critical.
func severityFor(ratio float64) Severity {
	switch {
	case ratio >= criticalFactor:
		return SeverityCritical
	case ratio >= 1.5:
		return SeverityHigh
	case ratio >= 1.25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Alerts evaluates the current window against the thresholds. An empty
// window raises no alerts.
func (m *Monitor) Alerts(t Thresholds) []Alert {
	metrics := m.CurrentMetrics()
	if metrics.TotalTasks == 0 {
		return nil
	}

	var alerts []Alert

	if t.MinSuccessRate > 0 && metrics.SuccessRate < t.MinSuccessRate {
		alerts = append(alerts, Alert{
			Category:       AlertSuccessRate,
			Severity:       severityFor(t.MinSuccessRate / metrics.SuccessRate),
			Measured:       metrics.SuccessRate,
			Threshold:      t.MinSuccessRate,
			Recommendation: "investigate failing tasks or route them to a more capable backend",
		})
	}
	if t.MaxAvgResponseTime > 0 && metrics.AvgResponseTime > t.MaxAvgResponseTime {
		alerts = append(alerts, Alert{
			Category:       AlertResponseTime,
			Severity:       severityFor(float64(metrics.AvgResponseTime) / float64(t.MaxAvgResponseTime)),
			Measured:       metrics.AvgResponseTime.Seconds(),
			Threshold:      t.MaxAvgResponseTime.Seconds(),
			Recommendation: "check backend latency or reduce prompt size",
		})
	}
	if t.MaxCostPerTask > 0 && metrics.AvgCostPerTask > t.MaxCostPerTask {
		alerts = append(alerts, Alert{
			Category:       AlertCostPerTask,
			Severity:       severityFor(metrics.AvgCostPerTask / t.MaxCostPerTask),
			Measured:       metrics.AvgCostPerTask,
			Threshold:      t.MaxCostPerTask,
			Recommendation: "route simpler tasks to a cheaper backend or tighten cost limits",
		})
	}
	if t.MinTokensPerSecond > 0 && metrics.AvgTokensPerSecond < t.MinTokensPerSecond {
		alerts = append(alerts, Alert{
			Category:       AlertThroughput,
			Severity:       severityFor(t.MinTokensPerSecond / metrics.AvgTokensPerSecond),
			Measured:       metrics.AvgTokensPerSecond,
			Threshold:      t.MinTokensPerSecond,
			Recommendation: "throughput is below target; check backend load or network conditions",
		})
	}
	return alerts
}
