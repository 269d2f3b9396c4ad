// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package swarm

import (
	"encoding/json"
	"time"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/optimizer"
	"github.com/DarkCodePE/gemini-cli-swarm/internal/perf"
)

// ============================================================================
// REPORTING
// ============================================================================

// Report bundles everything a periodic health check wants to see.
type Report struct {
	SessionID       string                  `json:"session_id"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Metrics         perf.Metrics            `json:"metrics"`
	Alerts          []perf.Alert            `json:"alerts"`
	Trend           perf.Trend              `json:"trend"`
	Aggregates      []perf.BackendAggregate `json:"aggregates"`
	TotalUsage      optimizer.UsageStats    `json:"total_usage"`
	UsageStats      []optimizer.UsageStats  `json:"usage_stats"`
	Recommendations []string                `json:"recommendations"`
	PeriodSpend     float64                 `json:"period_spend"`
}

// trendReportHours is how far back GetPerformanceReport looks.
const trendReportHours = 24

// GetPerformanceMetrics returns the rolling window snapshot.
func (o *Orchestrator) GetPerformanceMetrics() perf.Metrics {
	return o.monitor.CurrentMetrics()
}

// GetPerformanceReport assembles metrics, alerts, trends, and cost
// advice into one report.
func (o *Orchestrator) GetPerformanceReport() Report {
	return Report{
		SessionID:       o.sessionID,
		GeneratedAt:     time.Now(),
		Metrics:         o.monitor.CurrentMetrics(),
		Alerts:          o.monitor.Alerts(o.limits),
		Trend:           o.monitor.Trends(trendReportHours),
		Aggregates:      o.monitor.Aggregates(),
		TotalUsage:      o.optimizer.UsageStats(),
		UsageStats:      o.optimizer.AllUsageStats(),
		Recommendations: o.optimizer.Recommendations(),
		PeriodSpend:     o.optimizer.PeriodSpend(),
	}
}

// metricsExport is the stable JSON shape produced by ExportMetrics.
type metricsExport struct {
	SessionID          string                 `json:"session_id"`
	Timestamp          time.Time              `json:"timestamp"`
	Metrics            perf.Metrics           `json:"metrics"`
	Alerts             []perf.Alert           `json:"alerts"`
	Recommendations    []string               `json:"recommendations"`
	TotalUsage         optimizer.UsageStats   `json:"total_usage"`
	UsageStats         []optimizer.UsageStats `json:"usage_stats"`
	TotalTasksExecuted int                    `json:"total_tasks_executed"`
}

// ExportMetrics serializes the current session state to indented JSON
// for external dashboards.
func (o *Orchestrator) ExportMetrics() ([]byte, error) {
	export := metricsExport{
		SessionID:          o.sessionID,
		Timestamp:          time.Now(),
		Metrics:            o.monitor.CurrentMetrics(),
		Alerts:             o.monitor.Alerts(o.limits),
		Recommendations:    o.optimizer.Recommendations(),
		TotalUsage:         o.optimizer.UsageStats(),
		UsageStats:         o.optimizer.AllUsageStats(),
		TotalTasksExecuted: o.monitor.TotalTasksExecuted(),
	}
	return json.MarshalIndent(export, "", "  ")
}
