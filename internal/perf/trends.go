// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package perf

import "time"

// ============================================================================
// TRENDS
// ============================================================================

// TrendPoint aggregates one hourly bucket.
type TrendPoint struct {
	Hour            time.Time     `json:"hour"`
	Tasks           int           `json:"tasks"`
	SuccessRate     float64       `json:"success_rate"`
	AvgResponseTime time.Duration `json:"avg_response_time_ns"`
	AvgCost         float64       `json:"avg_cost"`
	AvgScore        float64       `json:"avg_score"`
}

// Direction classifies how performance moved across a trend.
type Direction int

const (
	DirectionStable Direction = iota
	DirectionImproving
	DirectionDegrading
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirectionImproving:
		return "improving"
	case DirectionDegrading:
		return "degrading"
	default:
		return "stable"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Trend is a sequence of hourly buckets plus an overall direction.
type Trend struct {
	Points    []TrendPoint `json:"points"`
	Direction Direction    `json:"direction"`
}

// directionDelta is the minimum average-score movement between the
// first and last populated buckets before a trend stops reading as
// stable.
const directionDelta = 0.05

// Trends buckets retained records into hourly points covering the last
// `hours` hours, oldest first. Hours with no completions produce
// zero-valued points so gaps stay visible.
func (m *Monitor) Trends(hours int) Trend {
	if hours <= 0 {
		return Trend{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	end := m.now().Truncate(time.Hour).Add(time.Hour)
	start := end.Add(-time.Duration(hours) * time.Hour)

	points := make([]TrendPoint, hours)
	for i := range points {
		points[i].Hour = start.Add(time.Duration(i) * time.Hour)
	}

	type bucket struct {
		successes     int
		totalDuration time.Duration
		totalCost     float64
		totalScore    float64
	}
	buckets := make([]bucket, hours)

	for _, rec := range m.records {
		if rec.CompletedAt.Before(start) || !rec.CompletedAt.Before(end) {
			continue
		}
		i := int(rec.CompletedAt.Sub(start) / time.Hour)
		points[i].Tasks++
		if rec.Success {
			buckets[i].successes++
		}
		buckets[i].totalDuration += rec.Duration
		buckets[i].totalCost += rec.Cost
		buckets[i].totalScore += rec.Score
	}

	for i := range points {
		if points[i].Tasks == 0 {
			continue
		}
		n := float64(points[i].Tasks)
		points[i].SuccessRate = float64(buckets[i].successes) / n
		points[i].AvgResponseTime = buckets[i].totalDuration / time.Duration(points[i].Tasks)
		points[i].AvgCost = buckets[i].totalCost / n
		points[i].AvgScore = buckets[i].totalScore / n
	}

	return Trend{Points: points, Direction: classifyDirection(points)}
}

// classifyDirection compares the average score of the first populated
// bucket against the last one. Empty buckets in between carry no
// signal and are skipped.
func classifyDirection(points []TrendPoint) Direction {
	var populated []TrendPoint
	for _, p := range points {
		if p.Tasks > 0 {
			populated = append(populated, p)
		}
	}
	if len(populated) < 2 {
		return DirectionStable
	}

	oldest := populated[0].AvgScore
	newest := populated[len(populated)-1].AvgScore

	switch {
	case newest-oldest > directionDelta:
		return DirectionImproving
	case oldest-newest > directionDelta:
		return DirectionDegrading
	default:
		return DirectionStable
	}
}
