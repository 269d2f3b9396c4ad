// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package perf

import (
	"time"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/util"
)

// ============================================================================
// PERFORMANCE SCORING
// ============================================================================

// Score weights. Verification dominates: code that does not pass checks
// is barely worth anything regardless of how fast or cheap it was.
const (
	weightVerification = 0.4
	weightConfidence   = 0.3
	weightEfficiency   = 0.2
	weightSpeed        = 0.1

	// referenceCost is the per-task cost at which the efficiency
	// component bottoms out.
	referenceCost = 0.10

	// referenceDuration is the task duration at which the speed
	// component bottoms out toward zero.
	referenceDuration = 5 * time.Second
)

// Score computes the 0.0-1.0 composite performance score for one task
// outcome. Components: verification result, model confidence, cost
// efficiency, and speed.
func Score(out Outcome, duration time.Duration) float64 {
	score := 0.0
	if out.VerificationPassed {
		score += weightVerification
	}
	score += util.Clamp01(out.Confidence) * weightConfidence
	score += efficiencyScore(out.Cost) * weightEfficiency
	score += speedScore(duration) * weightSpeed
	return util.Clamp01(score)
}

// efficiencyScore maps cost to 0.0-1.0: free tasks score 1.0, tasks at
// or beyond the reference cost score 0.0.
func efficiencyScore(cost float64) float64 {
	if cost <= 0 {
		return 1.0
	}
	return util.Clamp01(1.0 - cost/referenceCost)
}

// speedScore maps duration to 0.0-1.0: instant tasks score 1.0, tasks
// at the reference duration score 0.5, and the score decays beyond it.
func speedScore(d time.Duration) float64 {
	if d <= 0 {
		return 1.0
	}
	return util.Clamp01(float64(referenceDuration) / float64(referenceDuration+d))
}
