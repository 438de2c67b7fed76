package engine

import (
	"github.com/sells-group/golive-cli/internal/phase"
)

// PhaseHealth returns the health multiplier in [0,1] for a phase given its
// own delay, the health inherited from its predecessor, its execution risk
// percentage, and the delays already accumulated by other phases.
//
// Health is multiplicative down the dependency chain: a degraded
// predecessor degrades every downstream phase. Upstream delays keep eroding
// health through accumulated even after they have been absorbed into this
// phase's shifted start date.
func PhaseHealth(p phase.Phase, delayDays int, predecessorHealth float64, executionRisk float64, accumulated map[phase.Phase]int) float64 {
	directImpact := float64(delayDays) * p.DelayImpactFactor() / 100

	var accumulatedImpact float64
	for other, otherDelay := range accumulated {
		if other == p {
			// Own delay is already counted as the direct impact.
			continue
		}
		accumulatedImpact += float64(otherDelay) * other.DelayImpactFactor() / 100
	}

	// Quadratic in the risk fraction: low risk has a muted effect, high
	// risk degrades sharply.
	riskFraction := executionRisk / 100
	riskImpact := riskFraction * riskFraction * p.RiskImpactFactor()

	health := predecessorHealth * (1 - directImpact - accumulatedImpact - riskImpact)
	return clamp(health, 0, 1)
}
