package engine

import (
	"github.com/sells-group/golive-cli/internal/phase"
)

const (
	// qualityIntercept is the model intercept: an untouched project still
	// scores intercept/normalization of the scale (~45.5%).
	qualityIntercept = 1.00

	// qualityNormalization is the intercept plus the sum of all phase
	// weights (1.00 + 0.25 + 0.40 + 0.20 + 0.15 + 0.10 + 0.10).
	qualityNormalization = 2.20

	// migrationBlockFactor throttles E2E and Training while Migration is
	// incomplete. An unfinished Migration caps downstream credit at 60% of
	// its own completion fraction.
	migrationBlockFactor = 0.6
)

// Fractions maps each phase to its effective completion fraction in [0,1],
// typically completion times health.
type Fractions map[phase.Phase]float64

// Quality combines per-phase fractions into a single 0-100 quality
// percentage using the Migration-critical weighted model.
//
// If Migration is incomplete, the E2E and Training fractions are throttled
// by migration*0.6 before weighting. If risks is non-nil, each fraction is
// additionally degraded by the phase's quadratic risk impact; this layers
// on top of the blocking rule and is meant for direct calls where risk has
// not already been folded into health.
func Quality(fractions Fractions, risks phase.RiskValues) float64 {
	adjusted := make(Fractions, len(fractions))
	for p, f := range fractions {
		adjusted[p] = clamp(f, 0, 1)
	}

	if mig := adjusted[phase.Migration]; mig < 1 {
		block := mig * migrationBlockFactor
		adjusted[phase.E2E] *= block
		adjusted[phase.Training] *= block
	}

	if risks != nil {
		for p, f := range adjusted {
			riskFraction := risks[p] / 100
			degradation := riskFraction * riskFraction * p.RiskImpactFactor()
			adjusted[p] = clamp(f*(1-degradation), 0, 1)
		}
	}

	value := qualityIntercept
	for _, p := range phase.All() {
		value += p.Weight() * adjusted[p]
	}

	return clamp(value/qualityNormalization*100, 0, 100)
}

// QualityFloor is the score of a project with every phase at zero: the
// intercept share of the scale.
func QualityFloor() float64 {
	return qualityIntercept / qualityNormalization * 100
}
