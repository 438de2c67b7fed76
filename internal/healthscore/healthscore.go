// Package healthscore rolls quality, schedule delay, budget usage, and
// aggregate risk into a single 0-100 project health indicator. It is a
// reporting aggregate only and never feeds back into the quality model.
package healthscore

import "math"

// Component weights. Quality dominates; budget and risk are tiebreakers.
const (
	qualityWeight = 0.70
	timeWeight    = 0.15
	budgetWeight  = 0.10
	riskWeight    = 0.05
)

// Normalization bounds.
const (
	// maxDelayDays is the delay at which the time component reaches zero.
	maxDelayDays = 90
	// maxRiskSum caps the summed risk percentages across categories.
	maxRiskSum = 300
)

// Status classifies a health score for reporting.
type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusHealthy  Status = "healthy"
)

// Thresholds between statuses.
const (
	CriticalBelow = 70.0
	WarningBelow  = 85.0
)

// Score combines the four inputs into a 0-100 health indicator.
//
// quality is the 0-100 output of the quality model. delayDays is the total
// schedule slip from baseline; 90 or more days floors the time component.
// budgetPctUsed is lenient: anything up to 100% scores full marks and the
// component only reaches zero at double budget. sumRisks is the sum of all
// risk percentages, capped at 300.
func Score(quality float64, delayDays int, budgetPctUsed float64, sumRisks float64) float64 {
	qNorm := math.Min(1, quality/100)
	tNorm := math.Max(0, 1-float64(delayDays)/maxDelayDays)

	bNorm := 1.0
	if budgetPctUsed > 100 {
		bNorm = math.Max(0, 1-(budgetPctUsed-100)/100)
	}

	rNorm := math.Max(0, 1-sumRisks/maxRiskSum)

	score := qualityWeight*qNorm + timeWeight*tNorm + budgetWeight*bNorm + riskWeight*rNorm
	return math.Max(0, math.Min(100, score*100))
}

// StatusFor classifies a score against the reporting thresholds.
func StatusFor(score float64) Status {
	switch {
	case score < CriticalBelow:
		return StatusCritical
	case score < WarningBelow:
		return StatusWarning
	default:
		return StatusHealthy
	}
}
