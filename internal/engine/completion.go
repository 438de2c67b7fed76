// Package engine implements the phase-timeline and quality-propagation
// model: linear phase completion with a baseline-duration ceiling,
// multiplicative phase health, the Migration-critical weighted quality
// model, and the delay cascade that builds the daily quality series.
package engine

import (
	"math"
	"time"

	"github.com/sells-group/golive-cli/internal/phase"
)

// CompletionPct returns the completion percentage in [0,100] of a phase
// running from start to end, evaluated at eval. All dates are truncated to
// UTC midnight before arithmetic.
//
// baselineDays, when positive, is the planned duration of the phase. Once
// the actual duration exceeds it, completion is permanently capped at
// baselineDays/actualDays*100: a phase that overran its plan never reports
// full completion relative to the original bar. Pass 0 to disable the cap.
func CompletionPct(start, end, eval time.Time, baselineDays int) float64 {
	start = phase.Midnight(start)
	end = phase.Midnight(end)
	eval = phase.Midnight(eval)

	if eval.Before(start) {
		return 0
	}

	actual := phase.DaysBetween(start, end)
	if actual <= 0 {
		// Zero or inverted window: degenerate, always complete.
		return 100
	}

	var pct float64
	if eval.Before(end) {
		elapsed := phase.DaysBetween(start, eval)
		pct = float64(elapsed) / float64(actual) * 100
	} else {
		pct = 100
	}

	// The ceiling applies in every branch so completion stays monotonic and
	// never exceeds the cap once the phase has overrun its baseline.
	if baselineDays > 0 && actual > baselineDays {
		ceiling := float64(baselineDays) / float64(actual) * 100
		pct = math.Min(pct, ceiling)
	}

	return clamp(pct, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
