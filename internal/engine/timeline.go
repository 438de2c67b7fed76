package engine

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/internal/phase"
)

// forwardBufferDays extends the daily series beyond the last phase end so
// "first date reaching quality X" queries can look past the nominal
// horizon.
const forwardBufferDays = 180

// PhaseMetrics holds the per-phase values for one evaluation date. All
// fields are percentages in [0,100] except QualityLoss, which is the
// weighted quality contribution lost to degraded health, in points.
type PhaseMetrics struct {
	Completion  float64 `json:"completion"`
	Health      float64 `json:"health"`
	Effective   float64 `json:"effective"`
	QualityLoss float64 `json:"quality_loss"`
}

// Point is one date in the timeline series.
type Point struct {
	Date         time.Time                    `json:"date"`
	Phases       map[phase.Phase]PhaseMetrics `json:"phases"`
	TotalQuality float64                      `json:"total_quality"`
}

// Result is the full output of a timeline build. It is recomputed from
// scratch on every input change; quality at any date depends on cascaded
// dates derived from all upstream phases, so nothing is patched in place.
type Result struct {
	Points    []Point                   `json:"points"`
	Delays    map[phase.Phase]int       `json:"delays"`
	EndDates  map[phase.Phase]time.Time `json:"end_dates"`
	Effective phase.Windows             `json:"effective"`
	Health    map[phase.Phase]float64   `json:"health"`
}

// BuildTimeline walks the phase dependency graph, shifts each phase's
// effective window behind its predecessors, and evaluates completion,
// health, and quality for every day of the project horizon.
//
// On any malformed input (missing phase, out-of-range risk) it returns a
// nil result and an error rather than a partial series, so callers can
// degrade gracefully.
func BuildTimeline(scenario, baseline phase.Windows, risks phase.RiskValues) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: scenario windows")
	}
	if err := baseline.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: baseline windows")
	}
	if risks == nil {
		risks = phase.RiskValues{}
	}
	if err := risks.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: risk values")
	}

	scenario = scenario.Normalized()
	baseline = baseline.Normalized()

	effective := cascade(scenario)
	delays := measureDelays(effective, baseline)
	health := propagateHealth(delays, risks)

	rangeStart, rangeEnd := horizon(effective, baseline)

	var points []Point
	for d := rangeStart; !d.After(rangeEnd); d = d.AddDate(0, 0, 1) {
		point := Point{Date: d, Phases: make(map[phase.Phase]PhaseMetrics, phase.Count)}
		fractions := make(Fractions, phase.Count)

		for _, p := range phase.All() {
			w := effective[p]
			completion := CompletionPct(w.Start, w.End, d, baseline[p].Days())
			h := health[p]

			point.Phases[p] = PhaseMetrics{
				Completion:  completion,
				Health:      h * 100,
				Effective:   completion * h,
				QualityLoss: completion / 100 * p.Weight() * (1 - h) * 100,
			}
			fractions[p] = completion / 100 * h
		}

		point.TotalQuality = Quality(fractions, nil)
		points = append(points, point)
	}

	endDates := make(map[phase.Phase]time.Time, phase.Count)
	for _, p := range phase.All() {
		endDates[p] = effective[p].End
	}

	zap.L().Debug("engine: timeline built",
		zap.Int("days", len(points)),
		zap.Time("from", rangeStart),
		zap.Time("to", rangeEnd),
	)

	return &Result{
		Points:    points,
		Delays:    delays,
		EndDates:  endDates,
		Effective: effective,
		Health:    health,
	}, nil
}

// cascade computes each phase's effective window: its start is pushed to no
// earlier than the day after its latest predecessor's effective end, and
// its intended duration is preserved. PRO has no cascade predecessors; it
// runs on its own slider dates.
func cascade(scenario phase.Windows) phase.Windows {
	effective := scenario.Clone()

	for _, p := range phase.All() {
		preds := p.CascadePredecessors()
		if len(preds) == 0 {
			continue
		}

		gate := time.Time{}
		for _, pred := range preds {
			if end := effective[pred].End; end.After(gate) {
				gate = end
			}
		}

		intended := scenario[p]
		start := intended.Start
		if earliest := gate.AddDate(0, 0, 1); earliest.After(start) {
			start = earliest
		}
		effective[p] = phase.Window{
			Start: start,
			End:   start.AddDate(0, 0, intended.Days()),
		}
	}

	return effective
}

// measureDelays records each phase's slip against its own baseline end.
// Delay measures slip relative to the original plan, not the shifted plan,
// and is never negative: finishing early is not a (negative) delay.
func measureDelays(effective, baseline phase.Windows) map[phase.Phase]int {
	delays := make(map[phase.Phase]int, phase.Count)
	for _, p := range phase.All() {
		d := phase.DaysBetween(baseline[p].End, effective[p].End)
		if d < 0 {
			d = 0
		}
		delays[p] = d
	}
	return delays
}

// propagateHealth evaluates phase health in dependency order. Health does
// not vary by evaluation date: it is a function of delays and risks only.
func propagateHealth(delays map[phase.Phase]int, risks phase.RiskValues) map[phase.Phase]float64 {
	accumulated := make(map[phase.Phase]int, phase.Count)
	for p, d := range delays {
		if d > 0 {
			accumulated[p] = d
		}
	}

	health := make(map[phase.Phase]float64, phase.Count)
	for _, p := range phase.All() {
		predHealth := 1.0
		if pred, ok := p.HealthPredecessor(); ok {
			predHealth = health[pred]
		}
		health[p] = PhaseHealth(p, delays[p], predHealth, risks[p], accumulated)
	}
	return health
}

// horizon returns the daily evaluation range: from the earliest start in
// either plan to the latest end plus the forward buffer.
func horizon(effective, baseline phase.Windows) (time.Time, time.Time) {
	var start, end time.Time
	for _, ws := range []phase.Windows{effective, baseline} {
		for _, w := range ws {
			if start.IsZero() || w.Start.Before(start) {
				start = w.Start
			}
			if w.End.After(end) {
				end = w.End
			}
		}
	}
	return start, end.AddDate(0, 0, forwardBufferDays)
}

// QualityAt returns the quality value on the given date, linearly
// interpolated between the surrounding daily points. Dates before the
// series start return the first value; dates after the end return the last.
func (r *Result) QualityAt(t time.Time) float64 {
	if len(r.Points) == 0 {
		return 0
	}
	t = phase.Midnight(t)

	first := r.Points[0]
	if !t.After(first.Date) {
		return first.TotalQuality
	}
	last := r.Points[len(r.Points)-1]
	if !t.Before(last.Date) {
		return last.TotalQuality
	}

	idx := phase.DaysBetween(first.Date, t)
	if idx >= 0 && idx < len(r.Points) && r.Points[idx].Date.Equal(t) {
		return r.Points[idx].TotalQuality
	}

	// Fallback scan for irregular series.
	for i := 1; i < len(r.Points); i++ {
		if !r.Points[i].Date.Before(t) {
			prev, next := r.Points[i-1], r.Points[i]
			span := next.Date.Sub(prev.Date).Hours()
			if span == 0 {
				return next.TotalQuality
			}
			frac := t.Sub(prev.Date).Hours() / span
			return prev.TotalQuality + (next.TotalQuality-prev.TotalQuality)*frac
		}
	}
	return last.TotalQuality
}

// FirstDateReaching returns the earliest date on which quality meets or
// exceeds target, and false if the series never reaches it.
func (r *Result) FirstDateReaching(target float64) (time.Time, bool) {
	for _, pt := range r.Points {
		if pt.TotalQuality >= target {
			return pt.Date, true
		}
	}
	return time.Time{}, false
}

// MaxDelay returns the largest per-phase delay in days.
func (r *Result) MaxDelay() int {
	var max int
	for _, d := range r.Delays {
		if d > max {
			max = d
		}
	}
	return max
}

// MainRisk identifies the phase with the lowest health and classifies its
// severity. It is a diagnostic string for reports, not a model input.
func (r *Result) MainRisk() (phase.Phase, float64) {
	worst := phase.UAT
	worstHealth := 2.0
	for _, p := range phase.All() {
		if h := r.Health[p]; h < worstHealth {
			worst, worstHealth = p, h
		}
	}
	return worst, worstHealth * 100
}
