// Package phase defines the six go-live phases, their fixed dependency
// graph, and the per-phase sensitivity tables used by the quality engine.
package phase

import (
	"github.com/rotisserie/eris"
)

// Phase is one of the six stages of a go-live project. The declaration
// order encodes the dependency sequence:
// UAT -> Migration -> E2E -> {Training, PRO} -> Hypercare.
type Phase int

const (
	UAT Phase = iota
	Migration
	E2E
	Training
	PRO
	Hypercare
)

var names = [...]string{"UAT", "Migration", "E2E", "Training", "PRO", "Hypercare"}

// All returns the phases in dependency order.
func All() []Phase {
	return []Phase{UAT, Migration, E2E, Training, PRO, Hypercare}
}

// Count is the number of phases.
const Count = 6

func (p Phase) String() string {
	if p < UAT || p > Hypercare {
		return "Unknown"
	}
	return names[p]
}

// Parse converts a phase name into a Phase. Matching is exact; phase names
// are part of the scenario file format and case matters.
func Parse(s string) (Phase, error) {
	for i, n := range names {
		if n == s {
			return Phase(i), nil
		}
	}
	return 0, eris.Errorf("phase: unknown phase %q", s)
}

// MarshalText implements encoding.TextMarshaler so phases serialize as
// their names in JSON object keys and YAML documents.
func (p Phase) MarshalText() ([]byte, error) {
	if p < UAT || p > Hypercare {
		return nil, eris.Errorf("phase: cannot marshal invalid phase %d", int(p))
	}
	return []byte(names[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// CascadePredecessors returns the phases whose effective end gates p's
// earliest start. PRO returns none: it is a parallel environment-readiness
// track measured against its own baseline, not a data-dependent phase.
func (p Phase) CascadePredecessors() []Phase {
	switch p {
	case Migration:
		return []Phase{UAT}
	case E2E:
		return []Phase{Migration}
	case Training:
		return []Phase{E2E}
	case Hypercare:
		return []Phase{Training, PRO}
	default:
		return nil
	}
}

// HealthPredecessor returns the phase whose health multiplies into p's
// health, and false for UAT which starts the chain at 1.0. Training and PRO
// both inherit from E2E; Hypercare also inherits from E2E, the last phase
// on the data-critical path.
func (p Phase) HealthPredecessor() (Phase, bool) {
	switch p {
	case Migration:
		return UAT, true
	case E2E:
		return Migration, true
	case Training, PRO, Hypercare:
		return E2E, true
	default:
		return 0, false
	}
}

// Weight returns the phase's coefficient in the quality model. Together
// with the intercept of 1.00 the weights sum to the normalization constant
// 2.20; Migration carries the largest weight because it gates E2E and
// Training.
func (p Phase) Weight() float64 {
	return weights[p]
}

var weights = [Count]float64{
	UAT:       0.25,
	Migration: 0.40,
	E2E:       0.20,
	Training:  0.15,
	PRO:       0.10,
	Hypercare: 0.10,
}

// DelayImpactFactor returns the health erosion per day of delay, in percent.
func (p Phase) DelayImpactFactor() float64 {
	return delayImpactFactors[p]
}

var delayImpactFactors = [Count]float64{
	Migration: 0.40,
	E2E:       0.25,
	UAT:       0.20,
	PRO:       0.15,
	Training:  0.15,
	Hypercare: 0.10,
}

// RiskImpactFactor returns the phase's sensitivity to execution risk.
func (p Phase) RiskImpactFactor() float64 {
	return riskImpactFactors[p]
}

var riskImpactFactors = [Count]float64{
	Migration: 0.40,
	PRO:       0.35,
	UAT:       0.25,
	E2E:       0.20,
	Training:  0.20,
	Hypercare: 0.15,
}

// RiskValues maps each phase to an execution risk percentage in [0,100].
type RiskValues map[Phase]float64

// Sum returns the total risk percentage across all phases.
func (r RiskValues) Sum() float64 {
	var total float64
	for _, v := range r {
		total += v
	}
	return total
}

// Validate checks that every risk value is within [0,100].
func (r RiskValues) Validate() error {
	for p, v := range r {
		if v < 0 || v > 100 {
			return eris.Errorf("phase: risk for %s out of range [0,100]: %g", p, v)
		}
	}
	return nil
}
