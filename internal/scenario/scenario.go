// Package scenario defines named parameter sets for the quality engine and
// their persistence. A scenario is an immutable record: the engine never
// owns or mutates it, callers pass copies of its fields into every
// computation.
package scenario

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/golive-cli/internal/phase"
)

// Scenario is one saved what-if plan: actual windows, the baseline they are
// measured against, per-phase risks, and the budget scalars used by the
// health score and cost model.
type Scenario struct {
	ID   string `json:"id" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`

	Windows  phase.Windows    `json:"windows" yaml:"windows"`
	Baseline phase.Windows    `json:"baseline" yaml:"baseline"`
	Risks    phase.RiskValues `json:"risks" yaml:"risks"`

	BudgetPctUsed float64 `json:"budget_pct_used" yaml:"budget_pct_used"`
	MonthlyCost   float64 `json:"monthly_cost" yaml:"monthly_cost"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

// New creates a scenario with a fresh ID and the default baseline filled in
// where the caller left fields empty.
func New(name string, windows phase.Windows, risks phase.RiskValues) *Scenario {
	if risks == nil {
		risks = phase.RiskValues{}
	}
	now := time.Now().UTC()
	return &Scenario{
		ID:        uuid.New().String(),
		Name:      name,
		Windows:   windows,
		Baseline:  phase.DefaultBaseline(),
		Risks:     risks,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the scenario is complete enough to feed the engine.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return eris.New("scenario: name is required")
	}
	if err := s.Windows.Validate(); err != nil {
		return eris.Wrapf(err, "scenario %q: windows", s.Name)
	}
	if err := s.Baseline.Validate(); err != nil {
		return eris.Wrapf(err, "scenario %q: baseline", s.Name)
	}
	if err := s.Risks.Validate(); err != nil {
		return eris.Wrapf(err, "scenario %q: risks", s.Name)
	}
	return nil
}

// LoadFile reads a scenario from a YAML file. A missing baseline defaults
// to the reference plan.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: read %s", path)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrapf(err, "scenario: parse %s", path)
	}
	if s.Baseline == nil {
		s.Baseline = phase.DefaultBaseline()
	}
	if s.Risks == nil {
		s.Risks = phase.RiskValues{}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteFile serializes the scenario to a YAML file.
func (s *Scenario) WriteFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return eris.Wrapf(err, "scenario: marshal %q", s.Name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "scenario: write %s", path)
	}
	return nil
}
