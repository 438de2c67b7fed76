// Package report builds point-in-time project snapshots from engine output
// and delivers them as XLSX workbooks, FTP uploads, or Notion pages.
package report

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/healthscore"
	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/scenario"
)

// overheadFactor covers licences, infrastructure, and indirect costs on top
// of staff cost.
const overheadFactor = 1.2

// CostParams describes the project staffing and the benefit stream used for
// ROI and payback.
type CostParams struct {
	TeamSize       int     `json:"team_size" yaml:"team_size" mapstructure:"team_size"`
	InternalRate   float64 `json:"internal_rate" yaml:"internal_rate" mapstructure:"internal_rate"`
	Consultants    int     `json:"consultants" yaml:"consultants" mapstructure:"consultants"`
	ConsultantRate float64 `json:"consultant_rate" yaml:"consultant_rate" mapstructure:"consultant_rate"`
	MonthlyBenefit float64 `json:"monthly_benefit" yaml:"monthly_benefit" mapstructure:"monthly_benefit"`
}

// MonthlyCost is the blended monthly burn rate before overhead.
func (c CostParams) MonthlyCost() float64 {
	return float64(c.TeamSize)*c.InternalRate + float64(c.Consultants)*c.ConsultantRate
}

// PhaseDiagnostic is one phase's line in the snapshot.
type PhaseDiagnostic struct {
	Phase       phase.Phase `json:"phase"`
	Completion  float64     `json:"completion"`
	Health      float64     `json:"health"`
	DelayDays   int         `json:"delay_days"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	QualityLoss float64     `json:"quality_loss"`
}

// Snapshot is the full report payload for one scenario at one date.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Scenario    string    `json:"scenario"`
	AsOf        time.Time `json:"as_of"`

	Quality         float64 `json:"quality"`
	BaselineQuality float64 `json:"baseline_quality"`

	HealthScore  float64            `json:"health_score"`
	HealthStatus healthscore.Status `json:"health_status"`

	DelayDays      int     `json:"delay_days"`
	MainRiskPhase  string  `json:"main_risk_phase"`
	MainRiskHealth float64 `json:"main_risk_health"`

	EstimatedCost float64 `json:"estimated_cost"`
	ROIPct        float64 `json:"roi_pct"`
	PaybackMonths float64 `json:"payback_months"`

	Phases []PhaseDiagnostic `json:"phases"`
}

// Build evaluates the scenario against its baseline on asOf and assembles
// the snapshot. The baseline timeline is rebuilt to give the reader a
// reference quality value on the same date.
func Build(sc *scenario.Scenario, cost CostParams, asOf time.Time) (*Snapshot, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	asOf = phase.Midnight(asOf)

	result, err := engine.BuildTimeline(sc.Windows, sc.Baseline, sc.Risks)
	if err != nil {
		return nil, eris.Wrapf(err, "report: scenario %q", sc.Name)
	}
	reference, err := engine.BuildTimeline(sc.Baseline, sc.Baseline, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "report: baseline for %q", sc.Name)
	}

	quality := result.QualityAt(asOf)
	delay := result.MaxDelay()
	score := healthscore.Score(quality, delay, sc.BudgetPctUsed, sc.Risks.Sum())
	riskPhase, riskHealth := result.MainRisk()

	totalCost := estimateCost(result.Effective, cost)
	roi, payback := roiAndPayback(totalCost, cost.MonthlyBenefit)

	snap := &Snapshot{
		GeneratedAt:     time.Now().UTC(),
		Scenario:        sc.Name,
		AsOf:            asOf,
		Quality:         quality,
		BaselineQuality: reference.QualityAt(asOf),
		HealthScore:     score,
		HealthStatus:    healthscore.StatusFor(score),
		DelayDays:       delay,
		MainRiskPhase:   riskPhase.String(),
		MainRiskHealth:  riskHealth,
		EstimatedCost:   totalCost,
		ROIPct:          roi,
		PaybackMonths:   payback,
		Phases:          diagnostics(result, asOf),
	}

	zap.L().Info("report: snapshot built",
		zap.String("scenario", sc.Name),
		zap.Time("as_of", asOf),
		zap.Float64("quality", snap.Quality),
		zap.Float64("health_score", snap.HealthScore),
		zap.String("status", string(snap.HealthStatus)),
	)
	return snap, nil
}

// estimateCost prices the effective project span: full months of blended
// team cost plus overhead.
func estimateCost(effective phase.Windows, cost CostParams) float64 {
	var start, end time.Time
	for _, w := range effective {
		if start.IsZero() || w.Start.Before(start) {
			start = w.Start
		}
		if w.End.After(end) {
			end = w.End
		}
	}
	days := phase.DaysBetween(start, end)
	if days < 0 {
		days = 0
	}
	months := math.Ceil(float64(days) / 30)
	return cost.MonthlyCost() * months * overheadFactor
}

func roiAndPayback(totalCost, monthlyBenefit float64) (roiPct, paybackMonths float64) {
	if totalCost <= 0 || monthlyBenefit <= 0 {
		return 0, 0
	}
	annualBenefit := monthlyBenefit * 12
	roiPct = (annualBenefit - totalCost) / totalCost * 100
	paybackMonths = totalCost / monthlyBenefit
	return roiPct, paybackMonths
}

func diagnostics(result *engine.Result, asOf time.Time) []PhaseDiagnostic {
	// Pick the point at asOf, clamped to the series.
	point := result.Points[0]
	for _, pt := range result.Points {
		point = pt
		if !pt.Date.Before(asOf) {
			break
		}
	}

	out := make([]PhaseDiagnostic, 0, phase.Count)
	for _, p := range phase.All() {
		m := point.Phases[p]
		w := result.Effective[p]
		out = append(out, PhaseDiagnostic{
			Phase:       p,
			Completion:  m.Completion,
			Health:      m.Health,
			DelayDays:   result.Delays[p],
			Start:       w.Start,
			End:         w.End,
			QualityLoss: m.QualityLoss,
		})
	}
	return out
}
