package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/golive-cli/internal/healthscore"
	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/scenario"
)

var testCost = CostParams{
	TeamSize:       8,
	InternalRate:   4500,
	Consultants:    3,
	ConsultantRate: 12000,
	MonthlyBenefit: 95000,
}

func TestBuildOnPlanScenario(t *testing.T) {
	sc := scenario.New("on-plan", phase.DefaultBaseline(), nil)

	snap, err := Build(sc, testCost, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "on-plan", snap.Scenario)
	assert.InDelta(t, 100, snap.Quality, 0.5)
	assert.InDelta(t, snap.BaselineQuality, snap.Quality, 0.5)
	assert.Equal(t, 0, snap.DelayDays)
	assert.Equal(t, healthscore.StatusHealthy, snap.HealthStatus)
	assert.Len(t, snap.Phases, phase.Count)

	// 5 project months of blended burn, with overhead.
	monthly := testCost.MonthlyCost()
	assert.InDelta(t, monthly*5*overheadFactor, snap.EstimatedCost, monthly*overheadFactor)
	assert.Greater(t, snap.PaybackMonths, 0.0)
}

func TestBuildDelayedScenario(t *testing.T) {
	windows := phase.DefaultBaseline()
	w := windows[phase.Migration]
	windows[phase.Migration] = phase.Window{Start: w.Start, End: w.End.AddDate(0, 0, 20)}

	sc := scenario.New("migration-slip", windows, phase.RiskValues{phase.Migration: 50})
	sc.BudgetPctUsed = 130

	snap, err := Build(sc, testCost, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 20, snap.DelayDays)
	assert.Less(t, snap.Quality, snap.BaselineQuality)
	// The weakest phase sits downstream of the slipped migration.
	assert.NotEqual(t, "UAT", snap.MainRiskPhase)
	assert.Less(t, snap.MainRiskHealth, 60.0)
	assert.NotEqual(t, healthscore.StatusHealthy, snap.HealthStatus)

	var migration PhaseDiagnostic
	for _, d := range snap.Phases {
		if d.Phase == phase.Migration {
			migration = d
		}
	}
	assert.Equal(t, 20, migration.DelayDays)
	assert.Less(t, migration.Health, 100.0)
}

func TestBuildRejectsInvalidScenario(t *testing.T) {
	sc := scenario.New("broken", phase.Windows{}, nil)
	_, err := Build(sc, testCost, time.Now())
	require.Error(t, err)
}

func TestROIAndPayback(t *testing.T) {
	roi, payback := roiAndPayback(600000, 100000)
	assert.InDelta(t, 100, roi, 1e-9) // 1.2M annual benefit vs 600k cost
	assert.InDelta(t, 6, payback, 1e-9)

	roi, payback = roiAndPayback(0, 100000)
	assert.Zero(t, roi)
	assert.Zero(t, payback)

	roi, payback = roiAndPayback(500000, 0)
	assert.Zero(t, roi)
	assert.Zero(t, payback)
}

func TestEstimateCostFlooredAtZero(t *testing.T) {
	// Inverted windows collapse to zero project days.
	windows := phase.Windows{}
	for _, p := range phase.All() {
		windows[p] = phase.Window{
			Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	assert.Zero(t, estimateCost(windows, testCost))
}
