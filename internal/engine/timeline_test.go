package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/golive-cli/internal/phase"
)

func TestBuildTimelineOnPlan(t *testing.T) {
	baseline := phase.DefaultBaseline()

	result, err := BuildTimeline(baseline, baseline, nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	for _, p := range phase.All() {
		assert.Zero(t, result.Delays[p], p)
		assert.InDelta(t, 1.0, result.Health[p], 1e-9, p)
		assert.True(t, baseline[p].End.Equal(result.EndDates[p]), p)
	}

	assert.Zero(t, result.MaxDelay())

	// Quality reaches 100 exactly when the last phase completes.
	reached, ok := result.FirstDateReaching(99.9)
	require.True(t, ok)
	assert.True(t, baseline[phase.Hypercare].End.Equal(reached))
	assert.InDelta(t, 100, result.QualityAt(reached), 1e-6)

	// The series starts at the earliest phase start and carries a forward
	// buffer past the last end.
	require.NotEmpty(t, result.Points)
	assert.True(t, baseline[phase.UAT].Start.Equal(result.Points[0].Date))
	lastDate := result.Points[len(result.Points)-1].Date
	assert.True(t, lastDate.After(baseline[phase.Hypercare].End.AddDate(0, 0, 100)))
}

func TestBuildTimelineMigrationSlipCascades(t *testing.T) {
	baseline := phase.DefaultBaseline()
	scenario := baseline.Clone()
	scenario[phase.Migration] = phase.Window{
		Start: scenario[phase.Migration].Start,
		End:   scenario[phase.Migration].End.AddDate(0, 0, 10),
	}

	result, err := BuildTimeline(scenario, baseline, nil)
	require.NoError(t, err)

	// Durations are preserved while starts are pushed behind the slip.
	assert.True(t, date(2025, 9, 11).Equal(result.Effective[phase.E2E].Start))
	assert.True(t, date(2025, 10, 10).Equal(result.Effective[phase.E2E].End))
	assert.True(t, date(2025, 11, 10).Equal(result.Effective[phase.Training].End))
	assert.True(t, date(2025, 11, 11).Equal(result.Effective[phase.Hypercare].Start))
	assert.True(t, date(2025, 12, 11).Equal(result.Effective[phase.Hypercare].End))

	// PRO keeps its own dates regardless of upstream slips.
	assert.True(t, baseline[phase.PRO].End.Equal(result.Effective[phase.PRO].End))

	wantDelays := map[phase.Phase]int{
		phase.UAT:       0,
		phase.Migration: 10,
		phase.E2E:       10,
		phase.Training:  10,
		phase.PRO:       0,
		phase.Hypercare: 8,
	}
	assert.Equal(t, wantDelays, result.Delays)
	assert.Equal(t, 10, result.MaxDelay())

	// Every phase absorbs the four accumulated slips: each evaluates to
	// 0.912 of its predecessor, so health decays down the dependency chain.
	assert.InDelta(t, 0.912, result.Health[phase.UAT], 1e-9)
	assert.InDelta(t, 0.831744, result.Health[phase.Migration], 1e-9)
	assert.InDelta(t, 0.758551, result.Health[phase.E2E], 1e-6)
	assert.InDelta(t, 0.691798, result.Health[phase.Hypercare], 1e-6)

	worst, worstHealth := result.MainRisk()
	assert.NotContains(t, []phase.Phase{phase.UAT, phase.Migration, phase.E2E}, worst)
	assert.InDelta(t, 69.18, worstHealth, 0.01)

	// Degraded health keeps quality short of the on-plan ceiling.
	end := result.Effective[phase.Hypercare].End
	assert.Less(t, result.QualityAt(end), 100.0)
	assert.Greater(t, result.QualityAt(end), QualityFloor())
}

func TestBuildTimelineRiskLowersHealth(t *testing.T) {
	baseline := phase.DefaultBaseline()

	result, err := BuildTimeline(baseline, baseline, phase.RiskValues{phase.Migration: 50})
	require.NoError(t, err)

	// 50% risk: quadratic impact of 0.25*0.40 on Migration, inherited by
	// everything downstream of it.
	assert.InDelta(t, 1.0, result.Health[phase.UAT], 1e-9)
	assert.InDelta(t, 0.90, result.Health[phase.Migration], 1e-9)
	assert.InDelta(t, 0.90, result.Health[phase.E2E], 1e-9)
}

func TestBuildTimelineRejectsBadInput(t *testing.T) {
	baseline := phase.DefaultBaseline()

	incomplete := baseline.Clone()
	delete(incomplete, phase.PRO)
	result, err := BuildTimeline(incomplete, baseline, nil)
	require.Error(t, err)
	assert.Nil(t, result)

	result, err = BuildTimeline(baseline, incomplete, nil)
	require.Error(t, err)
	assert.Nil(t, result)

	result, err = BuildTimeline(baseline, baseline, phase.RiskValues{phase.UAT: 150})
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestQualityAtBoundaries(t *testing.T) {
	baseline := phase.DefaultBaseline()
	result, err := BuildTimeline(baseline, baseline, nil)
	require.NoError(t, err)

	first := result.Points[0]
	last := result.Points[len(result.Points)-1]

	assert.InDelta(t, first.TotalQuality, result.QualityAt(first.Date.AddDate(0, 0, -30)), 1e-9)
	assert.InDelta(t, last.TotalQuality, result.QualityAt(last.Date.AddDate(0, 0, 30)), 1e-9)

	// Mid-series lookups land on the matching daily point, timestamps and
	// all.
	mid := result.Points[40]
	assert.InDelta(t, mid.TotalQuality, result.QualityAt(mid.Date.Add(9*time.Hour)), 1e-9)
}

func TestFirstDateReachingUnreachable(t *testing.T) {
	baseline := phase.DefaultBaseline()
	result, err := BuildTimeline(baseline, baseline, phase.RiskValues{phase.Migration: 100})
	require.NoError(t, err)

	_, ok := result.FirstDateReaching(100)
	assert.False(t, ok)
}
