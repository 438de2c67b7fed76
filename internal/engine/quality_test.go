package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/golive-cli/internal/phase"
)

func fullFractions() Fractions {
	f := make(Fractions, phase.Count)
	for _, p := range phase.All() {
		f[p] = 1
	}
	return f
}

func TestQualityBounds(t *testing.T) {
	assert.InDelta(t, 100, Quality(fullFractions(), nil), 1e-9)

	// Everything at zero still scores the intercept share.
	assert.InDelta(t, QualityFloor(), Quality(Fractions{}, nil), 1e-9)
	assert.InDelta(t, 100.0/2.20, QualityFloor(), 1e-6)
}

func TestQualityMigrationBlocksDownstream(t *testing.T) {
	f := fullFractions()
	f[phase.Migration] = 0.5

	// E2E and Training are throttled to 0.5*0.6 = 0.30 each.
	want := (1.00 + 0.25*1 + 0.40*0.5 + 0.20*0.30 + 0.15*0.30 + 0.10*1 + 0.10*1) / 2.20 * 100
	assert.InDelta(t, want, Quality(f, nil), 1e-9)

	// Migration at zero silences E2E and Training entirely.
	f[phase.Migration] = 0
	want = (1.00 + 0.25*1 + 0.10*1 + 0.10*1) / 2.20 * 100
	assert.InDelta(t, want, Quality(f, nil), 1e-9)
}

func TestQualityCompleteMigrationDoesNotBlock(t *testing.T) {
	f := fullFractions()
	f[phase.E2E] = 0.8

	want := (1.00 + 0.25 + 0.40 + 0.20*0.8 + 0.15 + 0.10 + 0.10) / 2.20 * 100
	assert.InDelta(t, want, Quality(f, nil), 1e-9)
}

func TestQualityRiskDegradation(t *testing.T) {
	f := fullFractions()

	// 50% Migration risk degrades its fraction by 0.25*0.40 = 0.10.
	risks := phase.RiskValues{phase.Migration: 50}
	got := Quality(f, risks)
	assert.Less(t, got, 100.0)

	// Nil risks leave fractions untouched.
	assert.InDelta(t, 100, Quality(f, nil), 1e-9)
}

func TestQualityClampsInputs(t *testing.T) {
	f := fullFractions()
	f[phase.UAT] = 1.7
	f[phase.PRO] = -0.4

	want := (1.00 + 0.25*1 + 0.40 + 0.20 + 0.15 + 0.10*0 + 0.10) / 2.20 * 100
	assert.InDelta(t, want, Quality(f, nil), 1e-9)
}

func TestQualityMonotonicInMigration(t *testing.T) {
	prev := -1.0
	for mig := 0.0; mig <= 1.0; mig += 0.05 {
		f := fullFractions()
		f[phase.Migration] = mig
		got := Quality(f, nil)
		assert.Greater(t, got, prev)
		prev = got
	}
}
