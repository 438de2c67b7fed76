package phase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRoundtrip(t *testing.T) {
	for _, p := range All() {
		parsed, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("Deployment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase")

	_, err = Parse("uat") // case matters
	assert.Error(t, err)
}

func TestJSONMapKeys(t *testing.T) {
	risks := RiskValues{Migration: 40, UAT: 10}

	data, err := json.Marshal(risks)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Migration":40`)

	var decoded RiskValues
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, risks, decoded)
}

func TestYAMLMapKeys(t *testing.T) {
	risks := RiskValues{E2E: 25}

	data, err := yaml.Marshal(risks)
	require.NoError(t, err)
	assert.Contains(t, string(data), "E2E: 25")

	var decoded RiskValues
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, risks, decoded)
}

func TestYAMLMarshalInvalidPhase(t *testing.T) {
	_, err := yaml.Marshal(Phase(9))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phase 9")
}

func TestCascadePredecessors(t *testing.T) {
	assert.Empty(t, UAT.CascadePredecessors())
	assert.Equal(t, []Phase{UAT}, Migration.CascadePredecessors())
	assert.Equal(t, []Phase{Migration}, E2E.CascadePredecessors())
	assert.Equal(t, []Phase{E2E}, Training.CascadePredecessors())
	// PRO runs on its own dates.
	assert.Empty(t, PRO.CascadePredecessors())
	assert.Equal(t, []Phase{Training, PRO}, Hypercare.CascadePredecessors())
}

func TestHealthPredecessor(t *testing.T) {
	_, ok := UAT.HealthPredecessor()
	assert.False(t, ok)

	for p, want := range map[Phase]Phase{
		Migration: UAT,
		E2E:       Migration,
		Training:  E2E,
		PRO:       E2E,
		Hypercare: E2E,
	} {
		pred, ok := p.HealthPredecessor()
		require.True(t, ok, p)
		assert.Equal(t, want, pred, p)
	}
}

func TestWeightsSumToNormalization(t *testing.T) {
	var sum float64
	for _, p := range All() {
		sum += p.Weight()
	}
	assert.InDelta(t, 1.20, sum, 1e-9) // plus intercept 1.00 = 2.20
}

func TestRiskValuesValidate(t *testing.T) {
	assert.NoError(t, RiskValues{}.Validate())
	assert.NoError(t, RiskValues{Migration: 0, PRO: 100}.Validate())
	assert.Error(t, RiskValues{Migration: -1}.Validate())
	assert.Error(t, RiskValues{Migration: 101}.Validate())
}

func TestRiskValuesSum(t *testing.T) {
	assert.Zero(t, RiskValues{}.Sum())
	assert.InDelta(t, 75, RiskValues{UAT: 25, Migration: 50}.Sum(), 1e-9)
}
