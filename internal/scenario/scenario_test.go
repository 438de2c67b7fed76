package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/golive-cli/internal/phase"
)

func TestNewFillsDefaults(t *testing.T) {
	s := New("baseline-plan", phase.DefaultBaseline(), nil)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "baseline-plan", s.Name)
	assert.NotNil(t, s.Risks)
	require.NoError(t, s.Validate())
	assert.Equal(t, phase.DefaultBaseline(), s.Baseline)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(s *Scenario) {},
		},
		{
			name:    "missing name",
			mutate:  func(s *Scenario) { s.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "missing phase window",
			mutate:  func(s *Scenario) { delete(s.Windows, phase.Hypercare) },
			wantErr: "windows",
		},
		{
			name:    "risk out of range",
			mutate:  func(s *Scenario) { s.Risks[phase.Migration] = 120 },
			wantErr: "risks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("plan", phase.DefaultBaseline(), phase.RiskValues{})
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestYAMLFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")

	original := New("aggressive", phase.DefaultBaseline(), phase.RiskValues{
		phase.Migration: 40,
		phase.UAT:       15,
	})
	original.BudgetPctUsed = 85
	original.MonthlyCost = 45000

	require.NoError(t, original.WriteFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, original.ID, loaded.ID)
	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.BudgetPctUsed, loaded.BudgetPctUsed)
	assert.Equal(t, original.MonthlyCost, loaded.MonthlyCost)
	assert.InDelta(t, 40, loaded.Risks[phase.Migration], 1e-9)
	assert.True(t, original.Windows[phase.E2E].Start.Equal(loaded.Windows[phase.E2E].Start))
	assert.True(t, original.Windows[phase.E2E].End.Equal(loaded.Windows[phase.E2E].End))
}

func TestLoadFileDefaultsBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")

	// Hand-written document without baseline or risks, to exercise the
	// defaults and the phase-name map keys.
	doc := `id: abc
name: minimal
windows:
  UAT: {start: 2025-07-08T00:00:00Z, end: 2025-07-31T00:00:00Z}
  Migration: {start: 2025-08-01T00:00:00Z, end: 2025-08-31T00:00:00Z}
  E2E: {start: 2025-09-01T00:00:00Z, end: 2025-09-30T00:00:00Z}
  Training: {start: 2025-10-01T00:00:00Z, end: 2025-10-31T00:00:00Z}
  PRO: {start: 2025-10-01T00:00:00Z, end: 2025-10-30T00:00:00Z}
  Hypercare: {start: 2025-11-03T00:00:00Z, end: 2025-12-03T00:00:00Z}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, phase.DefaultBaseline(), loaded.Baseline)
	assert.NotNil(t, loaded.Risks)
	assert.True(t, loaded.Windows[phase.Migration].Start.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")
}
