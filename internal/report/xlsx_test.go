package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/scenario"
)

func TestWriteXLSX(t *testing.T) {
	sc := scenario.New("workbook", phase.DefaultBaseline(), nil)
	snap, err := Build(sc, testCost, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	timeline, err := engine.BuildTimeline(sc.Windows, sc.Baseline, sc.Risks)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, snap, timeline))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "Scenario", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "workbook", summary.Rows[0].Cells[1].String())

	phases, ok := f.Sheet["Phases"]
	require.True(t, ok)
	// Header plus one row per phase.
	assert.Len(t, phases.Rows, phase.Count+1)
	assert.Equal(t, "UAT", phases.Rows[1].Cells[0].String())

	tl, ok := f.Sheet["Timeline"]
	require.True(t, ok)
	assert.Len(t, tl.Rows, len(timeline.Points)+1)
}

func TestWriteXLSXWithoutTimeline(t *testing.T) {
	sc := scenario.New("no-series", phase.DefaultBaseline(), nil)
	snap, err := Build(sc, testCost, time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, snap, nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	_, ok := f.Sheet["Timeline"]
	assert.False(t, ok)
}
