package phase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidnight(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "already midnight utc",
			in:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "afternoon truncates",
			in:   time.Date(2025, 8, 1, 15, 30, 45, 123, time.UTC),
			want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "local time converts to utc first",
			in:   time.Date(2025, 8, 1, 1, 0, 0, 0, madrid), // 2025-07-31 23:00 UTC
			want: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Midnight(tt.in)))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 30, DaysBetween(a, a.AddDate(0, 0, 30)))
	assert.Equal(t, -5, DaysBetween(a, a.AddDate(0, 0, -5)))
	// Timestamps are normalized before subtraction.
	assert.Equal(t, 1, DaysBetween(a.Add(23*time.Hour), a.AddDate(0, 0, 1).Add(1*time.Hour)))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-08-01", want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2025-08-01T14:22:05Z", want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2025-08-01 14:22:05", want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{in: "01/08/2025", want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{in: "not a date", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestWindowsValidate(t *testing.T) {
	assert.NoError(t, DefaultBaseline().Validate())

	incomplete := DefaultBaseline()
	delete(incomplete, PRO)
	err := incomplete.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRO")
}

func TestDefaultBaselineDurations(t *testing.T) {
	baseline := DefaultBaseline()

	wantDays := map[Phase]int{
		UAT:       23,
		Migration: 30,
		E2E:       29,
		Training:  30,
		PRO:       29,
		Hypercare: 30,
	}
	for p, want := range wantDays {
		assert.Equal(t, want, baseline[p].Days(), p)
	}

	assert.True(t, GoLiveDate().Equal(baseline[Hypercare].Start))
}

func TestWindowsCloneIsIndependent(t *testing.T) {
	original := DefaultBaseline()
	clone := original.Clone()

	clone[UAT] = Window{Start: GoLiveDate(), End: GoLiveDate()}
	assert.NotEqual(t, original[UAT], clone[UAT])
}
