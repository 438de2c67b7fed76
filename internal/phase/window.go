package phase

import (
	"time"

	"github.com/rotisserie/eris"
)

// Window is a phase interval. Start and End are interpreted as calendar
// dates; callers may supply timestamps, which are truncated to UTC midnight
// before any arithmetic. End == Start is a valid zero-duration window.
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Days returns the window duration in whole days.
func (w Window) Days() int {
	return DaysBetween(w.Start, w.End)
}

// Windows maps each phase to its interval for one plan (baseline or
// scenario).
type Windows map[Phase]Window

// Validate checks that all six phases are present. Inverted windows are not
// an error here: the completion calculator treats zero and negative
// durations as degenerate always-complete phases.
func (ws Windows) Validate() error {
	for _, p := range All() {
		if _, ok := ws[p]; !ok {
			return eris.Errorf("phase: missing window for %s", p)
		}
	}
	return nil
}

// Normalized returns a copy with every date truncated to UTC midnight.
func (ws Windows) Normalized() Windows {
	out := make(Windows, len(ws))
	for p, w := range ws {
		out[p] = Window{Start: Midnight(w.Start), End: Midnight(w.End)}
	}
	return out
}

// Clone returns a shallow copy, useful for per-draw perturbation.
func (ws Windows) Clone() Windows {
	out := make(Windows, len(ws))
	for p, w := range ws {
		out[p] = w
	}
	return out
}

// Midnight truncates a timestamp to 00:00 UTC of the same calendar date.
// Date-only values and full timestamps therefore compare consistently.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b after both are
// truncated to midnight.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "02/01/2006"}

// ParseDate parses a date string in any supported layout and normalizes it
// to UTC midnight. Unparseable input is an error; it is never silently
// substituted with the current time.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Midnight(t), nil
		}
	}
	return time.Time{}, eris.Errorf("phase: cannot normalize date %q", s)
}

// DefaultBaseline returns the reference plan calendar for the go-live
// project. Go-live is scheduled for 2025-11-03, the start of Hypercare.
func DefaultBaseline() Windows {
	return Windows{
		UAT:       {Start: date(2025, 7, 8), End: date(2025, 7, 31)},
		Migration: {Start: date(2025, 8, 1), End: date(2025, 8, 31)},
		E2E:       {Start: date(2025, 9, 1), End: date(2025, 9, 30)},
		Training:  {Start: date(2025, 10, 1), End: date(2025, 10, 31)},
		PRO:       {Start: date(2025, 10, 1), End: date(2025, 10, 30)},
		Hypercare: {Start: date(2025, 11, 3), End: date(2025, 12, 3)},
	}
}

// GoLiveDate is the planned cutover date in the default baseline.
func GoLiveDate() time.Time {
	return date(2025, 11, 3)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
