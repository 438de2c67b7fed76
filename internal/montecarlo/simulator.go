package montecarlo

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/phase"
)

// Duration spread around the intended value, scaled by the phase's risk
// fraction: a phase at 100% risk varies between -15% and +30% of plan, a
// phase at 0% risk does not vary at all.
const (
	durationShrink  = 0.15
	durationStretch = 0.30
	costSpread      = 0.05
)

// Params configures a simulation run.
type Params struct {
	Scenario phase.Windows
	Baseline phase.Windows
	Risks    phase.RiskValues

	Draws   int
	Seed    int64
	Workers int

	// MonthlyCost is the project team burn rate used for the cost band.
	MonthlyCost float64
}

// Draw is the outcome of one simulation.
type Draw struct {
	Quality      float64 `json:"quality"`
	DurationDays float64 `json:"duration_days"`
	Cost         float64 `json:"cost"`
}

// Stats summarizes one metric across all draws.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
}

// Summary is the reduced output of a simulation run.
type Summary struct {
	Draws    int   `json:"draws"`
	Seed     int64 `json:"seed"`
	Quality  Stats `json:"quality"`
	Duration Stats `json:"duration"`
	Cost     Stats `json:"cost"`
}

// Run executes params.Draws independent simulations and reduces them to
// mean, standard deviation, and percentile bands.
//
// Draws are embarrassingly parallel: each derives its own PCG stream from
// (Seed, draw index), so results are reproducible for a fixed seed
// regardless of worker count or scheduling order.
func Run(ctx context.Context, params Params) (*Summary, error) {
	if params.Draws <= 0 {
		return nil, eris.New("montecarlo: draws must be positive")
	}
	if err := params.Scenario.Validate(); err != nil {
		return nil, eris.Wrap(err, "montecarlo: scenario windows")
	}
	if err := params.Baseline.Validate(); err != nil {
		return nil, eris.Wrap(err, "montecarlo: baseline windows")
	}
	if params.Risks == nil {
		params.Risks = phase.RiskValues{}
	}
	if err := params.Risks.Validate(); err != nil {
		return nil, eris.Wrap(err, "montecarlo: risk values")
	}

	workers := params.Workers
	if workers <= 0 {
		workers = 4
	}

	draws := make([]Draw, params.Draws)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < params.Draws; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := runDraw(params, i)
			if err != nil {
				return eris.Wrapf(err, "montecarlo: draw %d", i)
			}
			draws[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := reduce(draws)
	summary.Seed = params.Seed

	zap.L().Info("montecarlo: simulation complete",
		zap.Int("draws", params.Draws),
		zap.Int64("seed", params.Seed),
		zap.Float64("quality_mean", summary.Quality.Mean),
		zap.Float64("quality_std", summary.Quality.Std),
	)

	return summary, nil
}

// runDraw perturbs the scenario durations and rebuilds the full timeline.
func runDraw(params Params, index int) (Draw, error) {
	rng := rand.New(rand.NewPCG(uint64(params.Seed), uint64(index)))

	sim := params.Scenario.Clone()
	var maxRiskFraction float64

	for _, p := range phase.All() {
		w := sim[p]
		intended := float64(w.Days())
		riskFraction := params.Risks[p] / 100
		if riskFraction > maxRiskFraction {
			maxRiskFraction = riskFraction
		}

		low := intended * (1 - durationShrink*riskFraction)
		high := intended * (1 + durationStretch*riskFraction)
		duration := pertSample(rng, low, intended, high)

		sim[p] = phase.Window{
			Start: w.Start,
			End:   w.Start.AddDate(0, 0, int(math.Round(duration))),
		}
	}

	result, err := engine.BuildTimeline(sim, params.Baseline, params.Risks)
	if err != nil {
		return Draw{}, err
	}

	quality := result.Points[len(result.Points)-1].TotalQuality
	duration := projectDuration(result.Effective)

	// Cost noise is tied to risk so a risk-free project costs exactly plan.
	months := math.Ceil(duration / 30)
	noise := 1 + (rng.Float64()*2-1)*costSpread*maxRiskFraction
	cost := params.MonthlyCost * noise * months

	return Draw{Quality: quality, DurationDays: duration, Cost: cost}, nil
}

func projectDuration(ws phase.Windows) float64 {
	var start, end int64
	first := true
	for _, w := range ws {
		s, e := w.Start.Unix(), w.End.Unix()
		if first || s < start {
			start = s
		}
		if first || e > end {
			end = e
		}
		first = false
	}
	return float64(end-start) / 86400
}

func reduce(draws []Draw) *Summary {
	quality := make([]float64, len(draws))
	duration := make([]float64, len(draws))
	cost := make([]float64, len(draws))
	for i, d := range draws {
		quality[i] = d.Quality
		duration[i] = d.DurationDays
		cost[i] = d.Cost
	}
	return &Summary{
		Draws:    len(draws),
		Quality:  describe(quality),
		Duration: describe(duration),
		Cost:     describe(cost),
	}
}

func describe(values []float64) Stats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 0 {
		return Stats{}
	}

	// All draws identical: report the value itself with no spread. Summing
	// and re-dividing would leave a rounding-noise Std on deterministic runs.
	if sorted[0] == sorted[len(sorted)-1] {
		v := sorted[0]
		return Stats{Mean: v, P10: v, P50: v, P90: v}
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var variance float64
	if len(sorted) > 1 {
		for _, v := range sorted {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(sorted) - 1)
	}

	return Stats{
		Mean: mean,
		Std:  math.Sqrt(variance),
		P10:  percentile(sorted, 0.10),
		P50:  percentile(sorted, 0.50),
		P90:  percentile(sorted, 0.90),
	}
}

// percentile computes the linearly interpolated percentile of a sorted
// slice.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
