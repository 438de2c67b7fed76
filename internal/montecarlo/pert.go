// Package montecarlo perturbs phase durations under a PERT distribution and
// re-runs the deterministic timeline engine per draw to build confidence
// bands for quality, duration, and cost.
package montecarlo

import (
	"math"
	"math/rand/v2"
)

// pertAlpha is the standard PERT shape parameter: the distribution
// concentrates around the most-likely value more than a triangular one.
const pertAlpha = 4

// pertSample draws one value from a PERT(min, mode, max) distribution.
// When min == max the distribution is degenerate and the mode is returned,
// which keeps zero-risk simulations fully deterministic.
func pertSample(rng *rand.Rand, min, mode, max float64) float64 {
	if max <= min {
		return mode
	}
	a := 1 + pertAlpha*(mode-min)/(max-min)
	b := 1 + pertAlpha*(max-mode)/(max-min)
	return min + betaSample(rng, a, b)*(max-min)
}

// betaSample draws from Beta(a, b) via two gamma variates.
func betaSample(rng *rand.Rand, a, b float64) float64 {
	x := gammaSample(rng, a)
	y := gammaSample(rng, b)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// gammaSample draws from Gamma(shape, 1) using the Marsaglia-Tsang method.
// PERT shapes are always >= 1, but the shape < 1 boost is kept so the
// sampler is total.
func gammaSample(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return gammaSample(rng, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
