package metrics

import (
	"golang.org/x/exp/rand"
)

// HypervolumeConfig controls the Monte-Carlo hypervolume estimator.
type HypervolumeConfig struct {
	// Samples is the number of uniform samples drawn per estimate.
	Samples int
	// Seed initializes the sampling source. Identical inputs and seed
	// produce identical estimates.
	Seed uint64
}

// DefaultHypervolumeConfig returns the estimator defaults.
func DefaultHypervolumeConfig() HypervolumeConfig {
	return HypervolumeConfig{
		Samples: 10000,
		Seed:    42,
	}
}

// EstimateHypervolume estimates the volume of objective space dominated by
// the front relative to the reference point. Fronts are small (tens of
// solutions) so a Monte-Carlo estimate at O(samples x |front|) is cheap, and
// a fixed seed makes it reproducible, which matters more here than exactness.
//
// The sampling box spans from the componentwise minimum of the front to the
// reference point. An empty front, or a box with zero width on any axis,
// yields 0.
func EstimateHypervolume(front []Point, ref Point, cfg HypervolumeConfig) float64 {
	rng := rand.New(rand.NewSource(cfg.Seed))
	return EstimateHypervolumeWith(rng, front, ref, cfg.Samples)
}

// EstimateHypervolumeWith runs the estimate with a caller-supplied generator.
// The generator is never shared process state, so concurrent estimates over
// independent runs stay deterministic.
func EstimateHypervolumeWith(rng *rand.Rand, front []Point, ref Point, samples int) float64 {
	if len(front) == 0 || samples <= 0 {
		return 0
	}

	low := front[0]
	for _, p := range front[1:] {
		for d := 0; d < NumObjectives; d++ {
			if p[d] < low[d] {
				low[d] = p[d]
			}
		}
	}

	volume := 1.0
	for d := 0; d < NumObjectives; d++ {
		width := ref[d] - low[d]
		if width <= 0 {
			return 0
		}
		volume *= width
	}

	dominated := 0
	for i := 0; i < samples; i++ {
		var sample Point
		for d := 0; d < NumObjectives; d++ {
			sample[d] = low[d] + rng.Float64()*(ref[d]-low[d])
		}
		for _, p := range front {
			if dominatesPoint(p, sample) {
				dominated++
				break
			}
		}
	}

	return float64(dominated) / float64(samples) * volume
}
