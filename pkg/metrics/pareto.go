// Package metrics computes Pareto front quality metrics (hypervolume and
// crowding-distance sparsity) for optimization runs and assembles them into
// per-round timelines.
package metrics

import (
	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// Point is a position in the normalized cost/disruption/balance objective
// space. All three objectives are minimized.
type Point [3]float64

// Objective space dimension indices.
const (
	DimCost       = 0
	DimDisruption = 1
	DimBalance    = 2
)

// NumObjectives is the dimensionality of the objective space.
const NumObjectives = 3

// ParetoFront extracts the objective triples of a round's Pareto front,
// preserving source order and length. An empty front yields an empty slice.
// No dominance filtering or re-sorting happens here; callers own those
// semantics.
func ParetoFront(round results.Round) []Point {
	front := make([]Point, len(round.ParetoFront))
	for i, s := range round.ParetoFront {
		front[i] = Point{s.Cost, s.Disruption, s.Balance}
	}
	return front
}

// dominatesPoint reports whether p is componentwise less than or equal to q.
// Non-strict on every axis: a sample exactly on a front point counts as
// dominated.
func dominatesPoint(p, q Point) bool {
	for i := 0; i < NumObjectives; i++ {
		if p[i] > q[i] {
			return false
		}
	}
	return true
}
