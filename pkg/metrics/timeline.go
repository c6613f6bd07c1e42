package metrics

import (
	"math"

	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

const (
	// referenceMargin is added to each dimension of the run-global
	// reference point so that front extremes keep nonzero dominated volume.
	referenceMargin = 0.1

	// sparsityCap replaces the unbounded-diversity sentinel in timelines so
	// downstream numeric consumers (charts, CSV) stay well-formed. The
	// semantic "maximally diverse front" lives in the docs, not the number.
	sparsityCap = 100.0
)

// TimelineEntry is the per-round quality record of a run.
type TimelineEntry struct {
	Round       int
	Hypervolume float64
	Sparsity    float64
	ParetoSize  int
}

// Timeline is the per-round quality metrics of one run, in round order, one
// entry per round.
type Timeline []TimelineEntry

// ReferencePoint builds the reference point shared by every round of the
// run: the componentwise maximum over the union of all rounds' front
// objectives, plus a fixed margin. Hypervolume values across rounds of the
// same run are only comparable against a single reference point, so this is
// computed once per run and never per round.
//
// A run with no front solutions at all falls back to a fixed default.
func ReferencePoint(run results.Run) Point {
	ref := Point{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	seen := false
	for _, round := range run.Rounds {
		for _, s := range round.ParetoFront {
			p := Point{s.Cost, s.Disruption, s.Balance}
			for d := 0; d < NumObjectives; d++ {
				if p[d] > ref[d] {
					ref[d] = p[d]
				}
			}
			seen = true
		}
	}
	if !seen {
		return Point{1 + referenceMargin, 1 + referenceMargin, 1 + referenceMargin}
	}
	for d := 0; d < NumObjectives; d++ {
		ref[d] += referenceMargin
	}
	return ref
}

// BuildTimeline computes hypervolume and capped sparsity for every round of
// the run, against the run-global reference point. The output has exactly
// one entry per input round, in the same order.
func BuildTimeline(run results.Run, cfg HypervolumeConfig) Timeline {
	ref := ReferencePoint(run)
	timeline := make(Timeline, 0, len(run.Rounds))
	for _, round := range run.Rounds {
		front := ParetoFront(round)
		sparsity := EstimateSparsity(front)
		if math.IsInf(sparsity, 1) {
			sparsity = sparsityCap
		}
		timeline = append(timeline, TimelineEntry{
			Round:       round.Round,
			Hypervolume: EstimateHypervolume(front, ref, cfg),
			Sparsity:    sparsity,
			ParetoSize:  len(front),
		})
	}
	return timeline
}
