package metrics

import (
	"math"
	"sort"
)

// EstimateSparsity scores how evenly a front's solutions are spread across
// the objective space, as the mean NSGA-II crowding distance over solutions
// with finite distance. Larger means more diverse.
//
// Fronts of two or fewer solutions have unbounded diversity and return
// +Inf, the same sentinel boundary solutions carry inside the crowding
// computation. Callers that need a finite value cap it (see BuildTimeline).
func EstimateSparsity(front []Point) float64 {
	if len(front) <= 2 {
		return math.Inf(1)
	}

	type entry struct {
		point    Point
		distance float64
	}
	entries := make([]*entry, len(front))
	for i, p := range front {
		entries[i] = &entry{point: p}
	}

	for d := 0; d < NumObjectives; d++ {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].point[d] < entries[j].point[d]
		})

		entries[0].distance = math.Inf(1)
		entries[len(entries)-1].distance = math.Inf(1)

		objectiveRange := entries[len(entries)-1].point[d] - entries[0].point[d]
		if objectiveRange == 0 {
			// Degenerate dimension: every solution shares the value, so it
			// contributes nothing rather than dividing by zero.
			continue
		}

		for i := 1; i < len(entries)-1; i++ {
			entries[i].distance += (entries[i+1].point[d] - entries[i-1].point[d]) / objectiveRange
		}
	}

	sum := 0.0
	finite := 0
	for _, e := range entries {
		if math.IsInf(e.distance, 1) {
			continue
		}
		sum += e.distance
		finite++
	}
	if finite == 0 {
		// Boundary roles covered the whole front across the three
		// dimensions; the front is maximally diverse.
		return math.Inf(1)
	}
	return sum / float64(finite)
}
