package metrics_test

import (
	"math"
	"testing"

	"sigs.k8s.io/descheduler-analysis/pkg/metrics"
)

func TestEstimateSparsity(t *testing.T) {
	scenarios := []struct {
		name        string
		front       []metrics.Point
		expected    float64
		unbounded   bool
		description string
	}{
		{
			name:        "EmptyFront",
			front:       nil,
			unbounded:   true,
			description: "No solutions means unbounded diversity",
		},
		{
			name:        "SingleSolution",
			front:       []metrics.Point{{0.5, 0.5, 0.5}},
			unbounded:   true,
			description: "A single solution is a boundary in every dimension",
		},
		{
			name:        "TwoSolutions",
			front:       []metrics.Point{{0.1, 0.9, 0.5}, {0.9, 0.1, 0.5}},
			unbounded:   true,
			description: "Two solutions are both boundaries",
		},
		{
			name: "EvenlySpacedLine",
			front: []metrics.Point{
				{0, 0, 0},
				{1.0 / 3, 1.0 / 3, 1.0 / 3},
				{2.0 / 3, 2.0 / 3, 2.0 / 3},
				{1, 1, 1},
			},
			expected: 2.0,
			description: "Interior solutions on an evenly spaced line accumulate (next-prev)/range = 2/3 per dimension," +
				" summing to 2 over three dimensions",
		},
		{
			name: "ZeroRangeDimension",
			front: []metrics.Point{
				{0, 0, 0},
				{0.5, 0.5, 0},
				{1, 1, 0},
			},
			expected: 2.0,
			description: "A dimension shared by every solution contributes exactly 0; the interior solution" +
				" collects 1.0 from each of the two remaining dimensions",
		},
		{
			name: "AllBoundaries",
			front: []metrics.Point{
				{0, 1, 0.5},
				{0.5, 0, 1},
				{1, 0.5, 0},
			},
			unbounded: true,
			description: "Every solution is a boundary in some dimension, so no finite distance exists" +
				" and the sentinel comes back",
		},
	}

	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			got := metrics.EstimateSparsity(tt.front)
			if tt.unbounded {
				if !math.IsInf(got, 1) {
					t.Fatalf("%s: got %v, want the +Inf sentinel", tt.description, got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("%s: got %v, want %v", tt.description, got, tt.expected)
			}
		})
	}
}

func TestEstimateSparsityDoesNotReorderInput(t *testing.T) {
	front := []metrics.Point{
		{0.9, 0.1, 0.3},
		{0.1, 0.9, 0.5},
		{0.5, 0.5, 0.1},
		{0.3, 0.3, 0.9},
	}
	original := append([]metrics.Point{}, front...)

	metrics.EstimateSparsity(front)

	for i := range front {
		if front[i] != original[i] {
			t.Fatalf("input front mutated at %d: got %v, want %v", i, front[i], original[i])
		}
	}
}
