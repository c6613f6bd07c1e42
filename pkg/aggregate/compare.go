package aggregate

import (
	"errors"
	"fmt"

	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// ErrUndefinedRatio signals a zero denominator in a derived ratio. The ratio
// is left marked undefined rather than guessed as 0 or +Inf.
var ErrUndefinedRatio = errors.New("ratio denominator is zero")

// ProposedName labels the optimizer's own record in comparison output.
const ProposedName = "NSGA-II (Proposed)"

// Record is one algorithm's result in a comparison. Cost and Balance are raw
// units for fair cross-algorithm comparison.
type Record struct {
	Algorithm       string
	Cost            float64
	Balance         float64
	Disruption      results.OptionalMetric
	WeightedScore   float64
	Movements       int
	Feasible        bool
	ExecutionTimeMs float64
}

// Ratio is a derived comparison ratio that may be undefined.
type Ratio struct {
	Value   float64
	Defined bool
}

// Comparison merges the optimizer's result with its baselines for one run.
// Records holds exactly 1+len(baselines) entries, the proposed algorithm
// first, then baselines in source order.
type Comparison struct {
	TestCase string
	Records  []Record

	// Improvement is bestBaselineWeightedScore / proposedWeightedScore;
	// above 1 means the proposed algorithm found a better solution.
	Improvement Ratio
	// Speedup is fastestBaselineExecutionTime / proposedExecutionTime.
	Speedup Ratio
}

// Reduce builds the comparison record set for one run. When a ratio
// denominator is zero the comparison is still returned, with the affected
// ratio marked undefined, alongside an error wrapping ErrUndefinedRatio.
func Reduce(run results.Run) (Comparison, error) {
	best := run.Comparison.ProposedBest
	cmp := Comparison{
		TestCase: run.TestCase.Name,
		Records:  make([]Record, 0, 1+len(run.Baselines)),
	}

	cmp.Records = append(cmp.Records, Record{
		Algorithm:       ProposedName,
		Cost:            best.RawCost,
		Balance:         best.RawBalance,
		Disruption:      results.Metric(best.Disruption),
		WeightedScore:   best.WeightedScore,
		Movements:       best.Movements,
		Feasible:        best.Feasible,
		ExecutionTimeMs: run.Comparison.Performance.ProposedTimeMs,
	})

	haveBaseline := false
	bestBaselineScore := 0.0
	fastestBaselineMs := 0.0
	for _, b := range run.Baselines {
		cmp.Records = append(cmp.Records, Record{
			Algorithm:       b.Algorithm,
			Cost:            b.RawCost,
			Balance:         b.RawBalance,
			Disruption:      b.Disruption,
			WeightedScore:   b.WeightedScore,
			Movements:       b.Movements,
			Feasible:        b.Feasible,
			ExecutionTimeMs: b.ExecutionTimeMs,
		})
		if !haveBaseline || b.WeightedScore < bestBaselineScore {
			bestBaselineScore = b.WeightedScore
		}
		if !haveBaseline || b.ExecutionTimeMs < fastestBaselineMs {
			fastestBaselineMs = b.ExecutionTimeMs
		}
		haveBaseline = true
	}

	// Without baselines there is nothing to derive ratios from; both stay
	// undefined and that is not an error.
	if !haveBaseline {
		return cmp, nil
	}

	var err error
	if best.WeightedScore == 0 {
		err = fmt.Errorf("improvement ratio for %q: %w", run.TestCase.Name, ErrUndefinedRatio)
	} else {
		cmp.Improvement = Ratio{Value: bestBaselineScore / best.WeightedScore, Defined: true}
	}
	if run.Comparison.Performance.ProposedTimeMs == 0 {
		err = errors.Join(err, fmt.Errorf("speedup ratio for %q: %w", run.TestCase.Name, ErrUndefinedRatio))
	} else {
		cmp.Speedup = Ratio{Value: fastestBaselineMs / run.Comparison.Performance.ProposedTimeMs, Defined: true}
	}
	return cmp, err
}
