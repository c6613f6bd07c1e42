// Package aggregate reduces many optimization runs into comparable
// statistics: best-ever objective values per run group, and per-run
// algorithm-versus-baseline comparison records.
package aggregate

import (
	"errors"
	"fmt"

	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// ErrInsufficientGroups signals that fewer than two distinct group keys were
// observed, so a cross-group comparison would be a one-point comparison. The
// partial summaries are still returned; the caller decides whether to
// proceed.
var ErrInsufficientGroups = errors.New("fewer than two distinct groups")

// KeyFunc derives a grouping key from a run.
type KeyFunc[K comparable] func(results.Run) K

// ByNodeCount groups runs by cluster size.
func ByNodeCount(run results.Run) int {
	return len(run.TestCase.Nodes)
}

// ByWeightProfile groups runs by their objective weight profile.
func ByWeightProfile(run results.Run) string {
	w := run.TestCase.WeightProfile
	return fmt.Sprintf("cost=%.2f/disruption=%.2f/balance=%.2f", w.Cost, w.Disruption, w.Balance)
}

// BestValue is a best-ever objective value with its provenance.
type BestValue struct {
	Value float64
	Round int // 1-based round the value was observed in
}

// BaselineSummary is the best result a baseline algorithm achieved within a
// group. Disruption stays optional: a structurally absent value is never the
// same thing as a measured zero.
type BaselineSummary struct {
	Algorithm       string
	Cost            float64
	Balance         float64
	Disruption      results.OptionalMetric
	WeightedScore   float64
	ExecutionTimeMs float64
}

// GroupSummary aggregates every run of one group.
type GroupSummary struct {
	Runs int

	// Best-ever values across every round of every run in the group. The
	// optimizer's reported final best can be worse than a transient best
	// from an earlier round, so all rounds are scanned, never just the last.
	BestCost       BestValue
	BestBalance    BestValue
	BestDisruption BestValue

	// ProposedTimeMs is the mean optimizer execution time across the
	// group's runs, for scalability comparison against the baselines.
	ProposedTimeMs float64

	// Baselines keyed by algorithm name.
	Baselines map[string]BaselineSummary
}

// Aggregate groups runs by key and extracts best-ever-achieved objective
// values per group. When fewer than two distinct keys are present the
// summaries are returned together with ErrInsufficientGroups.
func Aggregate[K comparable](runs []results.Run, key KeyFunc[K]) (map[K]GroupSummary, error) {
	groups := make(map[K]GroupSummary)
	for _, run := range runs {
		k := key(run)
		summary, ok := groups[k]
		if !ok {
			summary = GroupSummary{Baselines: make(map[string]BaselineSummary)}
		}
		accumulateRun(&summary, run)
		groups[k] = summary
	}

	if len(groups) < 2 {
		return groups, fmt.Errorf("%d group(s) from %d run(s): %w", len(groups), len(runs), ErrInsufficientGroups)
	}
	return groups, nil
}

func accumulateRun(summary *GroupSummary, run results.Run) {
	summary.Runs++
	// Incremental mean keeps the summary a plain value type.
	summary.ProposedTimeMs += (run.Comparison.Performance.ProposedTimeMs - summary.ProposedTimeMs) / float64(summary.Runs)

	// Round provenance is 1-based, so Round == 0 means "nothing seen yet".
	for _, round := range run.Rounds {
		best := round.BestSolution
		if summary.BestCost.Round == 0 || best.RawCost < summary.BestCost.Value {
			summary.BestCost = BestValue{Value: best.RawCost, Round: round.Round}
		}
		if summary.BestBalance.Round == 0 || best.RawBalance < summary.BestBalance.Value {
			summary.BestBalance = BestValue{Value: best.RawBalance, Round: round.Round}
		}
		if summary.BestDisruption.Round == 0 || best.Disruption < summary.BestDisruption.Value {
			summary.BestDisruption = BestValue{Value: best.Disruption, Round: round.Round}
		}
	}

	for _, b := range run.Baselines {
		current, ok := summary.Baselines[b.Algorithm]
		if ok && current.WeightedScore <= b.WeightedScore {
			continue
		}
		summary.Baselines[b.Algorithm] = BaselineSummary{
			Algorithm:       b.Algorithm,
			Cost:            b.RawCost,
			Balance:         b.RawBalance,
			Disruption:      b.Disruption,
			WeightedScore:   b.WeightedScore,
			ExecutionTimeMs: b.ExecutionTimeMs,
		}
	}
}
