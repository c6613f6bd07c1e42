package report

import (
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sigs.k8s.io/descheduler-analysis/pkg/aggregate"
)

// comparisonCharts renders the per-run algorithm comparison: cost, balance,
// weighted score and execution time per algorithm, plus the derived
// improvement and speedup ratios. Undefined ratios are plotted as gaps,
// never as zero.
func comparisonCharts(comparisons []aggregate.Comparison) []components.Charter {
	algorithms := algorithmOrder(comparisons)

	cost := newBar("Cost Comparison", "Algorithm", "Total Cluster Cost ($/hour)")
	balance := newBar("Load Balance Comparison", "Algorithm", "Balance Std Dev (%)")
	weighted := newBar("Weighted Score Comparison (lower is better)", "Algorithm", "Weighted Objective Score")
	execTime := newBar("Execution Time Comparison", "Algorithm", "Execution Time (ms)")
	cost.SetXAxis(algorithms)
	balance.SetXAxis(algorithms)
	weighted.SetXAxis(algorithms)
	execTime.SetXAxis(algorithms)

	for _, cmp := range comparisons {
		byAlg := make(map[string]aggregate.Record, len(cmp.Records))
		for _, rec := range cmp.Records {
			byAlg[rec.Algorithm] = rec
		}
		costs := make([]opts.BarData, len(algorithms))
		balances := make([]opts.BarData, len(algorithms))
		scores := make([]opts.BarData, len(algorithms))
		times := make([]opts.BarData, len(algorithms))
		for i, alg := range algorithms {
			rec, ok := byAlg[alg]
			if !ok {
				costs[i] = opts.BarData{Value: nil}
				balances[i] = opts.BarData{Value: nil}
				scores[i] = opts.BarData{Value: nil}
				times[i] = opts.BarData{Value: nil}
				continue
			}
			costs[i] = opts.BarData{Value: rec.Cost}
			balances[i] = opts.BarData{Value: rec.Balance}
			scores[i] = opts.BarData{Value: rec.WeightedScore}
			times[i] = opts.BarData{Value: rec.ExecutionTimeMs}
		}
		cost.AddSeries(cmp.TestCase, costs)
		balance.AddSeries(cmp.TestCase, balances)
		weighted.AddSeries(cmp.TestCase, scores)
		execTime.AddSeries(cmp.TestCase, times)
	}

	ratios := newBar("Derived Ratios (above 1 favors the proposed algorithm)", "Test Case", "Ratio")
	cases := make([]string, len(comparisons))
	improvements := make([]opts.BarData, len(comparisons))
	speedups := make([]opts.BarData, len(comparisons))
	for i, cmp := range comparisons {
		cases[i] = cmp.TestCase
		improvements[i] = ratioBar(cmp.Improvement)
		speedups[i] = ratioBar(cmp.Speedup)
	}
	ratios.SetXAxis(cases)
	ratios.AddSeries("Improvement Ratio", improvements)
	ratios.AddSeries("Speedup Ratio", speedups)

	return []components.Charter{cost, balance, weighted, execTime, ratios}
}

func ratioBar(r aggregate.Ratio) opts.BarData {
	if !r.Defined {
		return opts.BarData{Value: nil}
	}
	return opts.BarData{Value: r.Value}
}

// algorithmOrder returns the union of algorithm names across comparisons,
// the proposed algorithm first, baselines in first-seen order.
func algorithmOrder(comparisons []aggregate.Comparison) []string {
	order := []string{aggregate.ProposedName}
	seen := map[string]bool{aggregate.ProposedName: true}
	for _, cmp := range comparisons {
		for _, rec := range cmp.Records {
			if !seen[rec.Algorithm] {
				seen[rec.Algorithm] = true
				order = append(order, rec.Algorithm)
			}
		}
	}
	return order
}

// clusterSizeCharts is the grouped comparison across cluster sizes: the
// best-ever values each algorithm achieved per node count, plus how
// execution time scales with cluster size.
func clusterSizeCharts(groups map[int]aggregate.GroupSummary) []components.Charter {
	sizes := make([]int, 0, len(groups))
	for size := range groups {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	axis := make([]string, len(sizes))
	for i, size := range sizes {
		axis[i] = strconv.Itoa(size)
	}

	baselineNames := map[string]bool{}
	for _, g := range groups {
		for name := range g.Baselines {
			baselineNames[name] = true
		}
	}
	baselines := make([]string, 0, len(baselineNames))
	for name := range baselineNames {
		baselines = append(baselines, name)
	}
	sort.Strings(baselines)

	cost := newBar("Best Cost by Cluster Size (lower is better)", "Number of Nodes", "Cost ($/hour)")
	balance := newBar("Best Balance by Cluster Size (lower is better)", "Number of Nodes", "Balance Std Dev (%)")
	execTime := newBar("Execution Time Scalability", "Number of Nodes", "Execution Time (ms)")
	cost.SetXAxis(axis)
	balance.SetXAxis(axis)
	execTime.SetXAxis(axis)

	proposedCost := make([]opts.BarData, len(sizes))
	proposedBalance := make([]opts.BarData, len(sizes))
	proposedTimes := make([]opts.BarData, len(sizes))
	for i, size := range sizes {
		g := groups[size]
		proposedCost[i] = opts.BarData{Value: g.BestCost.Value}
		proposedBalance[i] = opts.BarData{Value: g.BestBalance.Value}
		proposedTimes[i] = opts.BarData{Value: g.ProposedTimeMs}
	}
	cost.AddSeries(aggregate.ProposedName, proposedCost)
	balance.AddSeries(aggregate.ProposedName, proposedBalance)
	execTime.AddSeries(aggregate.ProposedName, proposedTimes)

	for _, name := range baselines {
		costs := make([]opts.BarData, len(sizes))
		balances := make([]opts.BarData, len(sizes))
		times := make([]opts.BarData, len(sizes))
		for i, size := range sizes {
			b, ok := groups[size].Baselines[name]
			if !ok {
				costs[i] = opts.BarData{Value: nil}
				balances[i] = opts.BarData{Value: nil}
				times[i] = opts.BarData{Value: nil}
				continue
			}
			costs[i] = opts.BarData{Value: b.Cost}
			balances[i] = opts.BarData{Value: b.Balance}
			times[i] = opts.BarData{Value: b.ExecutionTimeMs}
		}
		cost.AddSeries(name, costs)
		balance.AddSeries(name, balances)
		execTime.AddSeries(name, times)
	}

	return []components.Charter{cost, balance, execTime}
}
