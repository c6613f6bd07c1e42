package report

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"sigs.k8s.io/descheduler-analysis/pkg/aggregate"
	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// WriteAlgorithmSummaryCSV writes the per-algorithm statistics table: mean,
// standard deviation and minimum of cost, balance and weighted score across
// all compared runs, plus mean execution time and feasible-result count.
func WriteAlgorithmSummaryCSV(path string, comparisons []aggregate.Comparison) error {
	type column struct {
		costs, balances, scores, times []float64
		feasible                       int
	}
	byAlg := make(map[string]*column)
	for _, cmp := range comparisons {
		for _, rec := range cmp.Records {
			col, ok := byAlg[rec.Algorithm]
			if !ok {
				col = &column{}
				byAlg[rec.Algorithm] = col
			}
			col.costs = append(col.costs, rec.Cost)
			col.balances = append(col.balances, rec.Balance)
			col.scores = append(col.scores, rec.WeightedScore)
			col.times = append(col.times, rec.ExecutionTimeMs)
			if rec.Feasible {
				col.feasible++
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"algorithm",
		"cost_mean", "cost_std", "cost_min",
		"balance_mean", "balance_std", "balance_min",
		"weighted_score_mean", "weighted_score_std", "weighted_score_min",
		"execution_time_ms_mean", "execution_time_ms_std",
		"feasible_count",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, alg := range algorithmOrder(comparisons) {
		col, ok := byAlg[alg]
		if !ok {
			continue
		}
		row := []string{alg}
		row = append(row, describe(col.costs)...)
		row = append(row, describe(col.balances)...)
		row = append(row, describe(col.scores)...)
		mean, std := stat.MeanStdDev(col.times, nil)
		row = append(row, formatStat(mean), formatStd(col.times, std))
		row = append(row, strconv.Itoa(col.feasible))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// describe returns mean, sample standard deviation and minimum, formatted.
func describe(values []float64) []string {
	mean, std := stat.MeanStdDev(values, nil)
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return []string{formatStat(mean), formatStd(values, std), formatStat(min)}
}

// formatStd renders a sample standard deviation. A single sample has no
// spread to report, so the cell stays empty rather than carrying the NaN
// the n-1 divisor produces.
func formatStd(values []float64, std float64) string {
	if len(values) < 2 {
		return ""
	}
	return formatStat(std)
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteGroupSummaryCSV writes the best-ever objective values per run group,
// with the round each one was first observed in, followed by one row per
// merged baseline. Absent baseline disruption is written as an empty cell,
// not as 0.
func WriteGroupSummaryCSV[K cmp.Ordered](path string, groups map[K]aggregate.GroupSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating group summary table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"group", "algorithm", "runs",
		"best_cost", "best_cost_round",
		"best_balance", "best_balance_round",
		"disruption", "disruption_round",
		"execution_time_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	keys := make([]K, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		g := groups[k]
		group := fmt.Sprint(k)
		row := []string{
			group, "proposed", strconv.Itoa(g.Runs),
			formatStat(g.BestCost.Value), strconv.Itoa(g.BestCost.Round),
			formatStat(g.BestBalance.Value), strconv.Itoa(g.BestBalance.Round),
			formatStat(g.BestDisruption.Value), strconv.Itoa(g.BestDisruption.Round),
			formatStat(g.ProposedTimeMs),
		}
		if err := w.Write(row); err != nil {
			return err
		}

		names := make([]string, 0, len(g.Baselines))
		for name := range g.Baselines {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			b := g.Baselines[name]
			row := []string{
				group, name, strconv.Itoa(g.Runs),
				formatStat(b.Cost), "",
				formatStat(b.Balance), "",
				formatOptional(b.Disruption), "",
				formatStat(b.ExecutionTimeMs),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatOptional(m results.OptionalMetric) string {
	if !m.Present {
		return ""
	}
	return formatStat(m.Value)
}
