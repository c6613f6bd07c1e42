package report

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// convergenceCharts shows how each run's objectives evolved per round: the
// intermediate cluster states (what the feasible moves actually achieved)
// for cost and balance, and the best solution's disruption and weighted
// score.
func convergenceCharts(runs []results.Run) []components.Charter {
	axis := roundAxis(maxRounds(runs))

	cost := newLine("Cost Optimization (Intermediate States)", "Round", "Total Cluster Cost ($/hour)")
	balance := newLine("Balance Optimization (Intermediate States)", "Round", "Load Balance Std Dev (%)")
	disruption := newLine("Disruption Convergence", "Round", "Normalized Disruption")
	weighted := newLine("Overall Weighted Score", "Round", "Weighted Objective Score")

	cost.SetXAxis(axis)
	balance.SetXAxis(axis)
	disruption.SetXAxis(axis)
	weighted.SetXAxis(axis)

	for _, run := range runs {
		costs := make([]opts.LineData, len(run.Rounds))
		balances := make([]opts.LineData, len(run.Rounds))
		disruptions := make([]opts.LineData, len(run.Rounds))
		scores := make([]opts.LineData, len(run.Rounds))
		for i, round := range run.Rounds {
			costs[i] = opts.LineData{Value: round.IntermediateState.TotalCost}
			balances[i] = opts.LineData{Value: round.IntermediateState.BalancePercent}
			disruptions[i] = opts.LineData{Value: round.BestSolution.Disruption}
			scores[i] = opts.LineData{Value: round.BestSolution.WeightedScore}
		}
		name := run.TestCase.Name
		cost.AddSeries(name, costs)
		balance.AddSeries(name, balances)
		disruption.AddSeries(name, disruptions)
		weighted.AddSeries(name, scores)
	}

	return []components.Charter{cost, balance, disruption, weighted}
}

// behaviorCharts shows the rescheduling effort: feasible pod movements per
// round and their cumulative total, which makes PDB-blocked convergence
// visible as a flat tail.
func behaviorCharts(runs []results.Run) []components.Charter {
	axis := roundAxis(maxRounds(runs))

	perRound := newLine("Feasible Movements per Round", "Round", "Feasible Pod Movements")
	cumulative := newLine("Total Optimization Effort", "Round", "Cumulative Pod Movements")
	perRound.SetXAxis(axis)
	cumulative.SetXAxis(axis)

	for _, run := range runs {
		moves := make([]opts.LineData, len(run.Rounds))
		running := make([]opts.LineData, len(run.Rounds))
		total := 0
		for i, round := range run.Rounds {
			moves[i] = opts.LineData{Value: round.FeasibleMoves.FeasibleMoves}
			total += round.FeasibleMoves.FeasibleMoves
			running[i] = opts.LineData{Value: total}
		}
		label := fmt.Sprintf("%s (%d rounds)", run.TestCase.Name, len(run.Rounds))
		perRound.AddSeries(label, moves)
		cumulative.AddSeries(fmt.Sprintf("%s (total %d)", run.TestCase.Name, total), running)
	}

	return []components.Charter{perRound, cumulative}
}
