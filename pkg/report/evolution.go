package report

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// evolutionRounds limits how many rounds of front evolution get plotted
// before the charts become unreadable.
const evolutionRounds = 5

// evolutionCharts plots 2D projections of the 3D Pareto fronts, one series
// per round, so the front's movement through objective space is visible.
func evolutionCharts(runs []results.Run) []components.Charter {
	costBalance := newScatter("Cost vs Balance Trade-off", "Cost ($/hour)", "Balance Std Dev (%)")
	costDisruption := newScatter("Cost vs Disruption Trade-off", "Cost ($/hour)", "Disruption (normalized)")
	balanceDisruption := newScatter("Balance vs Disruption Trade-off", "Balance Std Dev (%)", "Disruption (normalized)")
	costMovements := newScatter("Cost vs Movement Count", "Cost ($/hour)", "Pod Movements")

	addRound := func(chart *charts.Scatter, name string, points []opts.ScatterData) {
		if len(points) == 0 {
			return
		}
		chart.AddSeries(name, points)
	}

	for _, run := range runs {
		for i, round := range run.Rounds {
			if i >= evolutionRounds {
				break
			}
			front := round.ParetoFront
			if len(front) == 0 {
				continue
			}
			cb := make([]opts.ScatterData, len(front))
			cd := make([]opts.ScatterData, len(front))
			bd := make([]opts.ScatterData, len(front))
			cm := make([]opts.ScatterData, len(front))
			for j, s := range front {
				cb[j] = scatterPoint(s.RawCost, s.RawBalance)
				cd[j] = scatterPoint(s.RawCost, s.Disruption)
				bd[j] = scatterPoint(s.RawBalance, s.Disruption)
				cm[j] = scatterPoint(s.RawCost, float64(s.Movements))
			}
			name := fmt.Sprintf("%s round %d", run.TestCase.Name, round.Round)
			addRound(costBalance, name, cb)
			addRound(costDisruption, name, cd)
			addRound(balanceDisruption, name, bd)
			addRound(costMovements, name, cm)
		}
	}

	return []components.Charter{costBalance, costDisruption, balanceDisruption, costMovements}
}

func scatterPoint(x, y float64) opts.ScatterData {
	return opts.ScatterData{
		Value:      []float64{x, y},
		Symbol:     "circle",
		SymbolSize: 8,
	}
}
