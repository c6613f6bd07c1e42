package report

import (
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sigs.k8s.io/descheduler-analysis/pkg/metrics"
	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// qualityCharts plots the per-round front quality metrics of every run:
// hypervolume (coverage of the objective space, higher is better) and capped
// sparsity (diversity of the front).
func qualityCharts(runs []results.Run, timelines []metrics.Timeline) []components.Charter {
	n := 0
	for _, tl := range timelines {
		if len(tl) > n {
			n = len(tl)
		}
	}
	axis := roundAxis(n)

	hypervolume := newLine("Hypervolume per Round", "Round", "Dominated Volume (estimate)")
	sparsity := newLine("Front Diversity per Round", "Round", "Crowding Sparsity (capped)")
	size := newLine("Pareto Front Size per Round", "Round", "Solutions")
	hypervolume.SetXAxis(axis)
	sparsity.SetXAxis(axis)
	size.SetXAxis(axis)

	for i, tl := range timelines {
		hv := make([]opts.LineData, len(tl))
		sp := make([]opts.LineData, len(tl))
		sz := make([]opts.LineData, len(tl))
		for j, entry := range tl {
			hv[j] = opts.LineData{Value: entry.Hypervolume}
			sp[j] = opts.LineData{Value: entry.Sparsity}
			sz[j] = opts.LineData{Value: entry.ParetoSize}
		}
		name := runs[i].TestCase.Name
		hypervolume.AddSeries(name, hv)
		sparsity.AddSeries(name, sp)
		size.AddSeries(name, sz)
	}

	return []components.Charter{hypervolume, sparsity, size}
}
