// Package report renders the analysis outputs (convergence charts, Pareto
// front evolution, quality timelines, algorithm comparisons) as HTML charts
// and CSV tables. It only presents what the metrics and aggregate packages
// computed; no metric is derived here.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"k8s.io/klog/v2"

	"sigs.k8s.io/descheduler-analysis/pkg/aggregate"
	"sigs.k8s.io/descheduler-analysis/pkg/metrics"
	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

// Reporter writes every figure and table into OutputDir.
type Reporter struct {
	OutputDir string
	Logger    klog.Logger
}

// WriteAll renders the full report. Timelines must be aligned index-wise
// with runs.
func (r *Reporter) WriteAll(
	runs []results.Run,
	timelines []metrics.Timeline,
	groups map[int]aggregate.GroupSummary,
	comparisons []aggregate.Comparison,
) error {
	if len(timelines) != len(runs) {
		return fmt.Errorf("got %d timelines for %d runs", len(timelines), len(runs))
	}
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	steps := []struct {
		file   string
		render func() error
	}{
		{"convergence_analysis.html", func() error {
			return r.renderPage("convergence_analysis.html", convergenceCharts(runs)...)
		}},
		{"convergence_behavior.html", func() error {
			return r.renderPage("convergence_behavior.html", behaviorCharts(runs)...)
		}},
		{"pareto_front_evolution.html", func() error {
			return r.renderPage("pareto_front_evolution.html", evolutionCharts(runs)...)
		}},
		{"quality_timeline.html", func() error {
			return r.renderPage("quality_timeline.html", qualityCharts(runs, timelines)...)
		}},
		{"algorithm_comparison.html", func() error {
			return r.renderPage("algorithm_comparison.html", comparisonCharts(comparisons)...)
		}},
		{"cluster_size_comparison.html", func() error {
			return r.renderClusterSizes(groups)
		}},
		{"algorithm_summary.csv", func() error {
			return WriteAlgorithmSummaryCSV(filepath.Join(r.OutputDir, "algorithm_summary.csv"), comparisons)
		}},
	}
	for _, s := range steps {
		if err := s.render(); err != nil {
			return fmt.Errorf("rendering %s: %w", s.file, err)
		}
		r.Logger.Info("Wrote report artifact", "file", filepath.Join(r.OutputDir, s.file))
	}
	return nil
}

func (r *Reporter) renderPage(filename string, cs ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(cs...)
	f, err := os.Create(filepath.Join(r.OutputDir, filename))
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func (r *Reporter) renderClusterSizes(groups map[int]aggregate.GroupSummary) error {
	if len(groups) < 2 {
		// A single cluster size makes a grouped comparison meaningless;
		// the caller already got ErrInsufficientGroups from the aggregator.
		r.Logger.Info("Skipping cluster size comparison", "groups", len(groups))
		return nil
	}
	return r.renderPage("cluster_size_comparison.html", clusterSizeCharts(groups)...)
}

func newLine(title, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions(title, xName, yName)...)
	return line
}

func newBar(title, xName, yName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(chartOptions(title, xName, yName)...)
	return bar
}

func newScatter(title, xName, yName string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(chartOptions(title, xName, yName)...)
	return scatter
}

func chartOptions(title, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
	}
}

func roundAxis(n int) []int {
	axis := make([]int, n)
	for i := range axis {
		axis[i] = i + 1
	}
	return axis
}

func maxRounds(runs []results.Run) int {
	n := 0
	for _, run := range runs {
		if len(run.Rounds) > n {
			n = len(run.Rounds)
		}
	}
	return n
}
