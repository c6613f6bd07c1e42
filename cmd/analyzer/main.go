// Command analyzer turns the JSON result documents written by the
// multiobjective descheduler test harness into quality-metric timelines,
// cross-run aggregates and rendered comparison reports.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"sigs.k8s.io/descheduler-analysis/pkg/aggregate"
	"sigs.k8s.io/descheduler-analysis/pkg/metrics"
	"sigs.k8s.io/descheduler-analysis/pkg/report"
	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

func main() {
	cmd := newAnalyzerCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newAnalyzerCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "analyzer [flags] result-files...",
		Short:        "Analyze multiobjective optimization result documents",
		Long:         "Computes hypervolume/sparsity timelines, aggregates best-ever results across runs,\ncompares the optimizer against its baselines and renders charts and CSV tables.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				viper.SetConfigFile(configFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config: %w", err)
				}
			}
			return runAnalysis(klog.Background(), args)
		},
	}

	flags := cmd.Flags()
	flags.String("output-dir", "optimization_analysis", "directory for charts and tables")
	flags.Int("samples", metrics.DefaultHypervolumeConfig().Samples, "Monte-Carlo samples per hypervolume estimate")
	flags.Uint64("seed", metrics.DefaultHypervolumeConfig().Seed, "seed for hypervolume sampling")
	flags.String("group-by", "nodes", "cross-run grouping key: nodes or weights")
	flags.StringVar(&configFile, "config", "", "optional config file overriding flag defaults")

	klogFlags := flag.NewFlagSet("klog", flag.PanicOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	viper.SetEnvPrefix("ANALYZER")
	viper.AutomaticEnv()
	for _, name := range []string{"output-dir", "samples", "seed", "group-by"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	return cmd
}

func runAnalysis(logger klog.Logger, patterns []string) error {
	runs, err := results.LoadGlob(logger, patterns...)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return errors.New("no valid result files could be loaded")
	}
	logger.Info("Loaded result files", "count", len(runs))

	cfg := metrics.HypervolumeConfig{
		Samples: viper.GetInt("samples"),
		Seed:    viper.GetUint64("seed"),
	}
	timelines := make([]metrics.Timeline, len(runs))
	for i, run := range runs {
		timelines[i] = metrics.BuildTimeline(run, cfg)
		logger.V(1).Info("Built quality timeline", "run", run.TestCase.Name, "rounds", len(timelines[i]))
	}

	groups, err := aggregate.Aggregate(runs, aggregate.ByNodeCount)
	if err != nil {
		if !errors.Is(err, aggregate.ErrInsufficientGroups) {
			return err
		}
		// Proceed anyway: single-group charts are skipped, the per-run
		// comparisons and timelines are still worth rendering.
		logger.Info("Cross-group comparison limited", "reason", err.Error())
	}

	comparisons := make([]aggregate.Comparison, 0, len(runs))
	for _, run := range runs {
		cmp, err := aggregate.Reduce(run)
		if err != nil {
			if !errors.Is(err, aggregate.ErrUndefinedRatio) {
				return err
			}
			logger.Info("Ratio left undefined", "run", run.TestCase.Name, "reason", err.Error())
		}
		comparisons = append(comparisons, cmp)
	}

	outputDir := viper.GetString("output-dir")
	reporter := &report.Reporter{OutputDir: outputDir, Logger: logger}
	if err := reporter.WriteAll(runs, timelines, groups, comparisons); err != nil {
		return err
	}

	groupCSV := filepath.Join(outputDir, "group_summaries.csv")
	switch key := viper.GetString("group-by"); key {
	case "nodes":
		err = report.WriteGroupSummaryCSV(groupCSV, groups)
	case "weights":
		weightGroups, aggErr := aggregate.Aggregate(runs, aggregate.ByWeightProfile)
		if aggErr != nil && !errors.Is(aggErr, aggregate.ErrInsufficientGroups) {
			return aggErr
		}
		err = report.WriteGroupSummaryCSV(groupCSV, weightGroups)
	default:
		return fmt.Errorf("unknown group-by key %q (want nodes or weights)", key)
	}
	if err != nil {
		return err
	}

	logger.Info("Analysis complete", "output", outputDir)
	return nil
}
