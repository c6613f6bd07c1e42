package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"sigs.k8s.io/descheduler-analysis/pkg/aggregate"
	"sigs.k8s.io/descheduler-analysis/pkg/report"
	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestWriteAlgorithmSummaryCSV(t *testing.T) {
	comparisons := []aggregate.Comparison{
		{
			TestCase: "case-a",
			Records: []aggregate.Record{
				{Algorithm: aggregate.ProposedName, Cost: 8.0, Balance: 14.0, WeightedScore: 0.40, ExecutionTimeMs: 800, Feasible: true},
				{Algorithm: "BestFitDecreasing", Cost: 9.0, Balance: 40.0, WeightedScore: 0.52, ExecutionTimeMs: 2.0, Feasible: true},
			},
		},
		{
			TestCase: "case-b",
			Records: []aggregate.Record{
				{Algorithm: aggregate.ProposedName, Cost: 10.0, Balance: 15.0, WeightedScore: 0.44, ExecutionTimeMs: 900, Feasible: true},
				{Algorithm: "BestFitDecreasing", Cost: 11.0, Balance: 42.0, WeightedScore: 0.58, ExecutionTimeMs: 2.4, Feasible: false},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "algorithm_summary.csv")
	if err := report.WriteAlgorithmSummaryCSV(path, comparisons); err != nil {
		t.Fatalf("WriteAlgorithmSummaryCSV() error = %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 algorithms", len(rows))
	}
	if rows[1][0] != aggregate.ProposedName {
		t.Errorf("first data row is %q, want the proposed algorithm", rows[1][0])
	}

	// Proposed costs are 8 and 10: mean 9.000, sample std 1.414, min 8.000.
	proposed := rows[1]
	if proposed[1] != "9.000" {
		t.Errorf("cost mean = %q, want 9.000", proposed[1])
	}
	if proposed[2] != "1.414" {
		t.Errorf("cost std = %q, want 1.414", proposed[2])
	}
	if proposed[3] != "8.000" {
		t.Errorf("cost min = %q, want 8.000", proposed[3])
	}
	if proposed[len(proposed)-1] != "2" {
		t.Errorf("proposed feasible count = %q, want 2", proposed[len(proposed)-1])
	}

	baseline := rows[2]
	if baseline[0] != "BestFitDecreasing" {
		t.Fatalf("second data row is %q", baseline[0])
	}
	if baseline[len(baseline)-1] != "1" {
		t.Errorf("baseline feasible count = %q, want 1", baseline[len(baseline)-1])
	}
}

func TestWriteAlgorithmSummaryCSVSingleComparison(t *testing.T) {
	comparisons := []aggregate.Comparison{
		{
			TestCase: "case-a",
			Records: []aggregate.Record{
				{Algorithm: aggregate.ProposedName, Cost: 8.0, Balance: 14.0, WeightedScore: 0.40, ExecutionTimeMs: 800, Feasible: true},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "algorithm_summary.csv")
	if err := report.WriteAlgorithmSummaryCSV(path, comparisons); err != nil {
		t.Fatalf("WriteAlgorithmSummaryCSV() error = %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 algorithm", len(rows))
	}
	header, row := rows[0], rows[1]
	// A single sample has no spread; every std column must be an empty
	// cell, never NaN.
	for i, name := range header {
		switch name {
		case "cost_std", "balance_std", "weighted_score_std", "execution_time_ms_std":
			if row[i] != "" {
				t.Errorf("%s = %q, want empty cell for a single sample", name, row[i])
			}
		case "cost_mean":
			if row[i] != "8.000" {
				t.Errorf("cost_mean = %q, want 8.000", row[i])
			}
		}
	}
}

func TestWriteGroupSummaryCSV(t *testing.T) {
	groups := map[int]aggregate.GroupSummary{
		20: {
			Runs:        1,
			BestCost:    aggregate.BestValue{Value: 16.2, Round: 1},
			BestBalance: aggregate.BestValue{Value: 20.0, Round: 1},
		},
		10: {
			Runs:           2,
			BestCost:       aggregate.BestValue{Value: 8.0, Round: 2},
			BestBalance:    aggregate.BestValue{Value: 14.5, Round: 3},
			BestDisruption: aggregate.BestValue{Value: 0.12, Round: 2},
			ProposedTimeMs: 845,
			Baselines: map[string]aggregate.BaselineSummary{
				"BestFitDecreasing": {
					Algorithm:       "BestFitDecreasing",
					Cost:            8.4,
					Balance:         40.0,
					WeightedScore:   0.55,
					ExecutionTimeMs: 2.3,
					// Placement-only baseline: disruption structurally absent.
				},
				"LoadBalancer": {
					Algorithm:       "LoadBalancer",
					Cost:            10.5,
					Balance:         9.0,
					Disruption:      results.Metric(0),
					WeightedScore:   0.71,
					ExecutionTimeMs: 1.5,
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "group_summaries.csv")
	if err := report.WriteGroupSummaryCSV(path, groups); err != nil {
		t.Fatalf("WriteGroupSummaryCSV() error = %v", err)
	}

	rows := readCSV(t, path)
	// Header, then group 10 (proposed + 2 baselines), then group 20.
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if rows[1][0] != "10" || rows[4][0] != "20" {
		t.Errorf("groups not sorted: first %q, last %q", rows[1][0], rows[4][0])
	}

	proposed := rows[1]
	if proposed[1] != "proposed" {
		t.Fatalf("first group row algorithm = %q", proposed[1])
	}
	if proposed[3] != "8.000" || proposed[4] != "2" {
		t.Errorf("best cost cells = %q round %q, want 8.000 round 2", proposed[3], proposed[4])
	}
	if proposed[9] != "845.000" {
		t.Errorf("proposed execution time cell = %q, want 845.000", proposed[9])
	}

	bfd, lb := rows[2], rows[3]
	if bfd[1] != "BestFitDecreasing" || lb[1] != "LoadBalancer" {
		t.Fatalf("baseline rows out of order: %q, %q", bfd[1], lb[1])
	}
	// Structurally absent disruption is an empty cell; a measured zero is
	// a formatted zero.
	if bfd[7] != "" {
		t.Errorf("absent disruption cell = %q, want empty", bfd[7])
	}
	if lb[7] != "0.000" {
		t.Errorf("measured-zero disruption cell = %q, want 0.000", lb[7])
	}
}
