package results_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"k8s.io/klog/v2"

	"sigs.k8s.io/descheduler-analysis/pkg/results"
)

func wireSolutionDoc(cost, disruption, balance float64) map[string]any {
	return map[string]any{
		"cost":          cost,
		"disruption":    disruption,
		"balance":       balance,
		"rawCost":       cost * 100,
		"rawBalance":    balance * 50,
		"movements":     3,
		"weightedScore": cost*0.5 + disruption*0.2 + balance*0.3,
		"feasible":      true,
	}
}

func wireStateDoc(totalCost, balancePercent float64) map[string]any {
	return map[string]any{
		"totalCost":      totalCost,
		"balancePercent": balancePercent,
		"nodeUtilizations": []map[string]any{
			{"nodeName": "node-1", "cpuPercent": 62.5, "memPercent": 48.0, "podCount": 12, "hourlyCost": 0.384},
		},
	}
}

func wireRoundDoc(round int) map[string]any {
	return map[string]any{
		"round": round,
		"paretoFront": []map[string]any{
			wireSolutionDoc(0.4, 0.2, 0.3),
			wireSolutionDoc(0.3, 0.5, 0.2),
		},
		"bestSolution":      wireSolutionDoc(0.4, 0.2, 0.3),
		"initialState":      wireStateDoc(10.4, 35.0),
		"intermediateState": wireStateDoc(9.8, 30.0),
		"finalState":        wireStateDoc(9.1, 22.0),
		"improvements":      map[string]any{"costSavings": 1.3, "balanceImprovement": 13.0},
		"feasibleMoves": map[string]any{
			"feasibleMoves":      4,
			"totalTargetMoves":   5,
			"blockedByPDB":       1,
			"feasibilityPercent": 80.0,
			"objectiveChanges": map[string]any{
				"initialObjectives":      map[string]any{"cost": 0.5, "disruption": 0, "balance": 0.4, "rawCost": 10.4, "rawBalance": 35.0},
				"intermediateObjectives": map[string]any{"cost": 0.45, "disruption": 0.2, "balance": 0.3, "rawCost": 9.8, "rawBalance": 30.0},
				"targetObjectives":       map[string]any{"cost": 0.4, "disruption": 0.2, "balance": 0.25, "rawCost": 9.1, "rawBalance": 22.0},
			},
		},
	}
}

// validDoc builds a complete result document. Tests mutate copies of it to
// exercise individual validation paths.
func validDoc() map[string]any {
	return map[string]any{
		"timestamp": "2025-06-01T12:00:00Z",
		"testCase": map[string]any{
			"name": "10nodes_30pods",
			"nodes": []map[string]any{
				{"Name": "node-1", "CPU": 4000, "Mem": 16384, "Type": "m5.xlarge", "Region": "us-east-1", "Lifecycle": "on-demand"},
			},
			"pods": []map[string]any{
				{"Name": "pod-1", "CPU": 250, "Mem": 512, "Node": 0, "RS": "rs-1", "MaxUnavail": 1},
			},
			"weightProfile": map[string]any{"Cost": 0.5, "Disruption": 0.2, "Balance": 0.3},
		},
		"algorithm": map[string]any{
			"populationSize": 100, "maxGenerations": 150,
			"crossoverProbability": 0.9, "mutationProbability": 0.1,
			"tournamentSize": 2, "parallelExecution": true,
		},
		"rounds": []map[string]any{wireRoundDoc(1), wireRoundDoc(2)},
		"baselineResults": []map[string]any{
			{
				"algorithm": "BestFitDecreasing", "rawCost": 8.9, "rawBalance": 40.0,
				"weightedScore": 0.52, "movements": 14, "feasible": true, "executionTimeMs": 2.1,
			},
		},
		"finalResults": map[string]any{
			"totalRounds": 2, "convergedAtRound": 2, "convergenceReason": "no improvement",
			"totalCostSavings": 1.3, "finalParetoSize": 2,
		},
		"comparisonMetrics": map[string]any{
			"nsgaiiBest": wireSolutionDoc(0.4, 0.2, 0.3),
			"performanceComparison": map[string]any{
				"nsgaiiExecutionTimeMs": 845.0,
				"fastestBaseline":       "BestFitDecreasing",
				"fastestBaselineTimeMs": 2.1,
			},
		},
	}
}

func marshalDoc(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshaling test document: %v", err)
	}
	return data
}

func TestParseValidDocument(t *testing.T) {
	run, err := results.Parse(marshalDoc(t, validDoc()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if run.TestCase.Name != "10nodes_30pods" {
		t.Errorf("test case name = %q, want %q", run.TestCase.Name, "10nodes_30pods")
	}
	if run.TestCase.WeightProfile.Cost != 0.5 {
		t.Errorf("weight profile cost weight = %v, want 0.5", run.TestCase.WeightProfile.Cost)
	}
	if len(run.Rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(run.Rounds))
	}
	if got := len(run.Rounds[0].ParetoFront); got != 2 {
		t.Errorf("round 1 front size = %d, want 2", got)
	}
	if run.Rounds[1].Round != 2 {
		t.Errorf("second round number = %d, want 2", run.Rounds[1].Round)
	}
	wantBaseline := results.BaselineResult{
		Algorithm:       "BestFitDecreasing",
		RawCost:         8.9,
		RawBalance:      40.0,
		WeightedScore:   0.52,
		Movements:       14,
		Feasible:        true,
		ExecutionTimeMs: 2.1,
	}
	if len(run.Baselines) != 1 {
		t.Fatalf("baselines = %d, want 1", len(run.Baselines))
	}
	if diff := cmp.Diff(wantBaseline, run.Baselines[0]); diff != "" {
		t.Errorf("baseline mismatch (-want +got):\n%s", diff)
	}
	if run.Comparison.Performance.ProposedTimeMs != 845.0 {
		t.Errorf("proposed execution time = %v, want 845.0", run.Comparison.Performance.ProposedTimeMs)
	}
	if run.Final.ConvergenceReason != "no improvement" {
		t.Errorf("convergence reason = %q", run.Final.ConvergenceReason)
	}
}

func TestParseMissingRequiredFields(t *testing.T) {
	scenarios := []struct {
		name        string
		mutate      func(doc map[string]any)
		description string
	}{
		{
			name:        "MissingTestCase",
			mutate:      func(doc map[string]any) { delete(doc, "testCase") },
			description: "A document without a test case cannot be attributed to a scenario",
		},
		{
			name:        "MissingTestCaseName",
			mutate:      func(doc map[string]any) { delete(doc["testCase"].(map[string]any), "name") },
			description: "The test case name is the grouping and reporting key",
		},
		{
			name:        "MissingWeightProfile",
			mutate:      func(doc map[string]any) { delete(doc["testCase"].(map[string]any), "weightProfile") },
			description: "Weight profile is a required grouping dimension",
		},
		{
			name:        "MissingRounds",
			mutate:      func(doc map[string]any) { delete(doc, "rounds") },
			description: "A run without rounds has nothing to analyze",
		},
		{
			name:        "MissingFinalResults",
			mutate:      func(doc map[string]any) { delete(doc, "finalResults") },
			description: "Final results are required, even when derivable from rounds",
		},
		{
			name:        "MissingComparisonMetrics",
			mutate:      func(doc map[string]any) { delete(doc, "comparisonMetrics") },
			description: "The comparison reducer needs the proposed-best block",
		},
		{
			name: "MissingRoundNumber",
			mutate: func(doc map[string]any) {
				delete(doc["rounds"].([]map[string]any)[0], "round")
			},
			description: "Round entries must carry their own number",
		},
		{
			name: "MissingSolutionWeightedScore",
			mutate: func(doc map[string]any) {
				front := doc["rounds"].([]map[string]any)[0]["paretoFront"].([]map[string]any)
				delete(front[1], "weightedScore")
			},
			description: "A zero-defaulted weighted score would corrupt the comparison",
		},
		{
			name: "MissingBaselineExecutionTime",
			mutate: func(doc map[string]any) {
				delete(doc["baselineResults"].([]map[string]any)[0], "executionTimeMs")
			},
			description: "Baseline timing is required for the speedup ratio",
		},
		{
			name: "MissingProposedBest",
			mutate: func(doc map[string]any) {
				delete(doc["comparisonMetrics"].(map[string]any), "nsgaiiBest")
			},
			description: "comparisonMetrics without the proposed best is unusable",
		},
	}

	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			_, err := results.Parse(marshalDoc(t, doc))
			if err == nil {
				t.Fatalf("%s: Parse() accepted the document", tt.description)
			}
			if !errors.Is(err, results.ErrMalformedInput) {
				t.Errorf("error %v does not wrap ErrMalformedInput", err)
			}
		})
	}
}

func TestParseRoundSequence(t *testing.T) {
	doc := validDoc()
	doc["rounds"].([]map[string]any)[1]["round"] = 5

	_, err := results.Parse(marshalDoc(t, doc))
	if err == nil {
		t.Fatal("Parse() accepted an out-of-sequence round number")
	}
	if !errors.Is(err, results.ErrMalformedInput) {
		t.Errorf("error %v does not wrap ErrMalformedInput", err)
	}
}

func TestParseBaselineDisruption(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		run, err := results.Parse(marshalDoc(t, validDoc()))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		d := run.Baselines[0].Disruption
		if d.Present {
			t.Errorf("disruption absent from the document must not be marked present (value %v)", d.Value)
		}
	})

	t.Run("PresentZero", func(t *testing.T) {
		doc := validDoc()
		doc["baselineResults"].([]map[string]any)[0]["disruption"] = 0.0
		run, err := results.Parse(marshalDoc(t, doc))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		d := run.Baselines[0].Disruption
		if !d.Present || d.Value != 0 {
			t.Errorf("explicit zero disruption must be a measured value, got %+v", d)
		}
	})
}

func TestLoadGlobSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "optimization_results_good.json")
	if err := os.WriteFile(good, marshalDoc(t, validDoc()), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "optimization_results_bad.json")
	if err := os.WriteFile(bad, []byte(`{"rounds": "nope"`), 0o644); err != nil {
		t.Fatal(err)
	}

	runs, err := results.LoadGlob(klog.Background(), filepath.Join(dir, "optimization_results_*.json"))
	if err != nil {
		t.Fatalf("LoadGlob() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("loaded %d runs, want the single valid one", len(runs))
	}
	if runs[0].SourceFile != good {
		t.Errorf("source file = %q, want %q", runs[0].SourceFile, good)
	}
}
