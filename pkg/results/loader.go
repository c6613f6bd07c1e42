package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"k8s.io/klog/v2"
)

// ErrMalformedInput marks a result document with a required field missing.
// Malformed documents are rejected whole; no field is ever defaulted.
var ErrMalformedInput = errors.New("malformed result document")

// Wire-level mirrors of the JSON documents written by the optimizer's test
// harness. Required fields are pointers so that a structurally absent key is
// distinguishable from a legitimate zero value.
type wireRun struct {
	Timestamp         string          `json:"timestamp"`
	TestCase          *wireTestCase   `json:"testCase"`
	Algorithm         *wireAlgorithm  `json:"algorithm"`
	Rounds            *[]wireRound    `json:"rounds"`
	BaselineResults   []wireBaseline  `json:"baselineResults"`
	FinalResults      *wireFinal      `json:"finalResults"`
	ComparisonMetrics *wireComparison `json:"comparisonMetrics"`
}

type wireTestCase struct {
	Name          *string        `json:"name"`
	Nodes         []NodeSpec     `json:"nodes"`
	Pods          []PodSpec      `json:"pods"`
	WeightProfile *WeightProfile `json:"weightProfile"`
}

type wireAlgorithm struct {
	PopulationSize       int     `json:"populationSize"`
	MaxGenerations       int     `json:"maxGenerations"`
	CrossoverProbability float64 `json:"crossoverProbability"`
	MutationProbability  float64 `json:"mutationProbability"`
	TournamentSize       int     `json:"tournamentSize"`
	ParallelExecution    bool    `json:"parallelExecution"`
}

type wireSolution struct {
	Cost          *float64 `json:"cost"`
	Disruption    *float64 `json:"disruption"`
	Balance       *float64 `json:"balance"`
	RawCost       *float64 `json:"rawCost"`
	RawBalance    *float64 `json:"rawBalance"`
	Movements     *int     `json:"movements"`
	WeightedScore *float64 `json:"weightedScore"`
	Feasible      *bool    `json:"feasible"`
}

type wireRound struct {
	Round             *int              `json:"round"`
	ParetoFront       *[]wireSolution   `json:"paretoFront"`
	BestSolution      *wireSolution     `json:"bestSolution"`
	InitialState      *wireState        `json:"initialState"`
	IntermediateState *wireState        `json:"intermediateState"`
	FinalState        *wireState        `json:"finalState"`
	Improvements      *wireImprovements `json:"improvements"`
	FeasibleMoves     *wireFeasible     `json:"feasibleMoves"`
}

type wireState struct {
	TotalCost        *float64           `json:"totalCost"`
	BalancePercent   *float64           `json:"balancePercent"`
	NodeUtilizations []wireNodeUtil     `json:"nodeUtilizations"`
}

type wireNodeUtil struct {
	NodeName   string  `json:"nodeName"`
	CPUPercent float64 `json:"cpuPercent"`
	MemPercent float64 `json:"memPercent"`
	PodCount   int     `json:"podCount"`
	HourlyCost float64 `json:"hourlyCost"`
}

type wireImprovements struct {
	CostSavings        *float64 `json:"costSavings"`
	BalanceImprovement *float64 `json:"balanceImprovement"`
}

type wireFeasible struct {
	FeasibleMoves      *int           `json:"feasibleMoves"`
	TotalTargetMoves   *int           `json:"totalTargetMoves"`
	BlockedByPDB       *int           `json:"blockedByPDB"`
	FeasibilityPercent *float64       `json:"feasibilityPercent"`
	ObjectiveChanges   wireObjChanges `json:"objectiveChanges"`
}

type wireObjChanges struct {
	Initial      wireObjValues `json:"initialObjectives"`
	Intermediate wireObjValues `json:"intermediateObjectives"`
	Target       wireObjValues `json:"targetObjectives"`
}

type wireObjValues struct {
	Cost       float64 `json:"cost"`
	Disruption float64 `json:"disruption"`
	Balance    float64 `json:"balance"`
	RawCost    float64 `json:"rawCost"`
	RawBalance float64 `json:"rawBalance"`
}

type wireBaseline struct {
	Algorithm       *string  `json:"algorithm"`
	RawCost         *float64 `json:"rawCost"`
	RawBalance      *float64 `json:"rawBalance"`
	Disruption      *float64 `json:"disruption"` // legitimately absent for placement-only baselines
	WeightedScore   *float64 `json:"weightedScore"`
	Movements       *int     `json:"movements"`
	Feasible        *bool    `json:"feasible"`
	ExecutionTimeMs *float64 `json:"executionTimeMs"`
}

type wireFinal struct {
	TotalRounds       int     `json:"totalRounds"`
	ConvergedAtRound  int     `json:"convergedAtRound"`
	ConvergenceReason string  `json:"convergenceReason"`
	TotalCostSavings  float64 `json:"totalCostSavings"`
	FinalParetoSize   int     `json:"finalParetoSize"`
}

type wireComparison struct {
	ProposedBest *wireSolution `json:"nsgaiiBest"`
	Performance  *wirePerf     `json:"performanceComparison"`
}

type wirePerf struct {
	ProposedTimeMs        *float64 `json:"nsgaiiExecutionTimeMs"`
	FastestBaseline       string   `json:"fastestBaseline"`
	FastestBaselineTimeMs *float64 `json:"fastestBaselineTimeMs"`
}

func missing(path string) error {
	return fmt.Errorf("missing required field %q: %w", path, ErrMalformedInput)
}

// Load reads and validates a single result document.
func Load(path string) (Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("reading %s: %w", path, err)
	}
	run, err := Parse(data)
	if err != nil {
		return Run{}, fmt.Errorf("loading %s: %w", path, err)
	}
	run.SourceFile = path
	return run, nil
}

// Parse decodes and validates one result document. All schema checks happen
// here; downstream packages may assume the invariants documented on the
// result types.
func Parse(data []byte) (Run, error) {
	var w wireRun
	if err := json.Unmarshal(data, &w); err != nil {
		return Run{}, fmt.Errorf("decoding result document: %w", err)
	}

	if w.TestCase == nil {
		return Run{}, missing("testCase")
	}
	if w.TestCase.Name == nil {
		return Run{}, missing("testCase.name")
	}
	if w.TestCase.WeightProfile == nil {
		return Run{}, missing("testCase.weightProfile")
	}
	if w.Rounds == nil {
		return Run{}, missing("rounds")
	}
	if w.FinalResults == nil {
		return Run{}, missing("finalResults")
	}
	if w.ComparisonMetrics == nil {
		return Run{}, missing("comparisonMetrics")
	}

	run := Run{
		Timestamp: w.Timestamp,
		TestCase: TestCase{
			Name:          *w.TestCase.Name,
			Nodes:         w.TestCase.Nodes,
			Pods:          w.TestCase.Pods,
			WeightProfile: *w.TestCase.WeightProfile,
		},
		Final: FinalResults{
			TotalRounds:       w.FinalResults.TotalRounds,
			ConvergedAtRound:  w.FinalResults.ConvergedAtRound,
			ConvergenceReason: w.FinalResults.ConvergenceReason,
			TotalCostSavings:  w.FinalResults.TotalCostSavings,
			FinalParetoSize:   w.FinalResults.FinalParetoSize,
		},
	}
	if w.Algorithm != nil {
		run.Algorithm = AlgorithmConfig(*w.Algorithm)
	}

	rounds := *w.Rounds
	run.Rounds = make([]Round, 0, len(rounds))
	for i, wr := range rounds {
		r, err := convertRound(wr, i)
		if err != nil {
			return Run{}, err
		}
		run.Rounds = append(run.Rounds, r)
	}

	run.Baselines = make([]BaselineResult, 0, len(w.BaselineResults))
	for i, wb := range w.BaselineResults {
		b, err := convertBaseline(wb, i)
		if err != nil {
			return Run{}, err
		}
		run.Baselines = append(run.Baselines, b)
	}

	cmpMetrics, err := convertComparison(*w.ComparisonMetrics)
	if err != nil {
		return Run{}, err
	}
	run.Comparison = cmpMetrics

	return run, nil
}

func convertRound(w wireRound, idx int) (Round, error) {
	path := fmt.Sprintf("rounds[%d]", idx)
	if w.Round == nil {
		return Round{}, missing(path + ".round")
	}
	// Round numbers must form the sequence 1,2,3,... so that the metrics
	// timeline and the aggregator can trust round indices.
	if *w.Round != idx+1 {
		return Round{}, fmt.Errorf("%s: round number %d out of sequence (want %d): %w",
			path, *w.Round, idx+1, ErrMalformedInput)
	}
	if w.ParetoFront == nil {
		return Round{}, missing(path + ".paretoFront")
	}
	if w.BestSolution == nil {
		return Round{}, missing(path + ".bestSolution")
	}
	if w.Improvements == nil {
		return Round{}, missing(path + ".improvements")
	}
	if w.FeasibleMoves == nil {
		return Round{}, missing(path + ".feasibleMoves")
	}

	best, err := convertSolution(*w.BestSolution, path+".bestSolution")
	if err != nil {
		return Round{}, err
	}

	front := make([]Solution, 0, len(*w.ParetoFront))
	for i, ws := range *w.ParetoFront {
		s, err := convertSolution(ws, fmt.Sprintf("%s.paretoFront[%d]", path, i))
		if err != nil {
			return Round{}, err
		}
		front = append(front, s)
	}

	initial, err := convertState(w.InitialState, path+".initialState")
	if err != nil {
		return Round{}, err
	}
	intermediate, err := convertState(w.IntermediateState, path+".intermediateState")
	if err != nil {
		return Round{}, err
	}
	final, err := convertState(w.FinalState, path+".finalState")
	if err != nil {
		return Round{}, err
	}

	if w.Improvements.CostSavings == nil {
		return Round{}, missing(path + ".improvements.costSavings")
	}
	if w.Improvements.BalanceImprovement == nil {
		return Round{}, missing(path + ".improvements.balanceImprovement")
	}

	fm, err := convertFeasible(*w.FeasibleMoves, path+".feasibleMoves")
	if err != nil {
		return Round{}, err
	}

	return Round{
		Round:             *w.Round,
		ParetoFront:       front,
		BestSolution:      best,
		InitialState:      initial,
		IntermediateState: intermediate,
		FinalState:        final,
		Improvements: Improvements{
			CostSavings:        *w.Improvements.CostSavings,
			BalanceImprovement: *w.Improvements.BalanceImprovement,
		},
		FeasibleMoves: fm,
	}, nil
}

func convertSolution(w wireSolution, path string) (Solution, error) {
	switch {
	case w.Cost == nil:
		return Solution{}, missing(path + ".cost")
	case w.Disruption == nil:
		return Solution{}, missing(path + ".disruption")
	case w.Balance == nil:
		return Solution{}, missing(path + ".balance")
	case w.RawCost == nil:
		return Solution{}, missing(path + ".rawCost")
	case w.RawBalance == nil:
		return Solution{}, missing(path + ".rawBalance")
	case w.Movements == nil:
		return Solution{}, missing(path + ".movements")
	case w.WeightedScore == nil:
		return Solution{}, missing(path + ".weightedScore")
	}
	s := Solution{
		Cost:          *w.Cost,
		Disruption:    *w.Disruption,
		Balance:       *w.Balance,
		RawCost:       *w.RawCost,
		RawBalance:    *w.RawBalance,
		Movements:     *w.Movements,
		WeightedScore: *w.WeightedScore,
	}
	if w.Feasible != nil {
		s.Feasible = *w.Feasible
	}
	return s, nil
}

func convertState(w *wireState, path string) (ClusterState, error) {
	if w == nil {
		return ClusterState{}, missing(path)
	}
	if w.TotalCost == nil {
		return ClusterState{}, missing(path + ".totalCost")
	}
	if w.BalancePercent == nil {
		return ClusterState{}, missing(path + ".balancePercent")
	}
	utils := make([]NodeUtilization, len(w.NodeUtilizations))
	for i, u := range w.NodeUtilizations {
		utils[i] = NodeUtilization(u)
	}
	return ClusterState{
		TotalCost:        *w.TotalCost,
		BalancePercent:   *w.BalancePercent,
		NodeUtilizations: utils,
	}, nil
}

func convertFeasible(w wireFeasible, path string) (FeasibleMoves, error) {
	switch {
	case w.FeasibleMoves == nil:
		return FeasibleMoves{}, missing(path + ".feasibleMoves")
	case w.TotalTargetMoves == nil:
		return FeasibleMoves{}, missing(path + ".totalTargetMoves")
	case w.BlockedByPDB == nil:
		return FeasibleMoves{}, missing(path + ".blockedByPDB")
	case w.FeasibilityPercent == nil:
		return FeasibleMoves{}, missing(path + ".feasibilityPercent")
	}
	return FeasibleMoves{
		FeasibleMoves:      *w.FeasibleMoves,
		TotalTargetMoves:   *w.TotalTargetMoves,
		BlockedByPDB:       *w.BlockedByPDB,
		FeasibilityPercent: *w.FeasibilityPercent,
		ObjectiveChanges: ObjectiveChanges{
			Initial:      ObjectiveValues(w.ObjectiveChanges.Initial),
			Intermediate: ObjectiveValues(w.ObjectiveChanges.Intermediate),
			Target:       ObjectiveValues(w.ObjectiveChanges.Target),
		},
	}, nil
}

func convertBaseline(w wireBaseline, idx int) (BaselineResult, error) {
	path := fmt.Sprintf("baselineResults[%d]", idx)
	switch {
	case w.Algorithm == nil:
		return BaselineResult{}, missing(path + ".algorithm")
	case w.RawCost == nil:
		return BaselineResult{}, missing(path + ".rawCost")
	case w.RawBalance == nil:
		return BaselineResult{}, missing(path + ".rawBalance")
	case w.WeightedScore == nil:
		return BaselineResult{}, missing(path + ".weightedScore")
	case w.Movements == nil:
		return BaselineResult{}, missing(path + ".movements")
	case w.ExecutionTimeMs == nil:
		return BaselineResult{}, missing(path + ".executionTimeMs")
	}
	b := BaselineResult{
		Algorithm:       *w.Algorithm,
		RawCost:         *w.RawCost,
		RawBalance:      *w.RawBalance,
		WeightedScore:   *w.WeightedScore,
		Movements:       *w.Movements,
		ExecutionTimeMs: *w.ExecutionTimeMs,
	}
	if w.Feasible != nil {
		b.Feasible = *w.Feasible
	}
	if w.Disruption != nil {
		b.Disruption = Metric(*w.Disruption)
	}
	return b, nil
}

func convertComparison(w wireComparison) (ComparisonMetrics, error) {
	if w.ProposedBest == nil {
		return ComparisonMetrics{}, missing("comparisonMetrics.nsgaiiBest")
	}
	if w.Performance == nil {
		return ComparisonMetrics{}, missing("comparisonMetrics.performanceComparison")
	}
	if w.Performance.ProposedTimeMs == nil {
		return ComparisonMetrics{}, missing("comparisonMetrics.performanceComparison.nsgaiiExecutionTimeMs")
	}
	if w.Performance.FastestBaselineTimeMs == nil {
		return ComparisonMetrics{}, missing("comparisonMetrics.performanceComparison.fastestBaselineTimeMs")
	}
	best, err := convertSolution(*w.ProposedBest, "comparisonMetrics.nsgaiiBest")
	if err != nil {
		return ComparisonMetrics{}, err
	}
	return ComparisonMetrics{
		ProposedBest: best,
		Performance: PerformanceComparison{
			ProposedTimeMs:        *w.Performance.ProposedTimeMs,
			FastestBaseline:       w.Performance.FastestBaseline,
			FastestBaselineTimeMs: *w.Performance.FastestBaselineTimeMs,
		},
	}, nil
}

// LoadGlob expands the given glob patterns, loads every matching document and
// returns the runs that loaded cleanly, in sorted file order. Documents that
// fail to load are logged and skipped, mirroring the per-file tolerance of
// the original analysis workflow.
func LoadGlob(logger klog.Logger, patterns ...string) ([]Run, error) {
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			// Keep literal paths so missing files surface as load errors.
			matches = []string{p}
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	runs := make([]Run, 0, len(files))
	for _, f := range files {
		run, err := Load(f)
		if err != nil {
			logger.Error(err, "Skipping result file", "file", f)
			continue
		}
		logger.V(1).Info("Loaded result file", "file", f, "rounds", len(run.Rounds))
		runs = append(runs, run)
	}
	return runs, nil
}
