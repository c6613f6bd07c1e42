// Package results defines the schema of the optimization result documents
// produced by the multiobjective descheduler test harness, and a loader that
// validates them once at the file boundary. Everything downstream of the
// loader works with the value types in this file and never probes JSON keys.
package results

// WeightProfile holds the relative importance of each objective for a run.
type WeightProfile struct {
	Cost       float64 `json:"Cost"`
	Disruption float64 `json:"Disruption"`
	Balance    float64 `json:"Balance"`
}

// NodeSpec describes one node of the test cluster.
type NodeSpec struct {
	Name      string  `json:"Name"`
	CPU       float64 `json:"CPU"`
	Mem       float64 `json:"Mem"`
	Type      string  `json:"Type"`
	Region    string  `json:"Region"`
	Lifecycle string  `json:"Lifecycle"`
}

// PodSpec describes one pod of the test workload.
type PodSpec struct {
	Name       string  `json:"Name"`
	CPU        float64 `json:"CPU"`
	Mem        float64 `json:"Mem"`
	Node       int     `json:"Node"`
	RS         string  `json:"RS"`
	MaxUnavail int     `json:"MaxUnavail"`
}

// TestCase identifies the scenario a run was executed against.
type TestCase struct {
	Name          string
	Nodes         []NodeSpec
	Pods          []PodSpec
	WeightProfile WeightProfile
}

// AlgorithmConfig records the optimizer parameters used for the run.
type AlgorithmConfig struct {
	PopulationSize       int
	MaxGenerations       int
	CrossoverProbability float64
	MutationProbability  float64
	TournamentSize       int
	ParallelExecution    bool
}

// Solution is one point of a Pareto front. Cost, Disruption and Balance are
// the normalized minimization objectives; the Raw fields carry real-world
// units ($/hour, % standard deviation).
type Solution struct {
	Cost          float64
	Disruption    float64
	Balance       float64
	RawCost       float64
	RawBalance    float64
	Movements     int
	WeightedScore float64
	Feasible      bool
}

// NodeUtilization is the per-node load snapshot inside a ClusterState.
type NodeUtilization struct {
	NodeName   string
	CPUPercent float64
	MemPercent float64
	PodCount   int
	HourlyCost float64
}

// ClusterState is a cost/balance snapshot of the cluster at one point of a
// round (initial, intermediate after feasible moves, or target).
type ClusterState struct {
	TotalCost        float64
	BalancePercent   float64
	NodeUtilizations []NodeUtilization
}

// Improvements summarizes what a round gained over its initial state.
type Improvements struct {
	CostSavings        float64
	BalanceImprovement float64
}

// ObjectiveValues carries the objective vector for one cluster state.
type ObjectiveValues struct {
	Cost       float64
	Disruption float64
	Balance    float64
	RawCost    float64
	RawBalance float64
}

// ObjectiveChanges tracks how the objectives move from the initial state
// through the feasible intermediate state to the target state.
type ObjectiveChanges struct {
	Initial      ObjectiveValues
	Intermediate ObjectiveValues
	Target       ObjectiveValues
}

// FeasibleMoves reports how much of the round's target assignment was
// actually executable under PDB constraints.
type FeasibleMoves struct {
	FeasibleMoves      int
	TotalTargetMoves   int
	BlockedByPDB       int
	FeasibilityPercent float64
	ObjectiveChanges   ObjectiveChanges
}

// Round is one iteration of the rescheduling loop. Round numbers start at 1
// and increase strictly by one; the loader enforces this so the analysis
// engine does not have to.
type Round struct {
	Round             int
	ParetoFront       []Solution
	BestSolution      Solution
	InitialState      ClusterState
	IntermediateState ClusterState
	FinalState        ClusterState
	Improvements      Improvements
	FeasibleMoves     FeasibleMoves
}

// OptionalMetric is a float that may be structurally absent from the source
// document. Zero is a legitimate measured value (a placement-only baseline
// really does cause zero disruption), so absence is tracked separately
// instead of being collapsed onto 0.
type OptionalMetric struct {
	Value   float64
	Present bool
}

// Metric wraps a measured value as present.
func Metric(v float64) OptionalMetric {
	return OptionalMetric{Value: v, Present: true}
}

// BaselineResult is the outcome of one baseline scheduling algorithm on the
// same test case.
type BaselineResult struct {
	Algorithm       string
	RawCost         float64
	RawBalance      float64
	Disruption      OptionalMetric
	WeightedScore   float64
	Movements       int
	Feasible        bool
	ExecutionTimeMs float64
}

// PerformanceComparison holds the execution-time comparison the optimizer
// recorded against its baselines.
type PerformanceComparison struct {
	ProposedTimeMs        float64
	FastestBaseline       string
	FastestBaselineTimeMs float64
}

// ComparisonMetrics is the optimizer's own summary of how its best solution
// compares to the baselines.
type ComparisonMetrics struct {
	ProposedBest Solution
	Performance  PerformanceComparison
}

// FinalResults is the run-level convergence summary.
type FinalResults struct {
	TotalRounds       int
	ConvergedAtRound  int
	ConvergenceReason string
	TotalCostSavings  float64
	FinalParetoSize   int
}

// Run is one complete optimization result document. Runs are read-only after
// loading; the analysis packages never mutate them.
type Run struct {
	SourceFile string
	Timestamp  string
	TestCase   TestCase
	Algorithm  AlgorithmConfig
	Rounds     []Round
	Baselines  []BaselineResult
	Final      FinalResults
	Comparison ComparisonMetrics
}
