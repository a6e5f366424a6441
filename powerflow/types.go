// Package powerflow implements the Newton-Raphson power-flow solver of
// §4.7: nodal mismatch equations over a bus-admittance matrix, solved
// by analytic Jacobian and partial-pivoted LU, with post-processing of
// branch flows and losses.
package powerflow

// TraceLevel selects how much of the iteration history Solve records.
type TraceLevel string

const (
	TraceFull    TraceLevel = "full"
	TraceSummary TraceLevel = "summary"
)

// Options configures one Solve call.
type Options struct {
	MaxIterations int
	TolerancePU   float64
	TraceLevel    TraceLevel
}

// IterationRecord is one entry of the white-box NR trace.
type IterationRecord struct {
	Iteration     int
	NormMismatch  float64
	MaxMismatchPU float64
	CauseIfFailed string
}

// NodeResult is the per-bus outcome after convergence.
type NodeResult struct {
	ID        string
	VMagPU    float64
	VAngleDeg float64
	VKV       float64
	PMW       float64
	QMVAr     float64
}

// BranchFlow is the per-branch power flow and loss after convergence.
type BranchFlow struct {
	RefID        string
	FromNodeID   string
	ToNodeID     string
	PFromMW      float64
	QFromMVAr    float64
	PToMW        float64
	QToMVAr      float64
	LossPMW      float64
	LossQMVAr    float64
}

// Result is the full outcome of a power-flow Solve call.
type Result struct {
	Converged          bool
	Iterations         int
	Trace              []IterationRecord
	Nodes              []NodeResult
	Branches           []BranchFlow
	TotalLossesPMW     float64
	TotalLossesQMVAr   float64
	SlackInjectionPMW  float64
	SlackInjectionQMVAr float64
}
