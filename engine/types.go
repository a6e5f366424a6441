// Package engine implements the Execution Engine (C9): the Run state
// machine, its gating against readiness/eligibility, dispatch to the
// C7/C8 solvers via the C6 assembler, and the copy-on-write Run/
// ResultSet stores (§4.9).
package engine

// Status is a Run's lifecycle state. Transitions are monotonic:
// Pending -> Running -> (Done | Failed); nothing ever moves backward.
type Status string

const (
	StatusPending Status = "Pending"
	StatusRunning Status = "Running"
	StatusDone    Status = "Done"
	StatusFailed  Status = "Failed"
)

// Run is one analysis attempt against a frozen solver-input envelope.
type Run struct {
	ID              string
	StudyCaseID     string
	AnalysisType    string
	SolverInputHash string
	Status          Status
	CreatedAt       string
	StartedAt       string
	FinishedAt      string
	Error           string
}

// ToCanonicalValue implements codec.Canonicalizer.
func (r *Run) ToCanonicalValue() any {
	return map[string]any{
		"id":                r.ID,
		"study_case_id":     r.StudyCaseID,
		"analysis_type":     r.AnalysisType,
		"solver_input_hash": r.SolverInputHash,
		"status":            string(r.Status),
		"created_at":        r.CreatedAt,
		"started_at":        r.StartedAt,
		"finished_at":       r.FinishedAt,
		"error":             r.Error,
	}
}
