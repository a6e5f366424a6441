package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/powerflow"
	"github.com/radekizk/mvbench/resultset"
	"github.com/radekizk/mvbench/shortcircuit"
	"github.com/radekizk/mvbench/snapshot"
	"github.com/radekizk/mvbench/solverinput"
	"github.com/radekizk/mvbench/ybus"
)

// record is the engine's private bookkeeping for one Run: the public
// Run plus the frozen envelope and readiness snapshot execute_run
// needs, and the ResultSet once one exists.
type record struct {
	run       *Run
	envelope  *solverinput.SolverInputEnvelope
	readiness snapshot.ReadinessProfile
	result    *resultset.ResultSet
}

// Engine owns the Run and ResultSet stores. Per §4.9/§5 it is
// single-threaded in its numeric work; the mutex only protects the
// copy-on-write store swaps, never a solver call.
type Engine struct {
	mu      sync.Mutex
	records map[string]*record
	logger  zerolog.Logger
	metrics *Metrics
}

// New constructs an Engine. logger is the structured sink the engine
// writes Run lifecycle events to; solvers themselves never log (§5).
func New(logger zerolog.Logger, metrics *Metrics) *Engine {
	return &Engine{records: map[string]*record{}, logger: logger, metrics: metrics}
}

// now renders a fixed-width UTC timestamp so that string order equals
// time order (ListRunsForCase sorts on it).
func now() string { return time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00") }

// CreateRun gates on readiness/eligibility, freezes the envelope's
// hash, and stores a new Run in Pending (§4.9). readiness may be nil
// when the caller has no readiness profile to gate on (e.g. replaying
// a previously accepted envelope).
func (e *Engine) CreateRun(studyCaseID string, envelope *solverinput.SolverInputEnvelope, readiness *snapshot.ReadinessProfile) (*Run, error) {
	if readiness != nil {
		ready, reasons := readinessFor(envelope.AnalysisType, *readiness)
		if !ready {
			return nil, &errdomain.RunNotReadyError{Reasons: reasons}
		}
	}
	if !envelope.Eligibility.Eligible {
		return nil, &errdomain.RunBlockedError{Blockers: envelope.Eligibility.Blockers}
	}

	run := &Run{
		ID:              uuid.NewString(),
		StudyCaseID:     studyCaseID,
		AnalysisType:    string(envelope.AnalysisType),
		SolverInputHash: envelope.SolverInputHash,
		Status:          StatusPending,
		CreatedAt:       now(),
	}

	profile := snapshot.ReadinessProfile{}
	if readiness != nil {
		profile = *readiness
	}

	e.mu.Lock()
	next := make(map[string]*record, len(e.records)+1)
	for k, v := range e.records {
		next[k] = v
	}
	next[run.ID] = &record{run: run, envelope: envelope, readiness: profile}
	e.records = next
	e.mu.Unlock()

	e.logger.Info().Str("run_id", run.ID).Str("study_case_id", studyCaseID).Str("analysis_type", run.AnalysisType).Msg("run created")
	e.metrics.observeCreated(run.AnalysisType)

	return run, nil
}

// ExecuteRun drives id through Running to a terminal state and returns
// the final Run. It is idempotent: calling it again on a non-Pending
// Run returns the stored Run unchanged (§4.9 P5), including when two
// callers race to execute the same Pending run — claimPending makes
// the status check and the Pending->Running transition a single
// atomic step, so only one caller ever dispatches the solver.
func (e *Engine) ExecuteRun(id string) (*Run, error) {
	rec, claimed, err := e.claimPending(id)
	if err != nil {
		return nil, fmt.Errorf("engine: execute_run: %w", err)
	}
	if !claimed {
		return rec.run, nil
	}
	e.logger.Info().Str("run_id", id).Msg("run started")

	start := time.Now()
	result, err := e.dispatch(rec)
	e.metrics.observeDuration(rec.run.AnalysisType, time.Since(start).Seconds())

	finished := cloneRun(rec.run)
	finished.FinishedAt = now()
	if err != nil {
		finished.Status = StatusFailed
		finished.Error = err.Error()
		e.putRun(id, finished)
		e.logger.Error().Str("run_id", id).Err(err).Msg("run failed")
		e.metrics.observeFailed(rec.run.AnalysisType)

		return finished, nil
	}

	finished.Status = StatusDone
	e.putResult(id, finished, result)
	e.logger.Info().Str("run_id", id).Str("signature", result.DeterministicSignature).Msg("run done")
	e.metrics.observeDone(rec.run.AnalysisType)

	return finished, nil
}

func (e *Engine) dispatch(rec *record) (*resultset.ResultSet, error) {
	meta := resultset.Meta{
		RunID: rec.run.ID, AnalysisType: rec.run.AnalysisType,
		SolverInputHash: rec.run.SolverInputHash, CreatedAt: now(),
	}

	switch payload := rec.envelope.Payload.(type) {
	case *solverinput.LoadFlowPayload:
		asm, err := ybus.Assemble(payload.BaseMVA, payload.Nodes, payload.Lines, payload.Transformers, payload.Switches)
		if err != nil {
			return nil, err
		}
		result, err := powerflow.Solve(asm, payload.Nodes, payload.BaseMVA, powerflow.Options{
			MaxIterations: payload.MaxIterations, TolerancePU: payload.TolerancePU, TraceLevel: powerflow.TraceSummary,
		})
		if err != nil {
			return nil, err
		}

		return resultset.BuildFromPowerFlow(meta, result, rec.readiness)
	case *solverinput.ShortCircuitPayload:
		result, err := shortcircuit.Solve(payload)
		if err != nil {
			return nil, err
		}

		return resultset.BuildFromShortCircuit(meta, result, rec.readiness)
	default:
		return nil, fmt.Errorf("engine: unknown payload type %T", payload)
	}
}

// GetRun returns the current state of Run id.
func (e *Engine) GetRun(id string) (*Run, error) {
	rec, ok := e.getRecord(id)
	if !ok {
		return nil, fmt.Errorf("engine: get_run: %w", errdomain.ErrRunNotFound)
	}

	return rec.run, nil
}

// GetResultSet returns the ResultSet bound to Run id, if it completed.
func (e *Engine) GetResultSet(id string) (*resultset.ResultSet, error) {
	rec, ok := e.getRecord(id)
	if !ok {
		return nil, fmt.Errorf("engine: get_result_set: %w", errdomain.ErrRunNotFound)
	}
	if rec.result == nil {
		return nil, fmt.Errorf("engine: get_result_set: %w", errdomain.ErrResultSetNotFound)
	}

	return rec.result, nil
}

// ListRunsForCase returns every Run created for studyCaseID, newest
// first by creation time (§4.9).
func (e *Engine) ListRunsForCase(studyCaseID string) []*Run {
	e.mu.Lock()
	snap := e.records
	e.mu.Unlock()

	var out []*Run
	for _, rec := range snap {
		if rec.run.StudyCaseID == studyCaseID {
			out = append(out, rec.run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	return out
}

// GetLatestSuccessfulRun returns the newest Done Run for studyCaseID,
// or nil if none exists yet.
func (e *Engine) GetLatestSuccessfulRun(studyCaseID string) *Run {
	for _, r := range e.ListRunsForCase(studyCaseID) {
		if r.Status == StatusDone {
			return r
		}
	}

	return nil
}

// claimPending atomically checks status and transitions a Pending run
// to Running; claimed is false when the run was already past Pending,
// in which case rec reflects its current (unmodified) state.
func (e *Engine) claimPending(id string) (rec *record, claimed bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, ok := e.records[id]
	if !ok {
		return nil, false, errdomain.ErrRunNotFound
	}
	if old.run.Status != StatusPending {
		return old, false, nil
	}

	running := cloneRun(old.run)
	running.Status = StatusRunning
	running.StartedAt = now()

	next := make(map[string]*record, len(e.records))
	for k, v := range e.records {
		next[k] = v
	}
	claimedRec := &record{run: running, envelope: old.envelope, readiness: old.readiness}
	next[id] = claimedRec
	e.records = next

	return claimedRec, true, nil
}

func (e *Engine) getRecord(id string) (*record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[id]

	return rec, ok
}

func (e *Engine) putRun(id string, run *Run) {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.records[id]
	next := make(map[string]*record, len(e.records))
	for k, v := range e.records {
		next[k] = v
	}
	next[id] = &record{run: run, envelope: old.envelope, readiness: old.readiness, result: old.result}
	e.records = next
}

func (e *Engine) putResult(id string, run *Run, result *resultset.ResultSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.records[id]
	next := make(map[string]*record, len(e.records))
	for k, v := range e.records {
		next[k] = v
	}
	next[id] = &record{run: run, envelope: old.envelope, readiness: old.readiness, result: result}
	e.records = next
}

func cloneRun(r *Run) *Run {
	cp := *r

	return &cp
}

// readinessFor picks the readiness flag matching analysisType and
// collects the blocking issue codes for RunNotReadyError.Reasons.
func readinessFor(analysisType solverinput.AnalysisType, profile snapshot.ReadinessProfile) (bool, []string) {
	var ready bool
	switch analysisType {
	case solverinput.AnalysisShortCircuit:
		ready = profile.ShortCircuitReady
	default:
		ready = profile.LoadFlowReady
	}
	if ready {
		return true, nil
	}

	var reasons []string
	for _, iss := range profile.Issues {
		if iss.Priority == snapshot.PriorityBlocker {
			reasons = append(reasons, iss.Code)
		}
	}

	return false, reasons
}
