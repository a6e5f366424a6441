// Package errdomain collects the sentinel errors and typed failure
// values shared across the workbench (§7 of the specification). Every
// "expected" condition — readiness, eligibility — travels as plain data
// through its own package; errdomain is reserved for invariant
// violations and numeric failures that terminate a Run.
package errdomain

import (
	"errors"
	"fmt"

	"github.com/radekizk/mvbench/messages"
)

// Domain/invariant sentinels (§7 "Domain/Invariant").
var (
	ErrDuplicateIdentifier   = errors.New("errdomain: duplicate identifier")
	ErrDanglingReference     = errors.New("errdomain: dangling reference")
	ErrNotFound              = errors.New("errdomain: not found")
	ErrParameterInconsistent = errors.New("errdomain: parameter inconsistent")
	ErrValueDomain           = errors.New("errdomain: value outside supported domain")
)

// Run-gating sentinels (§7 "Run gating").
var (
	ErrRunNotFound       = errors.New("errdomain: run not found")
	ErrResultSetNotFound = errors.New("errdomain: result set not found")
)

// Numeric sentinels (§7 "Numeric").
var (
	ErrConvergenceFailure = errors.New("errdomain: convergence failure")
	ErrNumericalFailure   = errors.New("errdomain: numerical failure")
)

// Codec sentinels (§7 "Codec").
var (
	ErrCodecNonFinite       = errors.New("errdomain: non-finite value cannot be canonicalized")
	ErrCodecUnsupportedType = errors.New("errdomain: unsupported value type for canonicalization")
)

// RunNotReadyError reports that create_run was attempted against a
// readiness profile with ready=false. Reasons names the blocking issue
// codes, in the order the readiness profile produced them.
type RunNotReadyError struct {
	Reasons []string
}

func (e *RunNotReadyError) Error() string {
	return fmt.Sprintf("%s: %v", messages.Lookup("RunNotReady"), e.Reasons)
}

func (e *RunNotReadyError) Unwrap() error { return ErrValueDomain }

// RunBlockedError reports that create_run was attempted against an
// eligibility result with eligible=false. Blockers names the blocking
// codes (e.g. ELIG_SC1F_NO_Z0).
type RunBlockedError struct {
	Blockers []string
}

func (e *RunBlockedError) Error() string {
	return fmt.Sprintf("%s: %v", messages.Lookup("RunBlocked"), e.Blockers)
}

// ConvergenceFailureError carries the last mismatch observed before the
// Newton-Raphson iteration cap was reached.
type ConvergenceFailureError struct {
	LastMismatchPU float64
	Iterations     int
}

func (e *ConvergenceFailureError) Error() string {
	return fmt.Sprintf("%s: last_mismatch_pu=%g after %d iterations",
		messages.Lookup("ConvergenceFailure"), e.LastMismatchPU, e.Iterations)
}

func (e *ConvergenceFailureError) Unwrap() error { return ErrConvergenceFailure }

// NumericalFailureError wraps a numeric cause (singular Jacobian,
// singular Y-bus, …) that aborted a solver mid-computation.
type NumericalFailureError struct {
	Cause string
}

func (e *NumericalFailureError) Error() string {
	return fmt.Sprintf("%s: %s", messages.Lookup("NumericalFailure"), e.Cause)
}

func (e *NumericalFailureError) Unwrap() error { return ErrNumericalFailure }

// ErrorPayload is the wire shape mandated by §6: one entry per
// surfaced error, JSON-marshaled under the top-level "errors" key.
type ErrorPayload struct {
	Code       string     `json:"code"`
	MessagePL  string     `json:"message_pl"`
	ElementRef string     `json:"element_ref,omitempty"`
	FixAction  *FixAction `json:"fix_action,omitempty"`
}

// FixAction is an opaque record produced by readiness/eligibility
// diagnostics; the core never dispatches it, it only carries it (§6).
type FixAction struct {
	ActionType  string `json:"action_type"`
	ElementRef  string `json:"element_ref,omitempty"`
	ModalType   string `json:"modal_type,omitempty"`
	PayloadHint string `json:"payload_hint,omitempty"`
}

// NewErrorPayload builds the canonical payload for code, defaulting
// MessagePL from the closed table in messages.
func NewErrorPayload(code, elementRef string, fix *FixAction) ErrorPayload {
	return ErrorPayload{
		Code:       code,
		MessagePL:  messages.Lookup(code),
		ElementRef: elementRef,
		FixAction:  fix,
	}
}
