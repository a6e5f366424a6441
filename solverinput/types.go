// Package solverinput resolves a network.Graph plus a catalog.Repository
// and a StudyCaseConfig into a frozen SolverInputEnvelope with a
// per-field provenance trace (§4.5). Nothing downstream of Build ever
// looks at the graph or catalog directly again — C7/C8 only see the
// envelope's payload.
package solverinput

// SourceKind names where a resolved field's value came from.
type SourceKind string

const (
	SourceOverride SourceKind = "Override"
	SourceCatalog  SourceKind = "Catalog"
	SourceDerived  SourceKind = "Derived"
)

// AnalysisType selects which payload shape Build produces.
type AnalysisType string

const (
	AnalysisShortCircuit AnalysisType = "ShortCircuit"
	AnalysisLoadFlow     AnalysisType = "LoadFlow"
)

// FaultType enumerates the IEC 60909 fault configurations C8 accepts.
type FaultType string

const (
	Fault3F  FaultType = "3F"
	Fault2F  FaultType = "2F"
	Fault1F  FaultType = "1F"
	Fault2FG FaultType = "2FG"
)

// StudyCaseConfig carries the engineering parameters an analysis runs
// under; it is a plain value struct, never hidden behind a UoW/service
// locator (§9 redesign flag).
type StudyCaseConfig struct {
	BaseMVA        float64
	TolerancePU    float64
	MaxIterations  int
	FaultType      FaultType
	FaultNodeID    string
	VoltageFactorC float64
	FaultDurationS float64
	Z0Available    bool
	IncludeInverterContributions bool
}

// ProvenanceEntry records how one resolved field got its value (§3).
type ProvenanceEntry struct {
	ElementRef string
	FieldPath  string
	SourceKind SourceKind
	SourceRef  string
	ValueHash  string
	Unit       string
	Note       string
}

// Eligibility is returned alongside the envelope even when false, so
// diagnostics stay complete (§4.5).
type Eligibility struct {
	Eligible bool
	Blockers []string
}

// LineElement is a resolved Line or Cable ready for the bus-admittance
// assembler.
type LineElement struct {
	RefID         string
	FromNodeID    string
	ToNodeID      string
	ROhmPerKm     float64
	XOhmPerKm     float64
	BUSPerKm      float64
	LengthKm      float64
	RatedCurrentA float64
}

// TransformerElement is a resolved Transformer ready for the
// bus-admittance assembler.
type TransformerElement struct {
	RefID          string
	FromNodeID     string
	ToNodeID       string
	RatedPowerMVA  float64
	VHvKV          float64
	VLvKV          float64
	UkPercent      float64
	PkKW           float64
	TapPosition    int
	TapStepPercent float64
}

// NodeSpec is a resolved Node ready for the bus-admittance assembler
// and, for load flow, for the Newton–Raphson state vector.
type NodeSpec struct {
	ID             string
	NodeType       string
	VoltageLevelKV float64
	VMagPU         float64
	VAnglePU       float64
	PMW            float64
	QMVAr          float64
	// GridSk3MVA and GridROverX carry the Slack node's upstream grid
	// equivalent through to the bus-admittance assembler (§4.6), which
	// stamps it as a shunt-to-ground at the Slack row. Zero on PV/PQ
	// nodes.
	GridSk3MVA float64
	GridROverX float64
}

// SwitchSpec mirrors network.Switch for the assembler, which needs
// live state to decide open/closed handling (§4.6 step 4).
type SwitchSpec struct {
	ID         string
	FromNodeID string
	ToNodeID   string
	Closed     bool
}

// LoadFlowPayload is the C7 input shape.
type LoadFlowPayload struct {
	BaseMVA       float64
	TolerancePU   float64
	MaxIterations int
	Nodes         []NodeSpec
	Lines         []LineElement
	Transformers  []TransformerElement
	Switches      []SwitchSpec
}

// ShortCircuitPayload is the C8 input shape.
type ShortCircuitPayload struct {
	BaseMVA                       float64
	Nodes                         []NodeSpec
	Lines                         []LineElement
	Transformers                  []TransformerElement
	Switches                      []SwitchSpec
	InverterSources               []InverterSpec
	FaultNodeID                   string
	FaultType                     FaultType
	VoltageFactorC                float64
	FaultDurationS                float64
	Z0Available                   bool
	IncludeInverterContributions  bool
}

// InverterSpec is a resolved InverterSource for C8's contribution split.
type InverterSpec struct {
	ID                          string
	NodeID                      string
	InRatedA                    float64
	KSc                         float64
	ContributesNegativeSequence bool
	ContributesZeroSequence     bool
}

// SolverInputEnvelope is the frozen, fingerprinted unit C9 creates a
// Run from (§3, §4.5).
type SolverInputEnvelope struct {
	SolverInputVersion string
	CaseID             string
	EnmRevision        string
	AnalysisType       AnalysisType
	Eligibility        Eligibility
	ProvenanceSummary  map[string]int
	Payload            any
	Trace              []ProvenanceEntry
	SolverInputHash    string
}

// ToCanonicalValue implements codec.Canonicalizer.
func (e *SolverInputEnvelope) ToCanonicalValue() any {
	trace := make([]any, len(e.Trace))
	for i, t := range e.Trace {
		trace[i] = map[string]any{
			"element_ref": t.ElementRef,
			"field_path":  t.FieldPath,
			"source_kind": string(t.SourceKind),
			"source_ref":  t.SourceRef,
			"value_hash":  t.ValueHash,
			"unit":        t.Unit,
		}
	}

	return map[string]any{
		"solver_input_version": e.SolverInputVersion,
		"case_id":              e.CaseID,
		"enm_revision":         e.EnmRevision,
		"analysis_type":        string(e.AnalysisType),
		"eligibility": map[string]any{
			"eligible": e.Eligibility.Eligible,
			"blockers": toAnySlice(e.Eligibility.Blockers),
		},
		"provenance_summary": e.ProvenanceSummary,
		"payload":            payloadCanonicalValue(e.Payload),
		"trace":              trace,
	}
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}

	return out
}
