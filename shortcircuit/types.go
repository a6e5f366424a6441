// Package shortcircuit implements the IEC 60909 short-circuit solver
// (§4.8): Zbus construction via the positive-sequence Y-bus, the
// canonical fault current formulas, kappa and thermal-equivalent
// current, and the white-box trace every fault result carries.
package shortcircuit

import "github.com/radekizk/mvbench/solverinput"

// ContributionKind tags a fault-current contribution's physical source.
type ContributionKind string

const (
	ContributionThevenin ContributionKind = "Thevenin"
	ContributionInverter ContributionKind = "Inverter"
)

// Contribution is one source's share of the initial fault current
// (§4.8 step 9).
type Contribution struct {
	SourceID  string
	Kind      ContributionKind
	CurrentA  float64
	Share     float64
}

// TraceStep is one entry of the white-box trace (§4.8 "White-box trace").
type TraceStep struct {
	Key          string
	TitlePL      string
	FormulaLatex string
	Inputs       map[string]string
	Substitution string
	Result       string
}

// FaultResult is the full outcome of Solve.
type FaultResult struct {
	FaultNodeID   string
	FaultType     solverinput.FaultType
	ZkOhm         complex128
	Kappa         float64
	IkssA         float64
	IpA           float64
	IbA           float64
	IthA          float64
	SkMVA         float64
	Contributions []Contribution
	Trace         []TraceStep
	Warnings      []string
}
