package resultset

import (
	"fmt"
	"sort"

	"github.com/radekizk/mvbench/codec"
	"github.com/radekizk/mvbench/powerflow"
	"github.com/radekizk/mvbench/shortcircuit"
	"github.com/radekizk/mvbench/snapshot"
)

// Meta carries the identifying fields every ResultSet shares,
// regardless of which solver produced it.
type Meta struct {
	RunID           string
	AnalysisType    string
	SolverInputHash string
	CreatedAt       string
}

// BuildFromPowerFlow assembles a ResultSet from a converged C7 result
// (§4.10): V_PU/ANGLE_DEG per node, total losses and slack injection
// as global results (per-branch flows are not included), badges from
// the readiness profile captured at create_run time.
func BuildFromPowerFlow(meta Meta, result *powerflow.Result, profile snapshot.ReadinessProfile) (*ResultSet, error) {
	elementRefs := make([]string, 0, len(result.Nodes))
	byRef := make(map[string][]MetricValue, len(result.Nodes))
	for _, n := range result.Nodes {
		elementRefs = append(elementRefs, n.ID)
		byRef[n.ID] = []MetricValue{
			{Code: "V_PU", Value: n.VMagPU, Unit: "pu", FormatHint: "%.4f"},
			{Code: "ANGLE_DEG", Value: n.VAngleDeg, Unit: "deg", FormatHint: "%.3f"},
		}
	}
	sort.Strings(elementRefs)

	elements := make([]ElementResult, 0, len(elementRefs))
	overlay := make([]OverlayElement, 0, len(elementRefs))
	for _, ref := range elementRefs {
		elements = append(elements, ElementResult{ElementRef: ref, Metrics: byRef[ref], Badges: badgesForElement(ref, profile.Issues)})
		overlay = append(overlay, overlayTokensFor(ref, profile.Issues))
	}

	global := []MetricValue{
		{Code: "TOTAL_LOSS_P_MW", Value: result.TotalLossesPMW, Unit: "mw", FormatHint: "%.4f"},
		{Code: "TOTAL_LOSS_Q_MVAR", Value: result.TotalLossesQMVAr, Unit: "mvar", FormatHint: "%.4f"},
		{Code: "SLACK_INJECTION_P_MW", Value: result.SlackInjectionPMW, Unit: "mw", FormatHint: "%.4f"},
		{Code: "SLACK_INJECTION_Q_MVAR", Value: result.SlackInjectionQMVAr, Unit: "mvar", FormatHint: "%.4f"},
	}

	rs := &ResultSet{
		ContractVersion: contractVersion,
		RunID:           meta.RunID,
		AnalysisType:    meta.AnalysisType,
		SolverInputHash: meta.SolverInputHash,
		CreatedAt:       meta.CreatedAt,
		GlobalResults:   global,
		ElementResults:  elements,
		OverlayPayload:  OverlayPayload{Elements: overlay, Legend: legend},
	}

	return sign(rs)
}

// BuildFromShortCircuit assembles a ResultSet from a C8 fault result
// (§4.10): the fault node carries the current/thermal metrics, global
// results carry Sk/kappa, badges/overlay reuse the same readiness
// profile as load flow.
func BuildFromShortCircuit(meta Meta, result *shortcircuit.FaultResult, profile snapshot.ReadinessProfile) (*ResultSet, error) {
	ikCode := "IK_3F_A"
	switch result.FaultType {
	case "2F":
		ikCode = "IK_2F_A"
	case "1F":
		ikCode = "IK_1F_A"
	case "2FG":
		ikCode = "IK_2FG_A"
	}

	faultMetrics := []MetricValue{
		{Code: ikCode, Value: result.IkssA, Unit: "a", FormatHint: "%.1f"},
		{Code: "IP_A", Value: result.IpA, Unit: "a", FormatHint: "%.1f"},
		{Code: "ITH_A", Value: result.IthA, Unit: "a", FormatHint: "%.1f"},
	}

	elements := []ElementResult{
		{ElementRef: result.FaultNodeID, Metrics: faultMetrics, Badges: badgesForElement(result.FaultNodeID, profile.Issues)},
	}
	overlay := []OverlayElement{overlayTokensFor(result.FaultNodeID, profile.Issues)}

	global := []MetricValue{
		{Code: "SK_MVA", Value: result.SkMVA, Unit: "mva", FormatHint: "%.3f"},
		{Code: "KAPPA", Value: result.Kappa, Unit: "1", FormatHint: "%.4f"},
	}

	rs := &ResultSet{
		ContractVersion: contractVersion,
		RunID:           meta.RunID,
		AnalysisType:    meta.AnalysisType,
		SolverInputHash: meta.SolverInputHash,
		CreatedAt:       meta.CreatedAt,
		GlobalResults:   global,
		ElementResults:  elements,
		OverlayPayload:  OverlayPayload{Elements: overlay, Legend: legend},
	}

	return sign(rs)
}

// sign computes deterministic_signature over signaturePayload, which
// excludes run_id/created_at/the signature field itself (I8/P6), then
// stores it.
func sign(rs *ResultSet) (*ResultSet, error) {
	fp, err := codec.Fingerprint(rs.signaturePayload())
	if err != nil {
		return nil, fmt.Errorf("resultset: sign: %w", err)
	}
	rs.DeterministicSignature = fp

	return rs, nil
}
