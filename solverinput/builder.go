package solverinput

import (
	"fmt"
	"sort"

	"github.com/radekizk/mvbench/catalog"
	"github.com/radekizk/mvbench/codec"
	"github.com/radekizk/mvbench/network"
)

const solverInputVersion = "1"

type resolver struct {
	repo  *catalog.Repository
	trace []ProvenanceEntry
}

func (r *resolver) fieldHash(v float64) string {
	fp, err := codec.Fingerprint(v)
	if err != nil {
		return ""
	}

	return fp
}

func (r *resolver) record(elementRef, fieldPath string, kind SourceKind, sourceRef string, value float64, unit string) {
	r.trace = append(r.trace, ProvenanceEntry{
		ElementRef: elementRef,
		FieldPath:  fieldPath,
		SourceKind: kind,
		SourceRef:  sourceRef,
		ValueHash:  r.fieldHash(value),
		Unit:       unit,
	})
}

// resolveField applies the Override > Catalog > Instance-defaults
// precedence (§4.5) for a single scalar field.
func (r *resolver) resolveField(elementRef, fieldPath string, override *float64, catalogValue *float64, catalogRef string, instanceValue float64, unit string) (float64, bool) {
	if override != nil {
		r.record(elementRef, fieldPath, SourceOverride, "instance_override", *override, unit)

		return *override, true
	}
	if catalogValue != nil {
		r.record(elementRef, fieldPath, SourceCatalog, catalogRef, *catalogValue, unit)

		return *catalogValue, true
	}
	if instanceValue != 0 {
		r.record(elementRef, fieldPath, SourceDerived, "instance_value", instanceValue, unit)

		return instanceValue, true
	}
	r.trace = append(r.trace, ProvenanceEntry{
		ElementRef: elementRef, FieldPath: fieldPath, SourceKind: SourceDerived, SourceRef: "no_source", Unit: unit,
	})

	return 0, false
}

// resolveOptionalField applies the same Override > Catalog >
// Instance-defaults precedence, but for fields whose zero value is
// physically meaningful (e.g. a line's shunt susceptance with no
// capacitive modeling) rather than a marker for "unset". It always
// resolves, so it never contributes a no_source blocker.
func (r *resolver) resolveOptionalField(elementRef, fieldPath string, override *float64, catalogValue *float64, catalogRef string, instanceValue float64, unit string) float64 {
	if override != nil {
		r.record(elementRef, fieldPath, SourceOverride, "instance_override", *override, unit)

		return *override
	}
	if catalogValue != nil {
		r.record(elementRef, fieldPath, SourceCatalog, catalogRef, *catalogValue, unit)

		return *catalogValue
	}
	r.record(elementRef, fieldPath, SourceDerived, "instance_value", instanceValue, unit)

	return instanceValue
}

// Build resolves graph + repo + caseConfig into a frozen envelope for
// analysisType. repo may be nil; every catalog-bound field then falls
// through to instance-defaults or "no_source".
func Build(graph *network.Graph, repo *catalog.Repository, caseConfig StudyCaseConfig, analysisType AnalysisType, caseID, enmRevision string) (*SolverInputEnvelope, error) {
	r := &resolver{repo: repo}

	nodes := sortedNodes(graph.Nodes())
	nodeSpecs := make([]NodeSpec, len(nodes))
	for i, n := range nodes {
		nodeSpecs[i] = NodeSpec{
			ID: n.ID, NodeType: string(n.NodeType), VoltageLevelKV: n.VoltageLevelKV,
			VMagPU: n.VMagPU, VAnglePU: n.VAnglePU, PMW: n.PMW, QMVAr: n.QMVAr,
			GridSk3MVA: n.GridSk3MVA, GridROverX: n.GridROverX,
		}
	}

	branches := sortedBranches(graph.Branches())
	var lines []LineElement
	var transformers []TransformerElement
	var blockers []string

	for _, b := range branches {
		if !b.IsInService() {
			continue
		}
		switch br := b.(type) {
		case *network.Line:
			le, ok := r.resolveLine(br.BranchID(), br.FromNodeID(), br.ToNodeID(), br.TypeRef, br.ImpedanceOverride, br.ROhmPerKm, br.XOhmPerKm, br.BUSPerKm, br.LengthKm, br.RatedCurrentA, catalog.LineCategory)
			lines = append(lines, le)
			if !ok {
				blockers = append(blockers, fmt.Sprintf("no_source:%s", br.BranchID()))
			}
		case *network.Cable:
			le, ok := r.resolveLine(br.BranchID(), br.FromNodeID(), br.ToNodeID(), br.TypeRef, br.ImpedanceOverride, br.ROhmPerKm, br.XOhmPerKm, br.BUSPerKm, br.LengthKm, br.RatedCurrentA, catalog.CableCategory)
			lines = append(lines, le)
			if !ok {
				blockers = append(blockers, fmt.Sprintf("no_source:%s", br.BranchID()))
			}
		case *network.Transformer:
			te, ok := r.resolveTransformer(br)
			transformers = append(transformers, te)
			if !ok {
				blockers = append(blockers, fmt.Sprintf("no_source:%s", br.BranchID()))
			}
		}
	}

	var switches []SwitchSpec
	for _, s := range sortedSwitches(graph.Switches()) {
		if !s.InService {
			continue
		}
		switches = append(switches, SwitchSpec{ID: s.ID, FromNodeID: s.FromNodeId, ToNodeID: s.ToNodeId, Closed: s.State == network.SwitchClosed})
	}

	sort.Slice(r.trace, func(i, j int) bool {
		if r.trace[i].ElementRef != r.trace[j].ElementRef {
			return r.trace[i].ElementRef < r.trace[j].ElementRef
		}

		return r.trace[i].FieldPath < r.trace[j].FieldPath
	})

	summary := map[string]int{}
	for _, t := range r.trace {
		summary[string(t.SourceKind)]++
	}

	var payload any
	switch analysisType {
	case AnalysisLoadFlow:
		payload = &LoadFlowPayload{
			BaseMVA: caseConfig.BaseMVA, TolerancePU: caseConfig.TolerancePU, MaxIterations: caseConfig.MaxIterations,
			Nodes: nodeSpecs, Lines: lines, Transformers: transformers, Switches: switches,
		}
	case AnalysisShortCircuit:
		var inverters []InverterSpec
		for _, s := range sortedInverters(graph.InverterSources()) {
			if !s.InService {
				continue
			}
			inverters = append(inverters, InverterSpec{
				ID: s.ID, NodeID: s.NodeID, InRatedA: s.InRatedA, KSc: s.KSc,
				ContributesNegativeSequence: s.ContributesNegativeSequence, ContributesZeroSequence: s.ContributesZeroSequence,
			})
		}
		if caseConfig.FaultNodeID == "" {
			blockers = append(blockers, "ELIG_FAULT_NODE_EMPTY")
		}
		if !anySlackHasGridSource(nodeSpecs) {
			blockers = append(blockers, "ELIG_NO_GRID_SOURCE")
		}
		if (caseConfig.FaultType == Fault1F || caseConfig.FaultType == Fault2FG) && !caseConfig.Z0Available {
			blockers = append(blockers, "ELIG_SC1F_NO_Z0")
		}
		payload = &ShortCircuitPayload{
			BaseMVA: caseConfig.BaseMVA, Nodes: nodeSpecs, Lines: lines, Transformers: transformers, Switches: switches,
			InverterSources: inverters, FaultNodeID: caseConfig.FaultNodeID, FaultType: caseConfig.FaultType,
			VoltageFactorC: caseConfig.VoltageFactorC, FaultDurationS: caseConfig.FaultDurationS,
			Z0Available: caseConfig.Z0Available, IncludeInverterContributions: caseConfig.IncludeInverterContributions,
		}
	default:
		return nil, fmt.Errorf("solverinput: unknown analysis type %q", analysisType)
	}

	sort.Strings(blockers)
	envelope := &SolverInputEnvelope{
		SolverInputVersion: solverInputVersion,
		CaseID:              caseID,
		EnmRevision:          enmRevision,
		AnalysisType:         analysisType,
		Eligibility:          Eligibility{Eligible: len(blockers) == 0, Blockers: blockers},
		ProvenanceSummary:    summary,
		Payload:              payload,
		Trace:                r.trace,
	}

	hash, err := codec.Fingerprint(envelope.ToCanonicalValue())
	if err != nil {
		return nil, fmt.Errorf("solverinput: fingerprint: %w", err)
	}
	envelope.SolverInputHash = hash

	return envelope, nil
}

func (r *resolver) resolveLine(id, fromID, toID, typeRef string, override *network.ImpedanceOverride, instR, instX, instB, lengthKm, ratedA float64, cat catalog.Category) (LineElement, bool) {
	le := LineElement{RefID: id, FromNodeID: fromID, ToNodeID: toID, LengthKm: lengthKm, RatedCurrentA: ratedA}

	var catR, catX, catB *float64
	var catalogRef string
	if typeRef != "" && r.repo != nil {
		if t, ok := r.repo.Get(cat, typeRef); ok {
			switch ct := t.(type) {
			case *catalog.LineType:
				catR, catX, catB = &ct.ROhmPerKm, &ct.XOhmPerKm, &ct.BUSPerKm
			case *catalog.CableType:
				catR, catX, catB = &ct.ROhmPerKm, &ct.XOhmPerKm, &ct.BUSPerKm
			}
			catalogRef = typeRef
		}
	}

	var overrideR, overrideX, overrideB *float64
	if override != nil {
		overrideR, overrideX, overrideB = &override.ROhm, &override.XOhm, &override.BUS
	}

	allOK := true
	var ok bool
	le.ROhmPerKm, ok = r.resolveField(id, "r_ohm_per_km", overrideR, catR, catalogRef, instR, "ohm_per_km")
	allOK = allOK && ok
	le.XOhmPerKm, ok = r.resolveField(id, "x_ohm_per_km", overrideX, catX, catalogRef, instX, "ohm_per_km")
	allOK = allOK && ok
	le.BUSPerKm = r.resolveOptionalField(id, "b_us_per_km", overrideB, catB, catalogRef, instB, "us_per_km")

	return le, allOK
}

func (r *resolver) resolveTransformer(tr *network.Transformer) (TransformerElement, bool) {
	te := TransformerElement{
		RefID: tr.BranchID(), FromNodeID: tr.FromNodeID(), ToNodeID: tr.ToNodeID(),
		TapPosition: tr.TapPosition, TapStepPercent: tr.TapStepPercent,
	}

	var catRated, catHv, catLv, catUk, catPk *float64
	var catalogRef string
	if tr.TypeRef != "" && r.repo != nil {
		if t, ok := r.repo.Get(catalog.TransformerCategory, tr.TypeRef); ok {
			ct := t.(*catalog.TransformerType)
			catRated, catHv, catLv, catUk, catPk = &ct.RatedPowerMVA, &ct.VHvKV, &ct.VLvKV, &ct.UkPercent, &ct.PkKW
			catalogRef = tr.TypeRef
		}
	}

	allOK := true
	var ok bool
	te.RatedPowerMVA, ok = r.resolveField(te.RefID, "rated_power_mva", nil, catRated, catalogRef, tr.RatedPowerMVA, "mva")
	allOK = allOK && ok
	te.VHvKV, ok = r.resolveField(te.RefID, "v_hv_kv", nil, catHv, catalogRef, tr.VHvKV, "kv")
	allOK = allOK && ok
	te.VLvKV, ok = r.resolveField(te.RefID, "v_lv_kv", nil, catLv, catalogRef, tr.VLvKV, "kv")
	allOK = allOK && ok
	te.UkPercent, ok = r.resolveField(te.RefID, "uk_percent", nil, catUk, catalogRef, tr.UkPercent, "percent")
	allOK = allOK && ok
	te.PkKW, ok = r.resolveField(te.RefID, "pk_kw", nil, catPk, catalogRef, tr.PkKW, "kw")
	allOK = allOK && ok

	return te, allOK
}

// anySlackHasGridSource reports whether at least one Slack node carries
// a positive short-circuit power; without it the Y-bus the assembler
// builds has no ground reference and Zbus cannot be formed (§4.6/§4.8).
func anySlackHasGridSource(nodes []NodeSpec) bool {
	for _, n := range nodes {
		if n.NodeType == "Slack" && n.GridSk3MVA > 0 {
			return true
		}
	}

	return false
}

func sortedNodes(m map[string]*network.Node) []*network.Node {
	out := make([]*network.Node, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func sortedBranches(m map[string]network.Branch) []network.Branch {
	out := make([]network.Branch, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchID() < out[j].BranchID() })

	return out
}

func sortedSwitches(m map[string]*network.Switch) []*network.Switch {
	out := make([]*network.Switch, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func sortedInverters(m map[string]*network.InverterSource) []*network.InverterSource {
	out := make([]*network.InverterSource, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
