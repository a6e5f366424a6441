// Package network holds the in-memory one-line network graph: nodes,
// branches, switches, and inverter sources, plus the connectivity
// queries readiness and the solver-input builder depend on (§4.2 of
// the specification).
//
// Branch is a closed tagged variant (Line | Cable | Transformer)
// rather than a stringly-typed "branch_type" field dispatched at
// runtime — the redesign §9 calls for explicitly. A string tag only
// reappears at the canonical-value boundary, where every artifact must
// be representable as a plain JSON tree.
package network

// NodeType enumerates the electrical role of a Node.
type NodeType string

const (
	NodeSlack NodeType = "Slack"
	NodePV    NodeType = "PV"
	NodePQ    NodeType = "PQ"
)

// Node is one bus of the one-line diagram.
type Node struct {
	ID             string
	Name           string
	NodeType       NodeType
	VoltageLevelKV float64
	VMagPU         float64
	VAnglePU       float64 // radians
	PMW            float64
	QMVAr          float64
	InService      bool
	// GridSk3MVA and GridROverX describe the upstream grid's Thevenin
	// equivalent behind a Slack node (three-phase short-circuit power
	// and R/X ratio); meaningless on PV/PQ nodes. GridROverX defaults
	// to 0.1 (a typical HV source ratio) when left at zero.
	GridSk3MVA float64
	GridROverX float64
}

// ToCanonicalValue implements codec.Canonicalizer.
func (n *Node) ToCanonicalValue() any {
	return map[string]any{
		"id":               n.ID,
		"name":             n.Name,
		"node_type":        string(n.NodeType),
		"voltage_level_kv": n.VoltageLevelKV,
		"v_mag_pu":         n.VMagPU,
		"v_angle_rad":      n.VAnglePU,
		"p_mw":             n.PMW,
		"q_mvar":           n.QMVAr,
		"in_service":       n.InService,
		"grid_sk3_mva":     n.GridSk3MVA,
		"grid_r_over_x":    n.GridROverX,
	}
}

// BranchKind tags which variant a Branch value holds.
type BranchKind string

const (
	BranchLine        BranchKind = "Line"
	BranchCable       BranchKind = "Cable"
	BranchTransformer BranchKind = "Transformer"
)

// Branch is implemented by Line, Cable and Transformer. Dispatch on
// Kind() replaces runtime type dispatch on a stringly-typed field; the
// string only reappears inside ToCanonicalValue.
type Branch interface {
	BranchID() string
	BranchName() string
	FromNodeID() string
	ToNodeID() string
	IsInService() bool
	Kind() BranchKind
	ToCanonicalValue() any
}

// branchCommon factors the fields every Branch variant shares.
type branchCommon struct {
	ID         string
	Name       string
	FromNodeId string
	ToNodeId   string
	InService  bool
}

func (b branchCommon) BranchID() string   { return b.ID }
func (b branchCommon) BranchName() string { return b.Name }
func (b branchCommon) FromNodeID() string { return b.FromNodeId }
func (b branchCommon) ToNodeID() string   { return b.ToNodeId }
func (b branchCommon) IsInService() bool  { return b.InService }

// ImpedanceOverride lets a line/cable instance bypass catalog-resolved
// impedance entirely; the solver-input builder treats a non-nil
// override as the highest-precedence source (§4.5). The builder uses
// the values as per-kilometre figures, in place of the catalog's
// r/x/b per km, so they are multiplied by the branch's LengthKm.
type ImpedanceOverride struct {
	ROhm float64 // ohm per km
	XOhm float64 // ohm per km
	BUS  float64 // susceptance, microsiemens per km
}

// Line is an overhead MV line branch.
type Line struct {
	branchCommon
	ROhmPerKm         float64
	XOhmPerKm         float64
	BUSPerKm          float64
	LengthKm          float64
	RatedCurrentA     float64
	TypeRef           string
	ImpedanceOverride *ImpedanceOverride
}

// NewLine constructs a Line branch with the common fields every
// Branch variant carries.
func NewLine(id, name, fromNodeID, toNodeID string, inService bool) *Line {
	return &Line{branchCommon: branchCommon{ID: id, Name: name, FromNodeId: fromNodeID, ToNodeId: toNodeID, InService: inService}}
}

func (l *Line) Kind() BranchKind { return BranchLine }

func (l *Line) ToCanonicalValue() any {
	v := map[string]any{
		"id":              l.ID,
		"name":            l.Name,
		"branch_type":     string(BranchLine),
		"from_node_id":    l.FromNodeId,
		"to_node_id":      l.ToNodeId,
		"in_service":      l.InService,
		"r_ohm_per_km":    l.ROhmPerKm,
		"x_ohm_per_km":    l.XOhmPerKm,
		"b_us_per_km":     l.BUSPerKm,
		"length_km":       l.LengthKm,
		"rated_current_a": l.RatedCurrentA,
		"type_ref":        l.TypeRef,
	}
	if l.ImpedanceOverride != nil {
		v["impedance_override"] = map[string]any{
			"r_ohm": l.ImpedanceOverride.ROhm,
			"x_ohm": l.ImpedanceOverride.XOhm,
			"b_us":  l.ImpedanceOverride.BUS,
		}
	}

	return v
}

// Cable is an underground MV cable branch; identical shape to Line.
type Cable struct {
	branchCommon
	ROhmPerKm         float64
	XOhmPerKm         float64
	BUSPerKm          float64
	LengthKm          float64
	RatedCurrentA     float64
	TypeRef           string
	ImpedanceOverride *ImpedanceOverride
}

// NewCable constructs a Cable branch with the common fields every
// Branch variant carries.
func NewCable(id, name, fromNodeID, toNodeID string, inService bool) *Cable {
	return &Cable{branchCommon: branchCommon{ID: id, Name: name, FromNodeId: fromNodeID, ToNodeId: toNodeID, InService: inService}}
}

func (c *Cable) Kind() BranchKind { return BranchCable }

func (c *Cable) ToCanonicalValue() any {
	v := map[string]any{
		"id":              c.ID,
		"name":            c.Name,
		"branch_type":     string(BranchCable),
		"from_node_id":    c.FromNodeId,
		"to_node_id":      c.ToNodeId,
		"in_service":      c.InService,
		"r_ohm_per_km":    c.ROhmPerKm,
		"x_ohm_per_km":    c.XOhmPerKm,
		"b_us_per_km":     c.BUSPerKm,
		"length_km":       c.LengthKm,
		"rated_current_a": c.RatedCurrentA,
		"type_ref":        c.TypeRef,
	}
	if c.ImpedanceOverride != nil {
		v["impedance_override"] = map[string]any{
			"r_ohm": c.ImpedanceOverride.ROhm,
			"x_ohm": c.ImpedanceOverride.XOhm,
			"b_us":  c.ImpedanceOverride.BUS,
		}
	}

	return v
}

// Transformer is a two-winding MV/HV transformer branch.
type Transformer struct {
	branchCommon
	RatedPowerMVA  float64
	VHvKV          float64
	VLvKV          float64
	UkPercent      float64
	PkKW           float64
	I0Percent      float64
	P0KW           float64
	VectorGroup    string
	TapPosition    int
	TapStepPercent float64
	TypeRef        string
}

// NewTransformer constructs a Transformer branch with the common
// fields every Branch variant carries.
func NewTransformer(id, name, fromNodeID, toNodeID string, inService bool) *Transformer {
	return &Transformer{branchCommon: branchCommon{ID: id, Name: name, FromNodeId: fromNodeID, ToNodeId: toNodeID, InService: inService}}
}

func (tr *Transformer) Kind() BranchKind { return BranchTransformer }

func (tr *Transformer) ToCanonicalValue() any {
	return map[string]any{
		"id":               tr.ID,
		"name":             tr.Name,
		"branch_type":      string(BranchTransformer),
		"from_node_id":     tr.FromNodeId,
		"to_node_id":       tr.ToNodeId,
		"in_service":       tr.InService,
		"rated_power_mva":  tr.RatedPowerMVA,
		"v_hv_kv":          tr.VHvKV,
		"v_lv_kv":          tr.VLvKV,
		"uk_percent":       tr.UkPercent,
		"pk_kw":            tr.PkKW,
		"i0_percent":       tr.I0Percent,
		"p0_kw":            tr.P0KW,
		"vector_group":     tr.VectorGroup,
		"tap_position":     tr.TapPosition,
		"tap_step_percent": tr.TapStepPercent,
		"type_ref":         tr.TypeRef,
	}
}

// SwitchType enumerates the physical device kind of a Switch.
type SwitchType string

const (
	SwitchBreaker      SwitchType = "Breaker"
	SwitchDisconnector SwitchType = "Disconnector"
	SwitchLoadSwitch   SwitchType = "LoadSwitch"
	SwitchRecloser     SwitchType = "Recloser"
	SwitchFuse         SwitchType = "Fuse"
)

// SwitchState is the live position of a Switch.
type SwitchState string

const (
	SwitchOpen   SwitchState = "Open"
	SwitchClosed SwitchState = "Closed"
)

// Switch connects or isolates two nodes depending on State.
type Switch struct {
	ID         string
	FromNodeId string
	ToNodeId   string
	SwitchType SwitchType
	State      SwitchState
	InService  bool
}

func (s *Switch) ToCanonicalValue() any {
	return map[string]any{
		"id":           s.ID,
		"from_node_id": s.FromNodeId,
		"to_node_id":   s.ToNodeId,
		"switch_type":  string(s.SwitchType),
		"state":        string(s.State),
		"in_service":   s.InService,
	}
}

// InverterSource is an inverter-interfaced generation unit (PV, BESS, …)
// contributing bounded fault current, distinct from rotating-machine
// Thevenin behavior.
type InverterSource struct {
	ID                          string
	Name                        string
	NodeID                      string
	ConverterKind               string
	InRatedA                    float64
	KSc                         float64
	ContributesNegativeSequence bool
	ContributesZeroSequence     bool
	InService                   bool
	TypeRef                     string
}

func (s *InverterSource) ToCanonicalValue() any {
	return map[string]any{
		"id":                            s.ID,
		"name":                          s.Name,
		"node_id":                       s.NodeID,
		"converter_kind":                s.ConverterKind,
		"in_rated_a":                    s.InRatedA,
		"k_sc":                          s.KSc,
		"contributes_negative_sequence": s.ContributesNegativeSequence,
		"contributes_zero_sequence":     s.ContributesZeroSequence,
		"in_service":                    s.InService,
		"type_ref":                      s.TypeRef,
	}
}
