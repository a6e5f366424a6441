package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/radekizk/mvbench/catalog"
	"github.com/radekizk/mvbench/network"
	"github.com/radekizk/mvbench/solverinput"
)

// scenarioFile is the YAML shape cmd/mvbench reads: a network,
// catalog, and study case in one file, playing the role lvlath's
// examples/*.go programs play for its algorithms — a short, runnable
// scenario, here declarative instead of Go source.
type scenarioFile struct {
	NetworkModelID string          `yaml:"network_model_id"`
	Nodes          []nodeYAML      `yaml:"nodes"`
	Branches       []branchYAML    `yaml:"branches"`
	Switches       []switchYAML    `yaml:"switches"`
	Inverters      []inverterYAML  `yaml:"inverters"`
	Catalog        catalogYAML     `yaml:"catalog"`
	StudyCase      studyCaseYAML   `yaml:"study_case"`
}

type nodeYAML struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	NodeType       string  `yaml:"node_type"`
	VoltageLevelKV float64 `yaml:"voltage_level_kv"`
	VMagPU         float64 `yaml:"v_mag_pu"`
	PMW            float64 `yaml:"p_mw"`
	QMVAr          float64 `yaml:"q_mvar"`
	GridSk3MVA     float64 `yaml:"grid_sk3_mva"`
	GridROverX     float64 `yaml:"grid_r_over_x"`
}

type branchYAML struct {
	Kind      string  `yaml:"kind"` // Line | Cable | Transformer
	ID        string  `yaml:"id"`
	From      string  `yaml:"from"`
	To        string  `yaml:"to"`
	TypeRef   string  `yaml:"type_ref"`
	LengthKm  float64 `yaml:"length_km"`
	// Transformer-only instance fields, used when no type_ref is set.
	RatedPowerMVA float64 `yaml:"rated_power_mva"`
	VHvKV         float64 `yaml:"v_hv_kv"`
	VLvKV         float64 `yaml:"v_lv_kv"`
	UkPercent     float64 `yaml:"uk_percent"`
	PkKW          float64 `yaml:"pk_kw"`
}

type switchYAML struct {
	ID     string `yaml:"id"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Closed bool   `yaml:"closed"`
}

type inverterYAML struct {
	ID       string  `yaml:"id"`
	NodeID   string  `yaml:"node_id"`
	InRatedA float64 `yaml:"in_rated_a"`
	KSc      float64 `yaml:"k_sc"`
}

type catalogYAML struct {
	Cables       []cableTypeYAML       `yaml:"cables"`
	Lines        []cableTypeYAML       `yaml:"lines"`
	Transformers []transformerTypeYAML `yaml:"transformers"`
}

type cableTypeYAML struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	ROhmPerKm     float64 `yaml:"r_ohm_per_km"`
	XOhmPerKm     float64 `yaml:"x_ohm_per_km"`
	BUSPerKm      float64 `yaml:"b_us_per_km"`
	RatedCurrentA float64 `yaml:"rated_current_a"`
}

type transformerTypeYAML struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	RatedPowerMVA float64 `yaml:"rated_power_mva"`
	VHvKV         float64 `yaml:"v_hv_kv"`
	VLvKV         float64 `yaml:"v_lv_kv"`
	UkPercent     float64 `yaml:"uk_percent"`
	PkKW          float64 `yaml:"pk_kw"`
}

type studyCaseYAML struct {
	BaseMVA        float64 `yaml:"base_mva"`
	TolerancePU    float64 `yaml:"tolerance_pu"`
	MaxIterations  int     `yaml:"max_iterations"`
	FaultType      string  `yaml:"fault_type"`
	FaultNodeID    string  `yaml:"fault_node_id"`
	VoltageFactorC float64 `yaml:"voltage_factor_c"`
	FaultDurationS float64 `yaml:"fault_duration_s"`
	Z0Available    bool    `yaml:"z0_available"`
}

func loadScenario(path string) (*network.Graph, *catalog.Repository, solverinput.StudyCaseConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: read scenario: %w", err)
	}

	var sc scenarioFile
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: parse scenario: %w", err)
	}

	g := network.NewGraph(sc.NetworkModelID)
	for _, n := range sc.Nodes {
		node := &network.Node{
			ID: n.ID, Name: n.Name, NodeType: network.NodeType(n.NodeType), VoltageLevelKV: n.VoltageLevelKV,
			VMagPU: n.VMagPU, PMW: n.PMW, QMVAr: n.QMVAr, InService: true,
			GridSk3MVA: n.GridSk3MVA, GridROverX: n.GridROverX,
		}
		if err := g.AddNode(node); err != nil {
			return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: node %q: %w", n.ID, err)
		}
	}

	for _, b := range sc.Branches {
		var branch network.Branch
		switch b.Kind {
		case "Line":
			l := network.NewLine(b.ID, b.ID, b.From, b.To, true)
			l.TypeRef, l.LengthKm = b.TypeRef, b.LengthKm
			branch = l
		case "Cable":
			c := network.NewCable(b.ID, b.ID, b.From, b.To, true)
			c.TypeRef, c.LengthKm = b.TypeRef, b.LengthKm
			branch = c
		case "Transformer":
			tr := network.NewTransformer(b.ID, b.ID, b.From, b.To, true)
			tr.TypeRef = b.TypeRef
			tr.RatedPowerMVA, tr.VHvKV, tr.VLvKV, tr.UkPercent, tr.PkKW = b.RatedPowerMVA, b.VHvKV, b.VLvKV, b.UkPercent, b.PkKW
			branch = tr
		default:
			return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: branch %q: unknown kind %q", b.ID, b.Kind)
		}
		if err := g.AddBranch(branch); err != nil {
			return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: branch %q: %w", b.ID, err)
		}
	}

	for _, s := range sc.Switches {
		state := network.SwitchOpen
		if s.Closed {
			state = network.SwitchClosed
		}
		if err := g.AddSwitch(&network.Switch{ID: s.ID, FromNodeId: s.From, ToNodeId: s.To, State: state, InService: true}); err != nil {
			return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: switch %q: %w", s.ID, err)
		}
	}

	for _, inv := range sc.Inverters {
		if err := g.AddInverterSource(&network.InverterSource{ID: inv.ID, Name: inv.ID, NodeID: inv.NodeID, InRatedA: inv.InRatedA, KSc: inv.KSc, InService: true}); err != nil {
			return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: inverter %q: %w", inv.ID, err)
		}
	}

	types := map[catalog.Category][]catalog.Type{}
	for _, c := range sc.Catalog.Cables {
		types[catalog.CableCategory] = append(types[catalog.CableCategory], &catalog.CableType{ID: c.ID, Name: c.Name, ROhmPerKm: c.ROhmPerKm, XOhmPerKm: c.XOhmPerKm, BUSPerKm: c.BUSPerKm, RatedCurrentA: c.RatedCurrentA})
	}
	for _, c := range sc.Catalog.Lines {
		types[catalog.LineCategory] = append(types[catalog.LineCategory], &catalog.LineType{ID: c.ID, Name: c.Name, ROhmPerKm: c.ROhmPerKm, XOhmPerKm: c.XOhmPerKm, BUSPerKm: c.BUSPerKm, RatedCurrentA: c.RatedCurrentA})
	}
	for _, t := range sc.Catalog.Transformers {
		types[catalog.TransformerCategory] = append(types[catalog.TransformerCategory], &catalog.TransformerType{ID: t.ID, Name: t.Name, RatedPowerMVA: t.RatedPowerMVA, VHvKV: t.VHvKV, VLvKV: t.VLvKV, UkPercent: t.UkPercent, PkKW: t.PkKW})
	}
	repo, err := catalog.New(types)
	if err != nil {
		return nil, nil, solverinput.StudyCaseConfig{}, fmt.Errorf("mvbench: catalog: %w", err)
	}

	cfg := solverinput.StudyCaseConfig{
		BaseMVA: sc.StudyCase.BaseMVA, TolerancePU: sc.StudyCase.TolerancePU, MaxIterations: sc.StudyCase.MaxIterations,
		FaultType: solverinput.FaultType(sc.StudyCase.FaultType), FaultNodeID: sc.StudyCase.FaultNodeID,
		VoltageFactorC: sc.StudyCase.VoltageFactorC, FaultDurationS: sc.StudyCase.FaultDurationS, Z0Available: sc.StudyCase.Z0Available,
	}

	return g, repo, cfg, nil
}
