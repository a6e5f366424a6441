package ybus

import (
	"fmt"
	"math"
	"sort"

	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/solverinput"
)

// NodeIndex maps a node id to its row/column in the assembled Y-bus,
// assigned in ascending id order (§4.6 step 1) after closed switches
// have merged their endpoints.
type NodeIndex map[string]int

// Assembly is the result of Assemble: the dense per-unit Y-bus plus
// the node index used to build it.
type Assembly struct {
	YBus  *Dense
	Index NodeIndex
	// NodeGroups maps every original node id to the root id it was
	// merged into by a closed switch (§4.6 step 4); an unmerged node
	// maps to itself.
	NodeGroups map[string]string
	// Branches carries the per-unit series/shunt admittance this
	// assembler stamped for each line and transformer, so post-
	// processing (§4.7) can recover S_from/S_to flows without
	// re-deriving impedances from raw catalog parameters. A branch
	// collapsed to a self-loop by a closed switch is omitted.
	Branches []BranchAdmittance
}

// BranchAdmittance is one line's or transformer's per-unit series
// admittance Y and total shunt admittance YShunt (split evenly between
// its two ends in the π-model stamp), located at its assembled Y-bus
// row/column.
type BranchAdmittance struct {
	RefID      string
	FromNodeID string
	ToNodeID   string
	I, J       int
	Y          complex128
	YShunt     complex128
}

// Assemble builds the complex per-unit Y-bus for the nodes, lines,
// transformers and switches named in a solver-input payload, following
// §4.6 steps 1-5.
func Assemble(baseMVA float64, nodes []solverinput.NodeSpec, lines []solverinput.LineElement, transformers []solverinput.TransformerElement, switches []solverinput.SwitchSpec) (*Assembly, error) {
	uf := newUnionFind(nodes)
	for _, s := range switches {
		if s.Closed {
			uf.union(s.FromNodeID, s.ToNodeID)
		}
	}

	index, voltageOf := buildIndex(nodes, uf)
	n := len(index)

	ybus, err := NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("ybus: assemble: %w", err)
	}

	var branchAdmittances []BranchAdmittance
	for _, l := range lines {
		ba, err := addLine(ybus, index, voltageOf, uf, baseMVA, l)
		if err != nil {
			return nil, err
		}
		if ba != nil {
			branchAdmittances = append(branchAdmittances, *ba)
		}
	}
	for _, t := range transformers {
		ba, err := addTransformer(ybus, index, uf, baseMVA, t)
		if err != nil {
			return nil, err
		}
		if ba != nil {
			branchAdmittances = append(branchAdmittances, *ba)
		}
	}
	for _, nd := range nodes {
		if err := stampGridSource(ybus, index, uf, baseMVA, nd); err != nil {
			return nil, err
		}
	}

	groups := make(map[string]string, len(nodes))
	for _, n := range nodes {
		groups[n.ID] = uf.find(n.ID)
	}

	return &Assembly{YBus: ybus, Index: index, NodeGroups: groups, Branches: branchAdmittances}, nil
}

func buildIndex(nodes []solverinput.NodeSpec, uf *unionFind) (NodeIndex, map[string]float64) {
	roots := map[string]bool{}
	voltageOf := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		root := uf.find(n.ID)
		roots[root] = true
		voltageOf[n.ID] = n.VoltageLevelKV
	}

	ids := make([]string, 0, len(roots))
	for r := range roots {
		ids = append(ids, r)
	}
	sort.Strings(ids)

	index := make(NodeIndex, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	return index, voltageOf
}

func addLine(ybus *Dense, index NodeIndex, voltageOf map[string]float64, uf *unionFind, baseMVA float64, l solverinput.LineElement) (*BranchAdmittance, error) {
	fromRoot, toRoot := uf.find(l.FromNodeID), uf.find(l.ToNodeID)
	i, okI := index[fromRoot]
	j, okJ := index[toRoot]
	if !okI || !okJ {
		return nil, fmt.Errorf("ybus: line %q: endpoint not indexed: %w", l.RefID, errdomain.ErrDanglingReference)
	}
	if i == j {
		return nil, nil // closed-switch merge collapsed this branch to a self-loop
	}

	vBase := voltageOf[l.FromNodeID]
	zBaseOhm := (vBase * vBase) / baseMVA

	z := complex(l.ROhmPerKm*l.LengthKm, l.XOhmPerKm*l.LengthKm)
	zPU := z / complex(zBaseOhm, 0)
	if zPU == 0 {
		return nil, fmt.Errorf("ybus: line %q: zero impedance: %w", l.RefID, errdomain.ErrParameterInconsistent)
	}
	y := 1 / zPU

	bSiemens := l.BUSPerKm * 1e-6 * l.LengthKm
	ySh := complex(0, bSiemens) * complex(zBaseOhm, 0)

	stampBranch(ybus, i, j, y, ySh)

	return &BranchAdmittance{RefID: l.RefID, FromNodeID: l.FromNodeID, ToNodeID: l.ToNodeID, I: i, J: j, Y: y, YShunt: ySh}, nil
}

func addTransformer(ybus *Dense, index NodeIndex, uf *unionFind, baseMVA float64, t solverinput.TransformerElement) (*BranchAdmittance, error) {
	fromRoot, toRoot := uf.find(t.FromNodeID), uf.find(t.ToNodeID)
	i, okI := index[fromRoot]
	j, okJ := index[toRoot]
	if !okI || !okJ {
		return nil, fmt.Errorf("ybus: transformer %q: endpoint not indexed: %w", t.RefID, errdomain.ErrDanglingReference)
	}
	if i == j {
		return nil, nil
	}
	if t.RatedPowerMVA <= 0 {
		return nil, fmt.Errorf("ybus: transformer %q: non-positive rated power: %w", t.RefID, errdomain.ErrParameterInconsistent)
	}

	ratio := baseMVA / t.RatedPowerMVA
	zPUMag := (t.UkPercent / 100) * ratio
	rPU := (t.PkKW / 1000 / t.RatedPowerMVA) * ratio
	if rPU > zPUMag {
		return nil, fmt.Errorf("ybus: transformer %q: r_pu %.6f exceeds z_pu %.6f: %w", t.RefID, rPU, zPUMag, errdomain.ErrParameterInconsistent)
	}
	xPU := math.Sqrt(zPUMag*zPUMag - rPU*rPU)

	tapRatio := 1.0
	if t.TapStepPercent != 0 {
		tapRatio = 1 + float64(t.TapPosition)*t.TapStepPercent/100
	}

	z := complex(rPU, xPU)
	if z == 0 {
		return nil, fmt.Errorf("ybus: transformer %q: zero impedance: %w", t.RefID, errdomain.ErrParameterInconsistent)
	}
	y := 1 / z / complex(tapRatio, 0)

	stampBranch(ybus, i, j, y, 0)

	return &BranchAdmittance{RefID: t.RefID, FromNodeID: t.FromNodeID, ToNodeID: t.ToNodeID, I: i, J: j, Y: y}, nil
}

// stampGridSource grounds a Slack node through its upstream grid's
// Thevenin equivalent (Z_Q = U_n^2/Sk3, per IEC 60909-0 clause 3.7),
// stamped as a shunt admittance to ground at the Slack row. Without
// this the Y-bus of a purely radial network has no reference to
// ground and is structurally singular, making Zbus unobtainable for
// short-circuit analysis. A 0.1 R/X ratio is assumed when GridROverX
// is left unset, a typical figure for HV network feeders.
func stampGridSource(ybus *Dense, index NodeIndex, uf *unionFind, baseMVA float64, n solverinput.NodeSpec) error {
	if n.NodeType != "Slack" || n.GridSk3MVA <= 0 {
		return nil
	}

	root := uf.find(n.ID)
	i, ok := index[root]
	if !ok {
		return fmt.Errorf("ybus: slack node %q: not indexed: %w", n.ID, errdomain.ErrDanglingReference)
	}

	rOverX := n.GridROverX
	if rOverX <= 0 {
		rOverX = 0.1
	}

	zPUMag := baseMVA / n.GridSk3MVA
	xPU := zPUMag / math.Sqrt(1+rOverX*rOverX)
	rPU := rOverX * xPU

	z := complex(rPU, xPU)
	y := 1 / z

	return ybus.Add(i, i, y)
}

// stampBranch applies the standard π-model nodal stamp: off-diagonals
// receive −y, diagonals accumulate Σy plus any shunt half (§4.6 step 5).
func stampBranch(ybus *Dense, i, j int, y, shunt complex128) {
	half := shunt / 2
	_ = ybus.Add(i, i, y+half)
	_ = ybus.Add(j, j, y+half)
	_ = ybus.Add(i, j, -y)
	_ = ybus.Add(j, i, -y)
}
