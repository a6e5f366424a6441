package shortcircuit

import (
	"fmt"
	"math"
	"sort"

	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/iectable"
	"github.com/radekizk/mvbench/messages"
	"github.com/radekizk/mvbench/solverinput"
	"github.com/radekizk/mvbench/ybus"
)

const sqrt3 = 1.7320508075688772

// Solve computes the IEC 60909 fault result for payload's fault node
// and type (§4.8). It assembles a positive-sequence Y-bus itself from
// payload, so callers never need to call ybus directly.
//
// Z2 is taken equal to Z1 (no per-element negative-sequence data is
// modeled). For 1F and 2FG faults, Z0 is always approximated as 3·Z1;
// no zero-sequence network is assembled, and Z0Available only gates
// whether those fault types are solved at all — an explicit
// simplification recorded alongside the other Open Question decisions.
func Solve(payload *solverinput.ShortCircuitPayload) (*FaultResult, error) {
	if (payload.FaultType == solverinput.Fault1F || payload.FaultType == solverinput.Fault2FG) && !payload.Z0Available {
		return nil, fmt.Errorf("shortcircuit: %w", ErrZ0Required)
	}

	asm, err := ybus.Assemble(payload.BaseMVA, payload.Nodes, payload.Lines, payload.Transformers, payload.Switches)
	if err != nil {
		return nil, err
	}

	root, ok := asm.NodeGroups[payload.FaultNodeID]
	if !ok {
		root = payload.FaultNodeID
	}
	faultIdx, ok := asm.Index[root]
	if !ok {
		return nil, fmt.Errorf("shortcircuit: fault node %q not in network: %w", payload.FaultNodeID, errdomain.ErrNotFound)
	}

	zbus, err := ybus.Inverse(asm.YBus)
	if err != nil {
		return nil, fmt.Errorf("shortcircuit: %w", errdomain.ErrNumericalFailure)
	}
	z1, err := zbus.At(faultIdx, faultIdx)
	if err != nil {
		return nil, err
	}

	un := faultNodeVoltageKV(payload.Nodes, payload.FaultNodeID)
	if un <= 0 {
		return nil, fmt.Errorf("shortcircuit: fault node %q: non-positive voltage: %w", payload.FaultNodeID, errdomain.ErrParameterInconsistent)
	}
	zBaseOhm := (un * un) / payload.BaseMVA
	z1Ohm := z1 * complex(zBaseOhm, 0)

	var ikssA float64
	var zk complex128
	switch payload.FaultType {
	case solverinput.Fault3F:
		zk = z1Ohm
		ikssA = payload.VoltageFactorC * un * 1000 / (sqrt3 * cabs(zk))
	case solverinput.Fault2F:
		zk = z1Ohm + z1Ohm // Z2 == Z1
		ikssA = payload.VoltageFactorC * un * 1000 / cabs(zk)
	case solverinput.Fault1F:
		z0Ohm := z1Ohm * complex(3, 0)
		zk = z1Ohm + z1Ohm + z0Ohm
		ikssA = sqrt3 * payload.VoltageFactorC * un * 1000 / cabs(zk)
	case solverinput.Fault2FG:
		z0Ohm := z1Ohm * complex(3, 0)
		denom := z1Ohm*z1Ohm + z1Ohm*z0Ohm + z0Ohm*z1Ohm
		zk = denom / z1Ohm
		ikssA = sqrt3 * payload.VoltageFactorC * un * 1000 * cabs(z1Ohm) / cabs(denom)
	default:
		return nil, fmt.Errorf("shortcircuit: unknown fault type %q", payload.FaultType)
	}

	if math.IsNaN(ikssA) || math.IsInf(ikssA, 0) || ikssA <= 0 {
		return nil, fmt.Errorf("shortcircuit: %w", errdomain.ErrCodecNonFinite)
	}

	rOverX := real(zk) / imag(zk)
	k := kappa(rOverX)
	ip := math.Sqrt2 * k * ikssA

	m, n, err := iectable.MN(payload.FaultDurationS, k)
	if err != nil {
		return nil, fmt.Errorf("shortcircuit: %w", err)
	}
	ith := ikssA * math.Sqrt(m+n)

	skMVA := sqrt3 * un * ikssA / 1000

	contributions, warnings := splitContributions(payload, ikssA)

	trace := buildTrace(z1Ohm, zk, k, ikssA, ip, ith, skMVA, payload)

	return &FaultResult{
		FaultNodeID: payload.FaultNodeID, FaultType: payload.FaultType,
		ZkOhm: zk, Kappa: k, IkssA: ikssA, IpA: ip, IbA: ikssA, IthA: ith, SkMVA: skMVA,
		Contributions: contributions, Trace: trace, Warnings: warnings,
	}, nil
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func faultNodeVoltageKV(nodes []solverinput.NodeSpec, id string) float64 {
	for _, n := range nodes {
		if n.ID == id {
			return n.VoltageLevelKV
		}
	}

	return 0
}

// splitContributions implements §4.8 step 9: inverter contributions
// are fixed by rating, the Thevenin/grid share absorbs the rest,
// clamped at zero with a warning if inverter ratings alone exceed Ikss.
func splitContributions(payload *solverinput.ShortCircuitPayload, ikss float64) ([]Contribution, []string) {
	var contributions []Contribution
	var warnings []string

	if !payload.IncludeInverterContributions {
		contributions = append(contributions, Contribution{SourceID: "grid", Kind: ContributionThevenin, CurrentA: ikss, Share: 1.0})

		return contributions, warnings
	}

	var invSum float64
	sorted := append([]solverinput.InverterSpec(nil), payload.InverterSources...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, s := range sorted {
		contrib := s.KSc * s.InRatedA
		invSum += contrib
		contributions = append(contributions, Contribution{SourceID: s.ID, Kind: ContributionInverter, CurrentA: contrib, Share: contrib / ikss})
	}

	thevenin := ikss - invSum
	if thevenin < 0 {
		warnings = append(warnings, messages.Lookup("W-D02"))
		thevenin = 0
	}
	contributions = append([]Contribution{{SourceID: "grid", Kind: ContributionThevenin, CurrentA: thevenin, Share: thevenin / ikss}}, contributions...)

	return contributions, warnings
}

func buildTrace(z1, zk complex128, k, ikss, ip, ith, sk float64, payload *solverinput.ShortCircuitPayload) []TraceStep {
	zkFormula, ikssFormula := `Z_k = Z_1`, `I_k'' = \frac{c \cdot U_n}{\sqrt{3}|Z_k|}`
	switch payload.FaultType {
	case solverinput.Fault2F:
		zkFormula, ikssFormula = `Z_k = Z_1 + Z_2`, `I_k'' = \frac{c \cdot U_n}{|Z_k|}`
	case solverinput.Fault1F:
		zkFormula, ikssFormula = `Z_k = Z_1 + Z_2 + Z_0`, `I_k'' = \frac{\sqrt{3} \cdot c \cdot U_n}{|Z_k|}`
	case solverinput.Fault2FG:
		zkFormula, ikssFormula = `Z_k = (Z_1 Z_2 + Z_1 Z_0 + Z_2 Z_0) / Z_2`, `I_k'' = \frac{\sqrt{3} \cdot c \cdot U_n |Z_2|}{|Z_1 Z_2 + Z_1 Z_0 + Z_2 Z_0|}`
	}
	steps := []TraceStep{
		{
			Key: "Zk", TitlePL: "Impedancja zwarciowa", FormulaLatex: zkFormula,
			Inputs: map[string]string{"Z_1_ohm": fmt.Sprintf("%.6f%+.6fi", real(z1), imag(z1))},
			Result: fmt.Sprintf("%.6f%+.6fi ohm", real(zk), imag(zk)),
		},
		{
			Key: "kappa", TitlePL: "Współczynnik udaru", FormulaLatex: `\kappa = 1.02 + 0.98 e^{-3R/X}`,
			Substitution: fmt.Sprintf("kappa(R/X=%.4f)", real(zk)/imag(zk)), Result: fmt.Sprintf("%.4f", k),
		},
		{
			Key: "Ikss", TitlePL: "Początkowy prąd zwarciowy", FormulaLatex: ikssFormula,
			Result: fmt.Sprintf("%.3f A", ikss),
		},
		{
			Key: "Ip", TitlePL: "Prąd udarowy", FormulaLatex: `i_p = \sqrt{2}\kappa I_k''`,
			Result: fmt.Sprintf("%.3f A", ip),
		},
		{
			Key: "Ib", TitlePL: "Prąd wyłączeniowy", FormulaLatex: `I_b = I_k''`,
			Result: fmt.Sprintf("%.3f A", ikss),
		},
		{
			Key: "Ith", TitlePL: "Prąd cieplny zastępczy", FormulaLatex: `I_{th} = I_k'' \sqrt{m+n}`,
			Result: fmt.Sprintf("%.3f A", ith),
		},
		{
			Key: "Sk", TitlePL: "Moc zwarciowa", FormulaLatex: `S_k = \sqrt{3} U_n I_k''`,
			Result: fmt.Sprintf("%.3f MVA", sk),
		},
	}
	if payload.FaultType != solverinput.Fault3F {
		steps[0].Inputs["Z_0_ohm"] = "3*Z_1 (approximated)"
	}

	return steps
}
