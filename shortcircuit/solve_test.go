package shortcircuit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/shortcircuit"
	"github.com/radekizk/mvbench/solverinput"
)

// transformerFeedPayload builds the S1 scenario: 110/20kV transformer,
// Sn=25MVA, uk=10%, pk=120kW, base_mva=100, c=1.0, fault at the LV
// node, no inverter contributions. The HV slack carries an
// effectively infinite short-circuit power so the grid's own
// impedance is negligible and the fault current is set by the
// transformer alone, matching the textbook Ikss ~= 7217 A result.
func transformerFeedPayload(faultType solverinput.FaultType, z0Available bool) *solverinput.ShortCircuitPayload {
	return &solverinput.ShortCircuitPayload{
		BaseMVA: 100,
		Nodes: []solverinput.NodeSpec{
			{ID: "HV", NodeType: "Slack", VoltageLevelKV: 110, VMagPU: 1.0, GridSk3MVA: 1e9, GridROverX: 0.1},
			{ID: "LV", NodeType: "PQ", VoltageLevelKV: 20},
		},
		Transformers: []solverinput.TransformerElement{
			{RefID: "T1", FromNodeID: "HV", ToNodeID: "LV", RatedPowerMVA: 25, UkPercent: 10, PkKW: 120},
		},
		FaultNodeID:    "LV",
		FaultType:      faultType,
		VoltageFactorC: 1.0,
		FaultDurationS: 1.0,
		Z0Available:    z0Available,
	}
}

func TestSolve_ThreePhaseFaultMatchesTransformerFeedExpectation(t *testing.T) {
	result, err := shortcircuit.Solve(transformerFeedPayload(solverinput.Fault3F, false))
	require.NoError(t, err)

	assert.InEpsilon(t, 7217.0, result.IkssA, 0.02)
	assert.GreaterOrEqual(t, result.Kappa, 1.0)
	assert.LessOrEqual(t, result.Kappa, 2.0)
	assert.InEpsilon(t, 250.0, result.SkMVA, 0.02)

	require.Len(t, result.Contributions, 1)
	assert.Equal(t, shortcircuit.ContributionThevenin, result.Contributions[0].Kind)
	assert.InDelta(t, 1.0, result.Contributions[0].Share, 1e-9)

	wantKeys := []string{"Zk", "kappa", "Ikss", "Ip", "Ib", "Ith", "Sk"}
	require.Len(t, result.Trace, len(wantKeys))
	for i, k := range wantKeys {
		assert.Equal(t, k, result.Trace[i].Key)
	}
}

func TestSolve_SinglePhaseFaultRequiresZ0(t *testing.T) {
	_, err := shortcircuit.Solve(transformerFeedPayload(solverinput.Fault1F, false))
	assert.ErrorIs(t, err, shortcircuit.ErrZ0Required)
}

func TestSolve_SinglePhaseFaultComputesWithZ0Approximation(t *testing.T) {
	result, err := shortcircuit.Solve(transformerFeedPayload(solverinput.Fault1F, true))
	require.NoError(t, err)
	assert.Greater(t, result.IkssA, 0.0)
	assert.Contains(t, result.Trace[0].Inputs, "Z_0_ohm")
}

func TestSolve_DoublePhaseFaultLowerThanThreePhase(t *testing.T) {
	threeF, err := shortcircuit.Solve(transformerFeedPayload(solverinput.Fault3F, false))
	require.NoError(t, err)
	twoF, err := shortcircuit.Solve(transformerFeedPayload(solverinput.Fault2F, false))
	require.NoError(t, err)

	// I_k2 = (sqrt(3)/2) * I_k3 for Z2 == Z1 (§4.8).
	assert.InEpsilon(t, threeF.IkssA*0.8660254, twoF.IkssA, 0.02)
}

func TestSolve_ContributionsConserveTotalCurrent(t *testing.T) {
	payload := transformerFeedPayload(solverinput.Fault3F, false)
	payload.IncludeInverterContributions = true
	payload.InverterSources = []solverinput.InverterSpec{
		{ID: "INV-1", NodeID: "LV", InRatedA: 500, KSc: 1.1},
	}

	result, err := shortcircuit.Solve(payload)
	require.NoError(t, err)

	var sum float64
	for _, c := range result.Contributions {
		sum += c.CurrentA
	}
	assert.InDelta(t, result.IkssA, sum, 1e-6)
}

func TestSolve_UnknownFaultNodeIsError(t *testing.T) {
	payload := transformerFeedPayload(solverinput.Fault3F, false)
	payload.FaultNodeID = "NOPE"
	_, err := shortcircuit.Solve(payload)
	assert.Error(t, err)
}
