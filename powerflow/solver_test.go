package powerflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/powerflow"
	"github.com/radekizk/mvbench/solverinput"
	"github.com/radekizk/mvbench/ybus"
)

func TestSolve_RadialCableTrunkConverges(t *testing.T) {
	baseMVA := 100.0
	nodes := []solverinput.NodeSpec{
		{ID: "N1", NodeType: "Slack", VoltageLevelKV: 15, VMagPU: 1.0},
		{ID: "N2", NodeType: "PQ", VoltageLevelKV: 15},
		{ID: "N3", NodeType: "PQ", VoltageLevelKV: 15},
		{ID: "N4", NodeType: "PQ", VoltageLevelKV: 15},
	}
	lines := []solverinput.LineElement{
		{RefID: "B1", FromNodeID: "N1", ToNodeID: "N2", ROhmPerKm: 0.253, XOhmPerKm: 0.073, LengthKm: 0.5},
		{RefID: "B2", FromNodeID: "N2", ToNodeID: "N3", ROhmPerKm: 0.253, XOhmPerKm: 0.073, LengthKm: 0.5},
		{RefID: "B3", FromNodeID: "N3", ToNodeID: "N4", ROhmPerKm: 0.253, XOhmPerKm: 0.073, LengthKm: 0.5},
	}

	asm, err := ybus.Assemble(baseMVA, nodes, lines, nil, nil)
	require.NoError(t, err)

	result, err := powerflow.Solve(asm, nodes, baseMVA, powerflow.Options{MaxIterations: 50, TolerancePU: 1e-8, TraceLevel: powerflow.TraceFull})
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.LessOrEqual(t, result.Iterations, 20)

	for _, n := range result.Nodes {
		assert.GreaterOrEqual(t, n.VMagPU, 0.98)
		assert.LessOrEqual(t, n.VMagPU, 1.02)
	}

	for i := 1; i < len(result.Trace); i++ {
		assert.LessOrEqual(t, result.Trace[i].MaxMismatchPU, result.Trace[i-1].MaxMismatchPU+1e-12)
	}
}

func TestSolve_BranchFlowsAndLossesPopulatedOnConvergence(t *testing.T) {
	baseMVA := 100.0
	nodes := []solverinput.NodeSpec{
		{ID: "N1", NodeType: "Slack", VoltageLevelKV: 15, VMagPU: 1.0},
		{ID: "N2", NodeType: "PQ", VoltageLevelKV: 15, PMW: 0.5, QMVAr: 0.1},
	}
	lines := []solverinput.LineElement{
		{RefID: "B1", FromNodeID: "N1", ToNodeID: "N2", ROhmPerKm: 0.253, XOhmPerKm: 0.073, LengthKm: 0.5},
	}

	asm, err := ybus.Assemble(baseMVA, nodes, lines, nil, nil)
	require.NoError(t, err)

	result, err := powerflow.Solve(asm, nodes, baseMVA, powerflow.Options{MaxIterations: 50, TolerancePU: 1e-8})
	require.NoError(t, err)
	require.True(t, result.Converged)

	require.Len(t, result.Branches, 1)
	bf := result.Branches[0]
	assert.Equal(t, "B1", bf.RefID)
	// PMW is the scheduled injection at N2, so its 0.5 MW flows towards
	// N1 and the power leaving N1 into B1 is about -0.5 MW.
	assert.InDelta(t, -0.5, bf.PFromMW, 0.05)
	assert.Greater(t, bf.LossPMW, 0.0)
	assert.InDelta(t, bf.LossPMW, result.TotalLossesPMW, 1e-9)
	assert.InDelta(t, bf.LossQMVAr, result.TotalLossesQMVAr, 1e-9)
}

func TestSolve_NonConvergenceReportsLastMismatch(t *testing.T) {
	baseMVA := 100.0
	nodes := []solverinput.NodeSpec{
		{ID: "N1", NodeType: "Slack", VoltageLevelKV: 15, VMagPU: 1.0},
		{ID: "N2", NodeType: "PQ", VoltageLevelKV: 15, PMW: 1000, QMVAr: 1000},
	}
	lines := []solverinput.LineElement{
		{RefID: "B1", FromNodeID: "N1", ToNodeID: "N2", ROhmPerKm: 0.253, XOhmPerKm: 0.073, LengthKm: 0.5},
	}
	asm, err := ybus.Assemble(baseMVA, nodes, lines, nil, nil)
	require.NoError(t, err)

	_, err = powerflow.Solve(asm, nodes, baseMVA, powerflow.Options{MaxIterations: 3, TolerancePU: 1e-8})
	assert.Error(t, err)
	assert.ErrorIs(t, err, errdomain.ErrConvergenceFailure)
	var cf *errdomain.ConvergenceFailureError
	require.ErrorAs(t, err, &cf)
	assert.Greater(t, cf.LastMismatchPU, 0.0)
}
