package ybus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/solverinput"
	"github.com/radekizk/mvbench/ybus"
)

func TestAssemble_TwoNodeLine(t *testing.T) {
	nodes := []solverinput.NodeSpec{
		{ID: "N1", VoltageLevelKV: 15},
		{ID: "N2", VoltageLevelKV: 15},
	}
	lines := []solverinput.LineElement{
		{RefID: "B1", FromNodeID: "N1", ToNodeID: "N2", ROhmPerKm: 0.253, XOhmPerKm: 0.073, LengthKm: 0.5},
	}

	asm, err := ybus.Assemble(100, nodes, lines, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, asm.YBus.Rows())

	i, j := asm.Index["N1"], asm.Index["N2"]
	yij, err := asm.YBus.At(i, j)
	require.NoError(t, err)
	yji, err := asm.YBus.At(j, i)
	require.NoError(t, err)
	assert.Equal(t, yij, yji)
	assert.NotEqual(t, complex(0, 0), yij)
}

func TestAssemble_ClosedSwitchMergesEndpoints(t *testing.T) {
	nodes := []solverinput.NodeSpec{
		{ID: "N1", VoltageLevelKV: 15},
		{ID: "N2", VoltageLevelKV: 15},
	}
	switches := []solverinput.SwitchSpec{{ID: "S1", FromNodeID: "N1", ToNodeID: "N2", Closed: true}}

	asm, err := ybus.Assemble(100, nodes, nil, nil, switches)
	require.NoError(t, err)
	assert.Equal(t, 1, asm.YBus.Rows())
	assert.Equal(t, asm.Index["N1"], asm.Index["N2"])
}

func TestAssemble_OpenSwitchDoesNotMerge(t *testing.T) {
	nodes := []solverinput.NodeSpec{
		{ID: "N1", VoltageLevelKV: 15},
		{ID: "N2", VoltageLevelKV: 15},
	}
	switches := []solverinput.SwitchSpec{{ID: "S1", FromNodeID: "N1", ToNodeID: "N2", Closed: false}}

	asm, err := ybus.Assemble(100, nodes, nil, nil, switches)
	require.NoError(t, err)
	assert.Equal(t, 2, asm.YBus.Rows())
}

func TestAssemble_TransformerRejectsInconsistentImpedance(t *testing.T) {
	nodes := []solverinput.NodeSpec{
		{ID: "N1", VoltageLevelKV: 110},
		{ID: "N2", VoltageLevelKV: 20},
	}
	transformers := []solverinput.TransformerElement{
		{RefID: "T1", FromNodeID: "N1", ToNodeID: "N2", RatedPowerMVA: 25, UkPercent: 1, PkKW: 100000},
	}

	_, err := ybus.Assemble(100, nodes, nil, transformers, nil)
	assert.Error(t, err)
}

func TestInverse_RoundTrip(t *testing.T) {
	m, err := ybus.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, complex(2, 0)))
	require.NoError(t, m.Set(0, 1, complex(0, 1)))
	require.NoError(t, m.Set(1, 0, complex(0, -1)))
	require.NoError(t, m.Set(1, 1, complex(3, 0)))

	inv, err := ybus.Inverse(m)
	require.NoError(t, err)

	lu, err := ybus.LU(m)
	require.NoError(t, err)
	e0 := []complex128{1, 0}
	x, err := lu.Solve(e0)
	require.NoError(t, err)

	c0, err := inv.At(0, 0)
	require.NoError(t, err)
	c1, err := inv.At(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, real(x[0]), real(c0), 1e-9)
	assert.InDelta(t, real(x[1]), real(c1), 1e-9)
}
