package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/codec"
	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/network"
)

func buildTwoNodeGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "n1", NodeType: network.NodeSlack, VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "n2", NodeType: network.NodePQ, VoltageLevelKV: 15, InService: true}))

	cable := network.NewCable("c1", "feeder-1", "n1", "n2", true)
	cable.ROhmPerKm = 0.253
	cable.XOhmPerKm = 0.073
	cable.LengthKm = 0.5
	require.NoError(t, g.AddBranch(cable))

	return g
}

func TestAddBranch_RoundTrip(t *testing.T) {
	g := buildTwoNodeGraph(t)
	assert.Len(t, g.Branches(), 1)
}

func TestAddBranch_DanglingReference(t *testing.T) {
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "n1", VoltageLevelKV: 15, InService: true}))
	err := g.AddBranch(network.NewLine("l1", "l1", "n1", "ghost", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, errdomain.ErrDanglingReference)
}

func TestAddBranch_VoltageMismatch(t *testing.T) {
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "n1", VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "n2", VoltageLevelKV: 20, InService: true}))
	err := g.AddBranch(network.NewLine("l1", "l1", "n1", "n2", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, errdomain.ErrParameterInconsistent)
}

func TestAddNode_Duplicate(t *testing.T) {
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "n1"}))
	err := g.AddNode(&network.Node{ID: "n1"})
	assert.ErrorIs(t, err, errdomain.ErrDuplicateIdentifier)
}

func TestGetSlackNode_NoneFound(t *testing.T) {
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "n1", NodeType: network.NodePQ, InService: true}))
	_, err := g.GetSlackNode()
	assert.ErrorIs(t, err, errdomain.ErrNotFound)
}

func TestConnectedComponents_TwoIslands(t *testing.T) {
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "a", InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "b", InService: true}))
	comps := g.ConnectedComponents(true)
	assert.Len(t, comps, 2)
}

func TestConnectedComponents_OpenSwitchIsolates(t *testing.T) {
	g := network.NewGraph("model-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "a", VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "b", VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddSwitch(&network.Switch{ID: "s1", FromNodeId: "a", ToNodeId: "b", SwitchType: network.SwitchBreaker, State: network.SwitchOpen, InService: true}))

	assert.Len(t, g.ConnectedComponents(true), 2)
	assert.Len(t, g.ConnectedComponents(false), 1)
}

func TestToCanonicalValue_PermutationInvariant(t *testing.T) {
	gA := network.NewGraph("m")
	require.NoError(t, gA.AddNode(&network.Node{ID: "n1", InService: true}))
	require.NoError(t, gA.AddNode(&network.Node{ID: "n2", InService: true}))

	gB := network.NewGraph("m")
	require.NoError(t, gB.AddNode(&network.Node{ID: "n2", InService: true}))
	require.NoError(t, gB.AddNode(&network.Node{ID: "n1", InService: true}))

	fA, err := codec.Fingerprint(gA)
	require.NoError(t, err)
	fB, err := codec.Fingerprint(gB)
	require.NoError(t, err)
	assert.Equal(t, fA, fB)
}
