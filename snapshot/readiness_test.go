package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/catalog"
	"github.com/radekizk/mvbench/network"
	"github.com/radekizk/mvbench/snapshot"
)

func mustFreeze(t *testing.T, g *network.Graph) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.Freeze(g, "snap-1", "2026-07-31T00:00:00Z", g.NetworkModelID())
	require.NoError(t, err)

	return snap
}

func slackNode(id string, v float64) *network.Node {
	return &network.Node{ID: id, Name: id, NodeType: network.NodeSlack, VoltageLevelKV: v, InService: true, GridSk3MVA: 250, GridROverX: 0.1}
}

func pqNode(id string, v float64) *network.Node {
	return &network.Node{ID: id, Name: id, NodeType: network.NodePQ, VoltageLevelKV: v, InService: true}
}

func TestCheck_DisconnectedIslandIsBlocker(t *testing.T) {
	g := network.NewGraph("net-1")
	require.NoError(t, g.AddNode(slackNode("N1", 15)))
	require.NoError(t, g.AddNode(pqNode("N2", 15)))
	require.NoError(t, g.AddNode(pqNode("N3", 15))) // disconnected, no slack of its own

	cable := network.NewCable("B1", "B1", "N1", "N2", true)
	cable.TypeRef = "CAB-1"
	cable.LengthKm = 1.0
	require.NoError(t, g.AddBranch(cable))

	profile := snapshot.Check(mustFreeze(t, g), sampleCatalogRepo(t))

	assert.False(t, profile.ShortCircuitReady)
	assert.False(t, profile.LoadFlowReady)

	var foundED03 bool
	for _, iss := range profile.Issues {
		if iss.Code == "E-D03" {
			foundED03 = true
			assert.Equal(t, snapshot.PriorityBlocker, iss.Priority)
		}
	}
	assert.True(t, foundED03, "expected E-D03 disconnected-island issue")
}

func TestCheck_MissingSourceIsBlocker(t *testing.T) {
	g := network.NewGraph("net-2")
	require.NoError(t, g.AddNode(pqNode("N1", 15)))

	profile := snapshot.Check(mustFreeze(t, g), nil)

	assert.False(t, profile.ShortCircuitReady)
	assert.False(t, profile.LoadFlowReady)
	assertHasCode(t, profile.Issues, "source.grid_supply_missing")
}

func TestCheck_TrunkWithoutCatalogBindingIsBlocker(t *testing.T) {
	g := network.NewGraph("net-3")
	require.NoError(t, g.AddNode(slackNode("N1", 15)))
	require.NoError(t, g.AddNode(pqNode("N2", 15)))
	line := network.NewLine("B1", "B1", "N1", "N2", true)
	require.NoError(t, g.AddBranch(line))

	profile := snapshot.Check(mustFreeze(t, g), nil)

	assertHasCode(t, profile.Issues, "trunk.catalog_missing")
	assertHasCode(t, profile.Issues, "trunk.segment_length_missing")
}

func TestCheck_FullyReadyNetworkHasNoBlockers(t *testing.T) {
	g := network.NewGraph("net-4")
	require.NoError(t, g.AddNode(slackNode("N1", 15)))
	require.NoError(t, g.AddNode(pqNode("N2", 15)))
	cable := network.NewCable("B1", "B1", "N1", "N2", true)
	cable.TypeRef = "CAB-1"
	cable.LengthKm = 2.5
	require.NoError(t, g.AddBranch(cable))

	profile := snapshot.Check(mustFreeze(t, g), sampleCatalogRepo(t))

	for _, iss := range profile.Issues {
		assert.NotEqual(t, snapshot.PriorityBlocker, iss.Priority, "unexpected blocker %s", iss.Code)
	}
	assert.True(t, profile.ShortCircuitReady)
	assert.True(t, profile.LoadFlowReady)
}

func TestCheck_IssuesSortedByPriorityAreaCode(t *testing.T) {
	g := network.NewGraph("net-5")
	require.NoError(t, g.AddNode(pqNode("N1", 15)))

	profile := snapshot.Check(mustFreeze(t, g), nil)

	for i := 1; i < len(profile.Issues); i++ {
		prev, cur := profile.Issues[i-1], profile.Issues[i]
		assert.LessOrEqual(t, priorityOrder(prev.Priority), priorityOrder(cur.Priority))
		if prev.Priority == cur.Priority {
			assert.LessOrEqual(t, string(prev.Area), string(cur.Area))
			if prev.Area == cur.Area {
				assert.LessOrEqual(t, prev.Code, cur.Code)
			}
		}
	}
}

func priorityOrder(p snapshot.Priority) int {
	switch p {
	case snapshot.PriorityBlocker:
		return 0
	case snapshot.PriorityWarning:
		return 1
	default:
		return 2
	}
}

func assertHasCode(t *testing.T, issues []snapshot.ReadinessIssue, code string) {
	t.Helper()
	for _, iss := range issues {
		if iss.Code == code {
			return
		}
	}
	t.Fatalf("expected issue code %q, got %+v", code, issues)
}

func sampleCatalogRepo(t *testing.T) *catalog.Repository {
	t.Helper()
	repo, err := catalog.New(map[catalog.Category][]catalog.Type{
		catalog.CableCategory: {
			&catalog.CableType{ID: "CAB-1", Name: "CAB-1", ROhmPerKm: 0.2, XOhmPerKm: 0.1, RatedCurrentA: 300},
		},
	})
	require.NoError(t, err)

	return repo
}
