package solverinput_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/catalog"
	"github.com/radekizk/mvbench/network"
	"github.com/radekizk/mvbench/solverinput"
)

func buildSampleGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.NewGraph("net-1")
	require.NoError(t, g.AddNode(&network.Node{ID: "N1", Name: "N1", NodeType: network.NodeSlack, VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "N2", Name: "N2", NodeType: network.NodePQ, VoltageLevelKV: 15, InService: true}))

	cable := network.NewCable("B1", "B1", "N1", "N2", true)
	cable.TypeRef = "CAB-1"
	cable.LengthKm = 0.5
	require.NoError(t, g.AddBranch(cable))

	return g
}

func sampleRepo(t *testing.T) *catalog.Repository {
	t.Helper()
	repo, err := catalog.New(map[catalog.Category][]catalog.Type{
		catalog.CableCategory: {
			&catalog.CableType{ID: "CAB-1", Name: "CAB-1", ROhmPerKm: 0.253, XOhmPerKm: 0.073, RatedCurrentA: 300},
		},
	})
	require.NoError(t, err)

	return repo
}

func TestBuild_ResolvesFromCatalogWhenNoOverride(t *testing.T) {
	g := buildSampleGraph(t)
	env, err := solverinput.Build(g, sampleRepo(t), solverinput.StudyCaseConfig{BaseMVA: 100}, solverinput.AnalysisLoadFlow, "case-1", "rev-1")
	require.NoError(t, err)
	assert.True(t, env.Eligibility.Eligible)

	var found bool
	for _, tr := range env.Trace {
		if tr.ElementRef == "B1" && tr.FieldPath == "r_ohm_per_km" {
			found = true
			assert.Equal(t, solverinput.SourceCatalog, tr.SourceKind)
			assert.Equal(t, "CAB-1", tr.SourceRef)
		}
	}
	assert.True(t, found, "expected trace entry for B1/r_ohm_per_km")
}

func TestBuild_OverrideTakesPrecedenceOverCatalog(t *testing.T) {
	g := network.NewGraph("net-2")
	require.NoError(t, g.AddNode(&network.Node{ID: "N1", Name: "N1", NodeType: network.NodeSlack, VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "N2", Name: "N2", NodeType: network.NodePQ, VoltageLevelKV: 15, InService: true}))
	cable := network.NewCable("B1", "B1", "N1", "N2", true)
	cable.TypeRef = "CAB-1"
	cable.LengthKm = 0.5
	cable.ImpedanceOverride = &network.ImpedanceOverride{ROhm: 0.1, XOhm: 0.05}
	require.NoError(t, g.AddBranch(cable))

	env, err := solverinput.Build(g, sampleRepo(t), solverinput.StudyCaseConfig{BaseMVA: 100}, solverinput.AnalysisLoadFlow, "case-2", "rev-1")
	require.NoError(t, err)

	for _, tr := range env.Trace {
		if tr.ElementRef == "B1" && tr.FieldPath == "r_ohm_per_km" {
			assert.Equal(t, solverinput.SourceOverride, tr.SourceKind)
		}
	}
}

func TestBuild_MissingZ0ForUnbalancedFaultIsBlocker(t *testing.T) {
	g := buildSampleGraph(t)
	cfg := solverinput.StudyCaseConfig{BaseMVA: 100, FaultType: solverinput.Fault1F, FaultNodeID: "N2", Z0Available: false}
	env, err := solverinput.Build(g, sampleRepo(t), cfg, solverinput.AnalysisShortCircuit, "case-3", "rev-1")
	require.NoError(t, err)
	assert.False(t, env.Eligibility.Eligible)
	assert.Contains(t, env.Eligibility.Blockers, "ELIG_SC1F_NO_Z0")
}

func TestBuild_EmptyFaultNodeIsBlocker(t *testing.T) {
	g := buildSampleGraph(t)
	cfg := solverinput.StudyCaseConfig{BaseMVA: 100, FaultType: solverinput.Fault3F}
	env, err := solverinput.Build(g, sampleRepo(t), cfg, solverinput.AnalysisShortCircuit, "case-4", "rev-1")
	require.NoError(t, err)
	assert.Contains(t, env.Eligibility.Blockers, "ELIG_FAULT_NODE_EMPTY")
}

func TestBuild_HashStableAcrossRebuilds(t *testing.T) {
	g := buildSampleGraph(t)
	repo := sampleRepo(t)
	cfg := solverinput.StudyCaseConfig{BaseMVA: 100}

	env1, err := solverinput.Build(g, repo, cfg, solverinput.AnalysisLoadFlow, "case-5", "rev-1")
	require.NoError(t, err)
	env2, err := solverinput.Build(g, repo, cfg, solverinput.AnalysisLoadFlow, "case-5", "rev-1")
	require.NoError(t, err)

	assert.Equal(t, env1.SolverInputHash, env2.SolverInputHash)
}

func TestBuild_NoSourceAppendsBlocker(t *testing.T) {
	g := network.NewGraph("net-3")
	require.NoError(t, g.AddNode(&network.Node{ID: "N1", Name: "N1", NodeType: network.NodeSlack, VoltageLevelKV: 15, InService: true}))
	require.NoError(t, g.AddNode(&network.Node{ID: "N2", Name: "N2", NodeType: network.NodePQ, VoltageLevelKV: 15, InService: true}))
	line := network.NewLine("B1", "B1", "N1", "N2", true)
	require.NoError(t, g.AddBranch(line))

	env, err := solverinput.Build(g, nil, solverinput.StudyCaseConfig{BaseMVA: 100}, solverinput.AnalysisLoadFlow, "case-6", "rev-1")
	require.NoError(t, err)
	assert.False(t, env.Eligibility.Eligible)
}
