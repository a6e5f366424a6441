package engine_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/catalog"
	"github.com/radekizk/mvbench/engine"
	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/network"
	"github.com/radekizk/mvbench/snapshot"
	"github.com/radekizk/mvbench/solverinput"
)

func newTestEngine() *engine.Engine {
	return engine.New(zerolog.Nop(), engine.NewMetrics(prometheus.NewRegistry()))
}

func buildPowerFlowGraph(t *testing.T) (*network.Graph, *catalog.Repository) {
	t.Helper()
	g := network.NewGraph("net-1")
	require.NoError(t, g.AddNode(&network.Node{
		ID: "N1", Name: "N1", NodeType: network.NodeSlack, VoltageLevelKV: 15, VMagPU: 1.0,
		InService: true, GridSk3MVA: 250, GridROverX: 0.1,
	}))
	require.NoError(t, g.AddNode(&network.Node{ID: "N2", Name: "N2", NodeType: network.NodePQ, VoltageLevelKV: 15, InService: true}))
	cable := network.NewCable("B1", "B1", "N1", "N2", true)
	cable.TypeRef = "CAB-1"
	cable.LengthKm = 0.5
	require.NoError(t, g.AddBranch(cable))

	repo, err := catalog.New(map[catalog.Category][]catalog.Type{
		catalog.CableCategory: {&catalog.CableType{ID: "CAB-1", Name: "CAB-1", ROhmPerKm: 0.253, XOhmPerKm: 0.073, RatedCurrentA: 300}},
	})
	require.NoError(t, err)

	return g, repo
}

func TestCreateRun_GateEnforcementNoRunStoredWhenBlocked(t *testing.T) {
	g, repo := buildPowerFlowGraph(t)
	cfg := solverinput.StudyCaseConfig{BaseMVA: 100, FaultType: solverinput.Fault1F, FaultNodeID: "N2", Z0Available: false}
	env, err := solverinput.Build(g, repo, cfg, solverinput.AnalysisShortCircuit, "case-1", "rev-1")
	require.NoError(t, err)
	require.False(t, env.Eligibility.Eligible)
	require.Contains(t, env.Eligibility.Blockers, "ELIG_SC1F_NO_Z0")

	e := newTestEngine()
	_, err = e.CreateRun("case-1", env, nil)
	var blocked *errdomain.RunBlockedError
	assert.ErrorAs(t, err, &blocked)
	assert.Contains(t, blocked.Blockers, "ELIG_SC1F_NO_Z0")
}

func TestCreateRun_RunNotReadyWhenReadinessFails(t *testing.T) {
	g := network.NewGraph("net-2")
	require.NoError(t, g.AddNode(&network.Node{ID: "N1", Name: "N1", NodeType: network.NodePQ, VoltageLevelKV: 15, InService: true}))
	cfg := solverinput.StudyCaseConfig{BaseMVA: 100}
	env, err := solverinput.Build(g, nil, cfg, solverinput.AnalysisLoadFlow, "case-2", "rev-1")
	require.NoError(t, err)

	profile := snapshot.ReadinessProfile{LoadFlowReady: false, Issues: []snapshot.ReadinessIssue{
		{Code: "source.grid_supply_missing", Priority: snapshot.PriorityBlocker},
	}}

	e := newTestEngine()
	_, err = e.CreateRun("case-2", env, &profile)
	var notReady *errdomain.RunNotReadyError
	assert.ErrorAs(t, err, &notReady)
	assert.Contains(t, notReady.Reasons, "source.grid_supply_missing")
}

func TestExecuteRun_IdempotentOnAlreadyDoneRun(t *testing.T) {
	g, repo := buildPowerFlowGraph(t)
	env, err := solverinput.Build(g, repo, solverinput.StudyCaseConfig{BaseMVA: 100, TolerancePU: 1e-8, MaxIterations: 20}, solverinput.AnalysisLoadFlow, "case-3", "rev-1")
	require.NoError(t, err)

	e := newTestEngine()
	run, err := e.CreateRun("case-3", env, nil)
	require.NoError(t, err)

	done1, err := e.ExecuteRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, engine.StatusDone, done1.Status)

	rs1, err := e.GetResultSet(run.ID)
	require.NoError(t, err)

	done2, err := e.ExecuteRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, done1.FinishedAt, done2.FinishedAt)

	rs2, err := e.GetResultSet(run.ID)
	require.NoError(t, err)
	assert.Equal(t, rs1.DeterministicSignature, rs2.DeterministicSignature)
}

func TestExecuteRun_UnknownRunIsNotFound(t *testing.T) {
	e := newTestEngine()
	_, err := e.ExecuteRun("nope")
	assert.ErrorIs(t, err, errdomain.ErrRunNotFound)
}

func TestListRunsForCase_NewestFirst(t *testing.T) {
	g, repo := buildPowerFlowGraph(t)
	env, err := solverinput.Build(g, repo, solverinput.StudyCaseConfig{BaseMVA: 100}, solverinput.AnalysisLoadFlow, "case-4", "rev-1")
	require.NoError(t, err)

	e := newTestEngine()
	run1, err := e.CreateRun("case-4", env, nil)
	require.NoError(t, err)
	run2, err := e.CreateRun("case-4", env, nil)
	require.NoError(t, err)

	runs := e.ListRunsForCase("case-4")
	require.Len(t, runs, 2)
	ids := map[string]bool{run1.ID: true, run2.ID: true}
	assert.True(t, ids[runs[0].ID])
	assert.True(t, ids[runs[1].ID])
	assert.Equal(t, run2.ID, runs[0].ID)
}
