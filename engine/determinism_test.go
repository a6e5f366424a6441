package engine_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/engine"
	"github.com/radekizk/mvbench/snapshot"
	"github.com/radekizk/mvbench/solverinput"
)

// TestFullPipeline_DeterministicAcrossRepeatedRuns rebuilds the same
// scenario into a solver-input envelope and executes it ten times over
// ten independent engines, asserting every run produces the same
// solver-input hash and the same ResultSet deterministic signature.
func TestFullPipeline_DeterministicAcrossRepeatedRuns(t *testing.T) {
	cfg := solverinput.StudyCaseConfig{BaseMVA: 100, TolerancePU: 1e-6, MaxIterations: 20}

	var hashes, signatures []string
	for i := 0; i < 10; i++ {
		g, repo := buildPowerFlowGraph(t)
		env, err := solverinput.Build(g, repo, cfg, solverinput.AnalysisLoadFlow, "case-det", "rev-1")
		require.NoError(t, err)
		require.True(t, env.Eligibility.Eligible)

		snap, err := snapshot.Freeze(g, "snap-det", "2026-01-01T00:00:00Z", g.NetworkModelID())
		require.NoError(t, err)
		profile := snapshot.Check(snap, repo)

		e := engine.New(zerolog.Nop(), engine.NewMetrics(prometheus.NewRegistry()))
		run, err := e.CreateRun("case-det", env, &profile)
		require.NoError(t, err)

		run, err = e.ExecuteRun(run.ID)
		require.NoError(t, err)
		require.Equal(t, engine.StatusDone, run.Status)

		rs, err := e.GetResultSet(run.ID)
		require.NoError(t, err)

		hashes = append(hashes, run.SolverInputHash)
		signatures = append(signatures, rs.DeterministicSignature)
	}

	for i := 1; i < len(hashes); i++ {
		require.Equal(t, hashes[0], hashes[i], "solver input hash must be stable across identical rebuilds")
		require.Equal(t, signatures[0], signatures[i], "deterministic signature must be stable across identical rebuilds")
	}
}
