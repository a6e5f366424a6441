package resultset_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekizk/mvbench/codec"
	"github.com/radekizk/mvbench/powerflow"
	"github.com/radekizk/mvbench/resultset"
	"github.com/radekizk/mvbench/shortcircuit"
	"github.com/radekizk/mvbench/snapshot"
	"github.com/radekizk/mvbench/solverinput"
)

var hexColor = regexp.MustCompile(`#[0-9a-fA-F]{3,8}`)

func samplePowerFlowResult() *powerflow.Result {
	return &powerflow.Result{
		Converged:  true,
		Iterations: 3,
		Nodes: []powerflow.NodeResult{
			{ID: "N2", VMagPU: 0.99, VAngleDeg: -1.2},
			{ID: "N1", VMagPU: 1.0, VAngleDeg: 0},
		},
	}
}

func TestBuildFromPowerFlow_SortsElementsAscendingAndSigns(t *testing.T) {
	meta := resultset.Meta{RunID: "run-1", AnalysisType: "LoadFlow", SolverInputHash: "abc", CreatedAt: "2026-07-31T00:00:00Z"}
	rs, err := resultset.BuildFromPowerFlow(meta, samplePowerFlowResult(), snapshot.ReadinessProfile{})
	require.NoError(t, err)

	require.Len(t, rs.ElementResults, 2)
	assert.Equal(t, "N1", rs.ElementResults[0].ElementRef)
	assert.Equal(t, "N2", rs.ElementResults[1].ElementRef)
	assert.NotEmpty(t, rs.DeterministicSignature)
}

func TestBuildFromPowerFlow_SignatureStableAcrossRebuilds(t *testing.T) {
	meta := resultset.Meta{RunID: "run-1", AnalysisType: "LoadFlow", SolverInputHash: "abc", CreatedAt: "2026-07-31T00:00:00Z"}
	rs1, err := resultset.BuildFromPowerFlow(meta, samplePowerFlowResult(), snapshot.ReadinessProfile{})
	require.NoError(t, err)
	rs2, err := resultset.BuildFromPowerFlow(meta, samplePowerFlowResult(), snapshot.ReadinessProfile{})
	require.NoError(t, err)

	assert.Equal(t, rs1.DeterministicSignature, rs2.DeterministicSignature)
}

func TestBuildFromShortCircuit_NoHexColorsInOverlay(t *testing.T) {
	fault := &shortcircuit.FaultResult{
		FaultNodeID: "LV", FaultType: solverinput.Fault3F,
		IkssA: 7217, IpA: 10000, IthA: 7300, SkMVA: 250, Kappa: 1.3,
	}
	profile := snapshot.ReadinessProfile{Issues: []snapshot.ReadinessIssue{
		{Code: "trunk.catalog_missing", Area: snapshot.AreaCatalogs, Priority: snapshot.PriorityWarning, ElementID: "LV", MessagePL: "x"},
	}}
	rs, err := resultset.BuildFromShortCircuit(resultset.Meta{RunID: "run-2", AnalysisType: "ShortCircuit"}, fault, profile)
	require.NoError(t, err)

	require.Len(t, rs.OverlayPayload.Elements, 1)
	el := rs.OverlayPayload.Elements[0]
	assert.False(t, hexColor.MatchString(el.ColorToken))
	assert.False(t, hexColor.MatchString(el.SeverityToken))
	assert.Equal(t, "warning", el.SeverityToken)

	require.Len(t, rs.ElementResults[0].Badges, 1)
	assert.Equal(t, "trunk.catalog_missing", rs.ElementResults[0].Badges[0].Code)
}

// TestBuildFromPowerFlow_CanonicalBytesRoundTrip covers P12: canonical
// bytes are a fixed point under decode-then-reencode — parsing a
// ResultSet's canonical bytes back into a plain value and
// re-serializing it reproduces the exact same bytes.
func TestBuildFromPowerFlow_CanonicalBytesRoundTrip(t *testing.T) {
	meta := resultset.Meta{RunID: "run-3", AnalysisType: "LoadFlow", SolverInputHash: "abc", CreatedAt: "2026-07-31T00:00:00Z"}
	rs, err := resultset.BuildFromPowerFlow(meta, samplePowerFlowResult(), snapshot.ReadinessProfile{})
	require.NoError(t, err)

	original, err := codec.CanonicalBytes(rs.ToCanonicalValue())
	require.NoError(t, err)

	var decoded any
	require.NoError(t, json.Unmarshal(original, &decoded))

	reencoded, err := codec.CanonicalBytes(decoded)
	require.NoError(t, err)

	assert.Equal(t, string(original), string(reencoded))
}
