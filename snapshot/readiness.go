package snapshot

import (
	"sort"

	"github.com/radekizk/mvbench/catalog"
	"github.com/radekizk/mvbench/messages"
	"github.com/radekizk/mvbench/network"
)

// Area groups a ReadinessIssue by the subsystem it concerns (§3).
type Area string

const (
	AreaSources    Area = "Sources"
	AreaCatalogs   Area = "Catalogs"
	AreaTopology   Area = "Topology"
	AreaStations   Area = "Stations"
	AreaProtection Area = "Protection"
	AreaAnalysis   Area = "Analysis"
)

// Priority ranks a ReadinessIssue for sort order and gating (§3).
type Priority string

const (
	PriorityBlocker Priority = "Blocker"
	PriorityWarning Priority = "Warning"
	PriorityInfo    Priority = "Info"
)

var priorityRank = map[Priority]int{PriorityBlocker: 0, PriorityWarning: 1, PriorityInfo: 2}

// ReadinessIssue is one finding produced by Check.
type ReadinessIssue struct {
	Code        string
	Area        Area
	Priority    Priority
	MessagePL   string
	ElementID   string
	ElementType string
	FixHintPL   string
	WizardStep  string
}

// ReadinessProfile is the full report for a snapshot.
type ReadinessProfile struct {
	SnapshotID          string
	SnapshotFingerprint string
	Issues              []ReadinessIssue
	ShortCircuitReady   bool
	LoadFlowReady       bool
	ProtectionReady     bool
}

func newIssue(code string, area Area, priority Priority, elementID, elementType string) ReadinessIssue {
	return ReadinessIssue{
		Code:        code,
		Area:        area,
		Priority:    priority,
		MessagePL:   messages.Lookup(code),
		ElementID:   elementID,
		ElementType: elementType,
	}
}

// minID returns the lexicographically smallest id in comp. Go's map
// iteration order is randomized, so picking a representative id for a
// component this way (rather than "whatever the iterator yields
// first") keeps the resulting issue — and everything downstream that
// hashes it, including the signed ResultSet — deterministic.
func minID(comp map[string]struct{}) string {
	var min string
	first := true
	for id := range comp {
		if first || id < min {
			min = id
			first = false
		}
	}

	return min
}

// Check walks snap and emits issues according to the fixed rule table
// of §4.4. repo may be nil, in which case every catalog-bound branch
// is reported as catalog.materialization_failed (there is nothing to
// resolve against).
func Check(snap *Snapshot, repo *catalog.Repository) ReadinessProfile {
	var issues []ReadinessIssue

	nodes := snap.Graph.Nodes()
	branches := snap.Graph.Branches()

	issues = append(issues, checkSources(nodes)...)
	issues = append(issues, checkBranches(branches, repo)...)
	issues = append(issues, checkTopology(snap.Graph, nodes)...)

	sort.SliceStable(issues, func(i, j int) bool {
		if priorityRank[issues[i].Priority] != priorityRank[issues[j].Priority] {
			return priorityRank[issues[i].Priority] < priorityRank[issues[j].Priority]
		}
		if issues[i].Area != issues[j].Area {
			return issues[i].Area < issues[j].Area
		}
		if issues[i].Code != issues[j].Code {
			return issues[i].Code < issues[j].Code
		}

		return issues[i].ElementID < issues[j].ElementID
	})

	profile := ReadinessProfile{
		SnapshotID:          snap.SnapshotID,
		SnapshotFingerprint: snap.Fingerprint,
		Issues:              issues,
	}
	profile.ShortCircuitReady = !hasBlockerInAreas(issues, AreaSources, AreaCatalogs, AreaTopology)
	profile.LoadFlowReady = !hasBlockerInAreas(issues, AreaSources, AreaCatalogs, AreaTopology)
	profile.ProtectionReady = !hasBlockerInAreas(issues, AreaProtection)

	return profile
}

func hasBlockerInAreas(issues []ReadinessIssue, areas ...Area) bool {
	set := make(map[Area]bool, len(areas))
	for _, a := range areas {
		set[a] = true
	}
	for _, i := range issues {
		if i.Priority == PriorityBlocker && set[i.Area] {
			return true
		}
	}

	return false
}

func checkSources(nodes map[string]*network.Node) []ReadinessIssue {
	var issues []ReadinessIssue
	if len(nodes) == 0 {
		return issues
	}

	var slackCount int
	for _, n := range nodes {
		if n.NodeType != network.NodeSlack || !n.InService {
			continue
		}
		slackCount++
		if n.VoltageLevelKV <= 0 {
			issues = append(issues, newIssue("source.voltage_invalid", AreaSources, PriorityBlocker, n.ID, "Node"))
		}
		if n.GridSk3MVA <= 0 {
			issues = append(issues, newIssue("source.sk3_invalid", AreaSources, PriorityBlocker, n.ID, "Node"))
		}
	}
	if slackCount == 0 {
		issues = append(issues, newIssue("source.grid_supply_missing", AreaSources, PriorityBlocker, "", ""))
	}

	return issues
}

func checkBranches(branches map[string]network.Branch, repo *catalog.Repository) []ReadinessIssue {
	var issues []ReadinessIssue

	for _, b := range branches {
		if !b.IsInService() {
			continue
		}
		switch br := b.(type) {
		case *network.Line:
			issues = append(issues, checkTrunk(br.BranchID(), br.TypeRef, br.ImpedanceOverride != nil, br.LengthKm, catalog.LineCategory, repo)...)
		case *network.Cable:
			issues = append(issues, checkTrunk(br.BranchID(), br.TypeRef, br.ImpedanceOverride != nil, br.LengthKm, catalog.CableCategory, repo)...)
		case *network.Transformer:
			issues = append(issues, checkTransformer(br, repo)...)
		}
	}

	return issues
}

func checkTrunk(id, typeRef string, hasOverride bool, lengthKm float64, cat catalog.Category, repo *catalog.Repository) []ReadinessIssue {
	var issues []ReadinessIssue

	if typeRef == "" && !hasOverride {
		issues = append(issues, newIssue("trunk.catalog_missing", AreaCatalogs, PriorityBlocker, id, "Branch"))
	} else if typeRef != "" {
		if repo == nil {
			issues = append(issues, newIssue("catalog.materialization_failed", AreaCatalogs, PriorityBlocker, id, "Branch"))
		} else if _, ok := repo.Get(cat, typeRef); !ok {
			issues = append(issues, newIssue("catalog.materialization_failed", AreaCatalogs, PriorityBlocker, id, "Branch"))
		}
	}

	if lengthKm <= 0 {
		issues = append(issues, newIssue("trunk.segment_length_missing", AreaTopology, PriorityBlocker, id, "Branch"))
	}

	return issues
}

func checkTransformer(tr *network.Transformer, repo *catalog.Repository) []ReadinessIssue {
	var issues []ReadinessIssue

	if tr.TypeRef == "" {
		if tr.VLvKV <= 0 {
			issues = append(issues, newIssue("transformer.lv_voltage_missing", AreaCatalogs, PriorityBlocker, tr.BranchID(), "Branch"))
		}
		if tr.UkPercent <= 0 {
			issues = append(issues, newIssue("transformer.uk_invalid", AreaCatalogs, PriorityBlocker, tr.BranchID(), "Branch"))
		}

		return issues
	}

	if repo == nil {
		issues = append(issues, newIssue("catalog.materialization_failed", AreaCatalogs, PriorityBlocker, tr.BranchID(), "Branch"))

		return issues
	}
	t, ok := repo.Get(catalog.TransformerCategory, tr.TypeRef)
	if !ok {
		issues = append(issues, newIssue("transformer.catalog_missing", AreaCatalogs, PriorityBlocker, tr.BranchID(), "Branch"))

		return issues
	}
	resolved := t.(*catalog.TransformerType)
	if resolved.VLvKV <= 0 {
		issues = append(issues, newIssue("transformer.lv_voltage_missing", AreaCatalogs, PriorityBlocker, tr.BranchID(), "Branch"))
	}
	if resolved.UkPercent <= 0 {
		issues = append(issues, newIssue("transformer.uk_invalid", AreaCatalogs, PriorityBlocker, tr.BranchID(), "Branch"))
	}

	return issues
}

func checkTopology(g *network.Graph, nodes map[string]*network.Node) []ReadinessIssue {
	var issues []ReadinessIssue
	if len(nodes) == 0 {
		return issues
	}

	components := g.ConnectedComponents(true)
	if len(components) > 1 {
		issues = append(issues, newIssue("E-D03", AreaTopology, PriorityBlocker, "", ""))
	}

	for _, comp := range components {
		var slackCount int
		for id := range comp {
			n, ok := nodes[id]
			if ok && n.NodeType == network.NodeSlack {
				slackCount++
			}
		}
		if slackCount != 1 {
			issues = append(issues, newIssue("topology.missing_slack", AreaTopology, PriorityBlocker, minID(comp), "Node"))
		}
	}

	// Switch isolation: an open in-service switch whose two endpoints
	// land in different components under strict switch-state
	// traversal, but in the same component when switches are ignored,
	// is a candidate isolator.
	strict := g.ConnectedComponents(true)
	lax := g.ConnectedComponents(false)
	componentOf := func(sets []map[string]struct{}, id string) int {
		for i, s := range sets {
			if _, ok := s[id]; ok {
				return i
			}
		}

		return -1
	}
	for _, sw := range g.Switches() {
		if !sw.InService || sw.State != network.SwitchOpen {
			continue
		}
		if componentOf(strict, sw.ToNodeId) != componentOf(strict, sw.FromNodeId) &&
			componentOf(lax, sw.ToNodeId) == componentOf(lax, sw.FromNodeId) {
			issues = append(issues, newIssue("topology.switch_isolates", AreaTopology, PriorityWarning, sw.ID, "Switch"))
		}
	}

	return issues
}
