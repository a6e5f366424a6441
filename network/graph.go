package network

import (
	"fmt"
	"sync"

	"github.com/radekizk/mvbench/errdomain"
)

// Graph is the in-memory one-line network: nodes, branches, switches
// and inverter sources, guarded by a single RWMutex exactly as
// lvlath's core.Graph guards its adjacency list. Mutation is only
// valid before a snapshot is taken of the graph (§5 shared-resource
// policy); nothing in this package enforces that by itself, it is a
// caller contract.
type Graph struct {
	mu              sync.RWMutex
	networkModelID  string
	nodes           map[string]*Node
	branches        map[string]Branch
	switches        map[string]*Switch
	inverterSources map[string]*InverterSource
}

// NewGraph constructs an empty Graph bound to a network model id.
func NewGraph(networkModelID string) *Graph {
	return &Graph{
		networkModelID:  networkModelID,
		nodes:           make(map[string]*Node),
		branches:        make(map[string]Branch),
		switches:        make(map[string]*Switch),
		inverterSources: make(map[string]*InverterSource),
	}
}

// NetworkModelID returns the owning project-scoped model id.
func (g *Graph) NetworkModelID() string { return g.networkModelID }

// AddNode inserts n. Fails with ErrDuplicateIdentifier if n.ID already
// exists.
func (g *Graph) AddNode(n *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("network: add node %q: %w", n.ID, errdomain.ErrDuplicateIdentifier)
	}
	g.nodes[n.ID] = n

	return nil
}

// AddBranch inserts b after validating referential integrity (I1),
// distinct endpoints (I2), and — for Line/Cable — matching voltage
// levels on both endpoints (I3). Fails with ErrDuplicateIdentifier if
// b.BranchID() already exists.
func (g *Graph) AddBranch(b Branch) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.branches[b.BranchID()]; exists {
		return fmt.Errorf("network: add branch %q: %w", b.BranchID(), errdomain.ErrDuplicateIdentifier)
	}

	from, ok := g.nodes[b.FromNodeID()]
	if !ok {
		return fmt.Errorf("network: branch %q: from_node_id %q: %w", b.BranchID(), b.FromNodeID(), errdomain.ErrDanglingReference)
	}
	to, ok := g.nodes[b.ToNodeID()]
	if !ok {
		return fmt.Errorf("network: branch %q: to_node_id %q: %w", b.BranchID(), b.ToNodeID(), errdomain.ErrDanglingReference)
	}
	if b.FromNodeID() == b.ToNodeID() {
		return fmt.Errorf("network: branch %q: self-loop: %w", b.BranchID(), errdomain.ErrParameterInconsistent)
	}
	if b.Kind() != BranchTransformer && from.VoltageLevelKV != to.VoltageLevelKV {
		return fmt.Errorf("network: branch %q: voltage level mismatch %g != %g: %w",
			b.BranchID(), from.VoltageLevelKV, to.VoltageLevelKV, errdomain.ErrParameterInconsistent)
	}

	g.branches[b.BranchID()] = b

	return nil
}

// AddSwitch inserts s after validating referential integrity (I1).
func (g *Graph) AddSwitch(s *Switch) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.switches[s.ID]; exists {
		return fmt.Errorf("network: add switch %q: %w", s.ID, errdomain.ErrDuplicateIdentifier)
	}
	if _, ok := g.nodes[s.FromNodeId]; !ok {
		return fmt.Errorf("network: switch %q: from_node_id %q: %w", s.ID, s.FromNodeId, errdomain.ErrDanglingReference)
	}
	if _, ok := g.nodes[s.ToNodeId]; !ok {
		return fmt.Errorf("network: switch %q: to_node_id %q: %w", s.ID, s.ToNodeId, errdomain.ErrDanglingReference)
	}

	g.switches[s.ID] = s

	return nil
}

// AddInverterSource inserts src after validating its node reference.
func (g *Graph) AddInverterSource(src *InverterSource) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.inverterSources[src.ID]; exists {
		return fmt.Errorf("network: add inverter source %q: %w", src.ID, errdomain.ErrDuplicateIdentifier)
	}
	if _, ok := g.nodes[src.NodeID]; !ok {
		return fmt.Errorf("network: inverter source %q: node_id %q: %w", src.ID, src.NodeID, errdomain.ErrDanglingReference)
	}

	g.inverterSources[src.ID] = src

	return nil
}

// Node returns the node with id, or ErrNotFound.
func (g *Graph) Node(id string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("network: node %q: %w", id, errdomain.ErrNotFound)
	}

	return n, nil
}

// Nodes returns a stable-order-independent snapshot copy of all nodes.
func (g *Graph) Nodes() map[string]*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]*Node, len(g.nodes))
	for k, v := range g.nodes {
		out[k] = v
	}

	return out
}

// Branches returns a snapshot copy of all branches.
func (g *Graph) Branches() map[string]Branch {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]Branch, len(g.branches))
	for k, v := range g.branches {
		out[k] = v
	}

	return out
}

// Switches returns a snapshot copy of all switches.
func (g *Graph) Switches() map[string]*Switch {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]*Switch, len(g.switches))
	for k, v := range g.switches {
		out[k] = v
	}

	return out
}

// InverterSources returns a snapshot copy of all inverter sources.
func (g *Graph) InverterSources() map[string]*InverterSource {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]*InverterSource, len(g.inverterSources))
	for k, v := range g.inverterSources {
		out[k] = v
	}

	return out
}

// GetSlackNode returns the unique in-service Slack node. It fails with
// ErrNotFound if there is none, and with ErrParameterInconsistent if
// there is more than one (I4).
func (g *Graph) GetSlackNode() (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var found *Node
	for _, n := range g.nodes {
		if n.NodeType != NodeSlack || !n.InService {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("network: multiple slack nodes (%q, %q): %w", found.ID, n.ID, errdomain.ErrParameterInconsistent)
		}
		found = n
	}
	if found == nil {
		return nil, fmt.Errorf("network: no slack node: %w", errdomain.ErrNotFound)
	}

	return found, nil
}

// ToCanonicalValue implements codec.Canonicalizer. Element arrays carry
// an "id" key so the canonical codec sorts them regardless of
// insertion order (§4.1 rule 2, §8 property P2).
func (g *Graph) ToCanonicalValue() any {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]any, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n.ToCanonicalValue())
	}
	branches := make([]any, 0, len(g.branches))
	for _, b := range g.branches {
		branches = append(branches, b.ToCanonicalValue())
	}
	switches := make([]any, 0, len(g.switches))
	for _, s := range g.switches {
		switches = append(switches, s.ToCanonicalValue())
	}
	sources := make([]any, 0, len(g.inverterSources))
	for _, s := range g.inverterSources {
		sources = append(sources, s.ToCanonicalValue())
	}

	return map[string]any{
		"network_model_id": g.networkModelID,
		"nodes":            nodes,
		"branches":         branches,
		"switches":         switches,
		"inverter_sources": sources,
	}
}
