package network

import "sort"

// adjacency builds an undirected neighbor map of in-service nodes,
// linking endpoints of every in-service branch plus, when
// respectingSwitches is false or a switch is Closed, every in-service
// switch. An Open switch with respectingSwitches=true is treated as
// infinite impedance and contributes no edge, matching the Bus-
// Admittance Assembler's treatment of open switches (§4.6 step 4).
func (g *Graph) adjacency(respectingSwitches bool) map[string]map[string]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adj := make(map[string]map[string]struct{}, len(g.nodes))
	for id, n := range g.nodes {
		if n.InService {
			adj[id] = make(map[string]struct{})
		}
	}
	link := func(a, b string) {
		if _, ok := adj[a]; !ok {
			return
		}
		if _, ok := adj[b]; !ok {
			return
		}
		adj[a][b] = struct{}{}
		adj[b][a] = struct{}{}
	}

	for _, b := range g.branches {
		if !b.IsInService() {
			continue
		}
		link(b.FromNodeID(), b.ToNodeID())
	}
	for _, s := range g.switches {
		if !s.InService {
			continue
		}
		if respectingSwitches && s.State != SwitchClosed {
			continue
		}
		link(s.FromNodeId, s.ToNodeId)
	}

	return adj
}

// ConnectedComponents returns the connected components of in-service
// nodes as sets of node ids, traversed breadth-first in ascending id
// order so that component membership (but not traversal order within
// a component) is deterministic across runs. When respectingSwitches
// is true, an Open switch does not connect its endpoints; when false,
// every in-service switch is treated as a closed link regardless of
// its actual State (used by readiness checks that ask "could this ever
// be connected" rather than "is this connected right now").
func (g *Graph) ConnectedComponents(respectingSwitches bool) []map[string]struct{} {
	adj := g.adjacency(respectingSwitches)

	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(adj))
	var components []map[string]struct{}

	for _, start := range ids {
		if visited[start] {
			continue
		}
		component := map[string]struct{}{}
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component[cur] = struct{}{}

			neighbors := make([]string, 0, len(adj[cur]))
			for nb := range adj[cur] {
				neighbors = append(neighbors, nb)
			}
			sort.Strings(neighbors)
			for _, nb := range neighbors {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		components = append(components, component)
	}

	return components
}
