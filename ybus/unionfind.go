package ybus

import "github.com/radekizk/mvbench/solverinput"

// unionFind merges node ids that a closed switch shorts together
// before the Y-bus index is assigned (§4.6 step 4).
type unionFind struct {
	parent map[string]string
}

func newUnionFind(nodes []solverinput.NodeSpec) *unionFind {
	parent := make(map[string]string, len(nodes))
	for _, n := range nodes {
		parent[n.ID] = n.ID
	}

	return &unionFind{parent: parent}
}

func (u *unionFind) find(id string) string {
	root, ok := u.parent[id]
	if !ok {
		return id
	}
	for root != u.parent[root] {
		root = u.parent[root]
	}
	u.parent[id] = root

	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
