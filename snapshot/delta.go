package snapshot

import (
	"fmt"
	"sort"

	"github.com/radekizk/mvbench/network"
)

// FieldChange is one changed scalar field of one element (§3).
type FieldChange struct {
	ElementID string
	FieldName string
	OldValue  any
	NewValue  any
}

// DeltaOverlay is the element-level diff between two snapshots (§3).
type DeltaOverlay struct {
	AddedElements    []string
	RemovedElements  []string
	ModifiedElements []FieldChange
}

// Delta computes the DeltaOverlay from a to b. It satisfies delta
// symmetry (P3): Delta(b, a) has AddedElements/RemovedElements swapped
// and every FieldChange's Old/New swapped, because both directions
// are computed from the same canonical element maps.
func Delta(a, b *Snapshot) DeltaOverlay {
	before := canonicalElements(a.Graph)
	after := canonicalElements(b.Graph)

	var added, removed []string
	var modified []FieldChange

	for id := range after {
		if _, ok := before[id]; !ok {
			added = append(added, id)
		}
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	for id, beforeFields := range before {
		afterFields, ok := after[id]
		if !ok {
			continue
		}
		modified = append(modified, diffFields(id, beforeFields, afterFields)...)
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Slice(modified, func(i, j int) bool {
		if modified[i].ElementID != modified[j].ElementID {
			return modified[i].ElementID < modified[j].ElementID
		}

		return modified[i].FieldName < modified[j].FieldName
	})

	return DeltaOverlay{AddedElements: added, RemovedElements: removed, ModifiedElements: modified}
}

// canonicalElements flattens every node/branch/switch/inverter in g
// into id -> its ToCanonicalValue() field map, for field-by-field
// comparison.
func canonicalElements(g *network.Graph) map[string]map[string]any {
	out := map[string]map[string]any{}
	for id, n := range g.Nodes() {
		out[id] = n.ToCanonicalValue().(map[string]any)
	}
	for id, b := range g.Branches() {
		out[id] = b.ToCanonicalValue().(map[string]any)
	}
	for id, s := range g.Switches() {
		out[id] = s.ToCanonicalValue().(map[string]any)
	}
	for id, inv := range g.InverterSources() {
		out[id] = inv.ToCanonicalValue().(map[string]any)
	}

	return out
}

func diffFields(elementID string, before, after map[string]any) []FieldChange {
	var changes []FieldChange
	for field, oldVal := range before {
		newVal, ok := after[field]
		if !ok {
			continue
		}
		if !equalScalar(oldVal, newVal) {
			changes = append(changes, FieldChange{ElementID: elementID, FieldName: field, OldValue: oldVal, NewValue: newVal})
		}
	}

	return changes
}

func equalScalar(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
