package snapshot

import (
	"testing"

	"github.com/radekizk/mvbench/network"
)

func graphWithSlack(name string) *network.Graph {
	g := network.NewGraph("net-delta")
	_ = g.AddNode(&network.Node{
		ID: "slack-1", Name: name, NodeType: network.NodeSlack,
		VoltageLevelKV: 110, VMagPU: 1, InService: true,
		GridSk3MVA: 250, GridROverX: 0.1,
	})

	return g
}

func TestDelta_RenameProducesSingleModifiedField(t *testing.T) {
	a, err := Freeze(graphWithSlack("Original"), "snap-a", "2026-01-01T00:00:00Z", "net-delta")
	if err != nil {
		t.Fatalf("freeze a: %v", err)
	}
	b, err := Freeze(graphWithSlack("Changed"), "snap-b", "2026-01-01T00:00:00Z", "net-delta")
	if err != nil {
		t.Fatalf("freeze b: %v", err)
	}

	d := Delta(a, b)
	if len(d.AddedElements) != 0 {
		t.Fatalf("added = %v, want none", d.AddedElements)
	}
	if len(d.RemovedElements) != 0 {
		t.Fatalf("removed = %v, want none", d.RemovedElements)
	}
	if len(d.ModifiedElements) != 1 {
		t.Fatalf("modified = %v, want exactly one entry", d.ModifiedElements)
	}

	got := d.ModifiedElements[0]
	if got.ElementID != "slack-1" || got.FieldName != "name" {
		t.Fatalf("modified entry = %+v, want element slack-1 field name", got)
	}
	if got.OldValue != "Original" || got.NewValue != "Changed" {
		t.Fatalf("modified entry values = %+v, want Original -> Changed", got)
	}
}

func TestDelta_SymmetryAcrossDirections(t *testing.T) {
	base := graphWithSlack("Original")
	extra := graphWithSlack("Original")
	_ = extra.AddNode(&network.Node{
		ID: "pq-1", Name: "Load", NodeType: network.NodePQ,
		VoltageLevelKV: 15, VMagPU: 1, InService: true,
	})

	a, err := Freeze(base, "snap-a", "2026-01-01T00:00:00Z", "net-delta")
	if err != nil {
		t.Fatalf("freeze a: %v", err)
	}
	b, err := Freeze(extra, "snap-b", "2026-01-01T00:00:00Z", "net-delta")
	if err != nil {
		t.Fatalf("freeze b: %v", err)
	}

	forward := Delta(a, b)
	backward := Delta(b, a)

	if len(forward.AddedElements) != 1 || forward.AddedElements[0] != "pq-1" {
		t.Fatalf("forward added = %v, want [pq-1]", forward.AddedElements)
	}
	if len(backward.RemovedElements) != 1 || backward.RemovedElements[0] != "pq-1" {
		t.Fatalf("backward removed = %v, want [pq-1]", backward.RemovedElements)
	}
	if len(forward.RemovedElements) != 0 || len(backward.AddedElements) != 0 {
		t.Fatalf("expected no removed on forward / no added on backward")
	}
}

func TestDelta_ModifiedFieldSwapsOldNewInReverseDirection(t *testing.T) {
	a, err := Freeze(graphWithSlack("Original"), "snap-a", "2026-01-01T00:00:00Z", "net-delta")
	if err != nil {
		t.Fatalf("freeze a: %v", err)
	}
	b, err := Freeze(graphWithSlack("Changed"), "snap-b", "2026-01-01T00:00:00Z", "net-delta")
	if err != nil {
		t.Fatalf("freeze b: %v", err)
	}

	forward := Delta(a, b)
	backward := Delta(b, a)

	if len(forward.ModifiedElements) != 1 || len(backward.ModifiedElements) != 1 {
		t.Fatalf("expected exactly one modified field in each direction")
	}

	fwd, bwd := forward.ModifiedElements[0], backward.ModifiedElements[0]
	if fwd.OldValue != bwd.NewValue || fwd.NewValue != bwd.OldValue {
		t.Fatalf("old/new not swapped: forward=%+v backward=%+v", fwd, bwd)
	}
}
