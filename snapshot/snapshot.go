// Package snapshot freezes a network.Graph into an immutable,
// content-addressed NetworkSnapshot and scans it for readiness issues
// (§4.4). A Snapshot never changes after Freeze returns it; any
// further mutation of the underlying graph must produce a new
// snapshot (I7).
package snapshot

import (
	"fmt"

	"github.com/radekizk/mvbench/codec"
	"github.com/radekizk/mvbench/network"
)

// Snapshot is the immutable, content-addressed copy of a network graph.
type Snapshot struct {
	SnapshotID     string
	CreatedAt      string // RFC3339; caller-supplied for determinism
	NetworkModelID string
	Graph          *network.Graph
	Fingerprint    string
}

// Freeze computes fingerprint = Fingerprint(graph.ToCanonicalValue() ∪ meta)
// and returns the resulting Snapshot.
func Freeze(graph *network.Graph, snapshotID, createdAt, networkModelID string) (*Snapshot, error) {
	meta := map[string]any{
		"snapshot_id":      snapshotID,
		"created_at":       createdAt,
		"network_model_id": networkModelID,
		"graph":            graph.ToCanonicalValue(),
	}
	fp, err := codec.Fingerprint(meta)
	if err != nil {
		return nil, fmt.Errorf("snapshot: freeze: %w", err)
	}

	return &Snapshot{
		SnapshotID:     snapshotID,
		CreatedAt:      createdAt,
		NetworkModelID: networkModelID,
		Graph:          graph,
		Fingerprint:    fp,
	}, nil
}

// ToCanonicalValue implements codec.Canonicalizer.
func (s *Snapshot) ToCanonicalValue() any {
	return map[string]any{
		"snapshot_id":      s.SnapshotID,
		"created_at":       s.CreatedAt,
		"network_model_id": s.NetworkModelID,
		"graph":            s.Graph.ToCanonicalValue(),
		"fingerprint":      s.Fingerprint,
	}
}
