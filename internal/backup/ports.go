package backup

import (
	"context"

	"pennypilot/internal/core"
)

// Ports for outbound backup adapters.
type (
	// SnapshotWriter replaces the remote backup with the full goal
	// collection. Snapshots are whole-collection writes, mirroring the
	// last-writer-wins semantics of the local store.
	SnapshotWriter interface {
		WriteSnapshot(ctx context.Context, goals []core.Goal) error
	}

	// EventLogger appends one row per goal change for audit purposes.
	EventLogger interface {
		AppendEvent(ctx context.Context, kind string, goal core.Goal) error
	}
)
