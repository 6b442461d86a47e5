package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Snapshot is an opaque point-in-time capture of a Context.
//
// EXPERIMENTAL: the payload shape is not stabilized and may change between
// releases. No restoration or compatibility guarantee is made; callers must
// not depend on the payload format.
type Snapshot struct {
	// ID is a UUID v7 generated when the snapshot is taken.
	ID string

	// TakenAt is the capture timestamp.
	TakenAt time.Time

	// Payload is the encoded context. Opaque; shape unstable.
	Payload []byte
}

// SnapshotOptions configures CreateSnapshot.
type SnapshotOptions struct {
	// AllowExperimental acknowledges the unstable snapshot contract.
	// Without it CreateSnapshot refuses to run.
	AllowExperimental bool
}

// CreateSnapshot captures the context's current exported state.
//
// EXPERIMENTAL: gated behind SnapshotOptions.AllowExperimental until a
// stable contract is authored.
func (ctx *Context) CreateSnapshot(opts SnapshotOptions) (*Snapshot, error) {
	if !opts.AllowExperimental {
		return nil, ErrSnapshotExperimental
	}
	payload, err := yaml.Marshal(ctx.Export())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}
	return &Snapshot{ID: id.String(), TakenAt: timeNow(), Payload: payload}, nil
}
