package cart

import (
	"context"
	"errors"
)

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// SnapshotRepository persists the serialized cart under a single fixed key.
// The store writes through on every mutation, so whatever backs this interface
// is the durable source of truth between process runs.
type SnapshotRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}
