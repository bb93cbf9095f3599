package cart

import (
	"context"
	"sync"
)

// MemoryRepository keeps the snapshot in process memory. Used by tests and by
// gateway runs that opt out of durable storage.
type MemoryRepository struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, ErrSnapshotNotFound
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make([]byte, len(data))
	copy(r.data, data)
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
