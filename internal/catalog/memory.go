package catalog

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local ProductCache for gateway runs without Redis.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	product   Product
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     15 * time.Minute,
	}
}

func (m *MemoryCache) Get(_ context.Context, slug string) (*Product, error) {
	m.mu.RLock()
	entry, ok := m.entries[slug]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		m.dropExpired(slug)
		return nil, ErrCacheMiss
	}

	product := entry.product
	return &product, nil
}

// dropExpired lazily removes an entry seen expired by a reader. The expiry is
// re-checked under the write lock so a Set that refreshed the slug between the
// reader's unlock and here keeps its fresh entry.
func (m *MemoryCache) dropExpired(slug string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.entries[slug]; ok && time.Now().After(entry.expiresAt) {
		delete(m.entries, slug)
	}
}

func (m *MemoryCache) Set(_ context.Context, slug string, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[slug] = memoryEntry{
		product:   *product,
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, slug)
	return nil
}
