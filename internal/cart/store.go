package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
)

// Store is the client-side cart: an insertion-ordered list of line items
// mirrored to durable storage on every mutation. It needs no authenticated
// session; only checkout does, and that is the submitter's concern.
//
// The mutex exists because the gateway serves concurrent requests. Mutations
// write the snapshot before returning, so a crash right after a mutation
// cannot lose it.
type Store struct {
	mu    sync.Mutex
	repo  SnapshotRepository
	items []LineItem
}

// NewStore builds a store hydrated from the repository's snapshot. A missing
// or unparsable snapshot yields an empty cart; corruption is logged, never
// surfaced.
func NewStore(ctx context.Context, repo SnapshotRepository) *Store {
	s := &Store{repo: repo}

	data, err := repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			log.Printf("loading cart snapshot: %v", err)
		}
		return s
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("discarding corrupt cart snapshot: %v", err)
		return s
	}

	s.items = items
	return s
}

// Add merges the item into the cart: an existing line for the same product
// gets its quantity incremented, otherwise the item is appended. A quantity
// below one counts as one.
func (s *Store) Add(ctx context.Context, item LineItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}

	return s.persist(ctx)
}

// Remove deletes the line item for the given product. Removing a product that
// is not in the cart is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart, in memory and in the snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums the discounted subtotal of every line item.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum float64
	for _, item := range s.items {
		sum += item.Subtotal()
	}
	return sum
}

// persist writes the full snapshot. Callers hold the mutex. An empty cart is
// written as an empty array, not deleted, so a restart reads a well-formed
// snapshot either way.
func (s *Store) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, data)
}
