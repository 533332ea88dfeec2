package usecase

import (
	"sync/atomic"

	"Moonlander/internal/domain/models"
)

// PublishedStore holds the currently published batch. Readers always get
// a complete, immutable batch; Publish swaps the pointer atomically so a
// cycle in progress is never observable.
type PublishedStore struct {
	cur atomic.Pointer[models.Batch]
}

func NewPublishedStore() *PublishedStore {
	return &PublishedStore{}
}

// Current returns the latest published batch, or nil before the first
// publication.
func (s *PublishedStore) Current() *models.Batch {
	return s.cur.Load()
}

// Publish replaces the published batch.
func (s *PublishedStore) Publish(b *models.Batch) {
	s.cur.Store(b)
}
