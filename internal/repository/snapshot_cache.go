package repository

import (
	"context"
	"errors"
	"time"

	"Moonlander/internal/domain/models"
	domainrepo "Moonlander/internal/domain/repository"
	"Moonlander/pkg/cache"
)

const batchKey = "signals:latest"

// CacheSnapshot mirrors the latest batch into the cache backend so a
// restarted process can serve signals before its first cycle completes.
type CacheSnapshot struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheSnapshot(c cache.Service, ttl time.Duration) *CacheSnapshot {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CacheSnapshot{cache: c, ttl: ttl}
}

var _ domainrepo.SnapshotCache = (*CacheSnapshot)(nil)

func (s *CacheSnapshot) SaveBatch(ctx context.Context, b *models.Batch) error {
	return s.cache.Set(ctx, batchKey, b, s.ttl)
}

// LoadBatch returns the mirrored batch, or nil without error when no
// snapshot exists.
func (s *CacheSnapshot) LoadBatch(ctx context.Context) (*models.Batch, error) {
	var b models.Batch
	err := s.cache.Get(ctx, batchKey, &b)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
