// Package cachestore puts an in-process LRU cache in front of another record
// repository. Records are never updated after creation, so a cached value
// cannot go stale; misses are not cached so a later creation is visible
// immediately.
package cachestore

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

type recordRepository interface {
	Get(ctx context.Context, slug string) (string, error)
	Set(ctx context.Context, slug, value string) error
}

type RecordRepository struct {
	next  recordRepository
	cache *lru.Cache
}

// New wraps next with an LRU cache holding up to size records.
func New(next recordRepository, size int) (*RecordRepository, error) {
	const op = "adapter.repository.cachestore.New"

	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create lru cache: %w", op, err)
	}

	return &RecordRepository{next: next, cache: cache}, nil
}

func (r *RecordRepository) Get(ctx context.Context, slug string) (string, error) {
	if v, ok := r.cache.Get(slug); ok {
		if s, ok := v.(string); ok {
			return s, nil
		}
		r.cache.Remove(slug)
	}

	value, err := r.next.Get(ctx, slug)
	if err != nil {
		return "", err
	}

	if value != "" {
		r.cache.Add(slug, value)
	}

	return value, nil
}

func (r *RecordRepository) Set(ctx context.Context, slug, value string) error {
	if err := r.next.Set(ctx, slug, value); err != nil {
		r.cache.Remove(slug)
		return err
	}

	r.cache.Add(slug, value)
	return nil
}
