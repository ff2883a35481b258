// Package kvstore keeps link records in an embedded pebble key-value store,
// one key per slug.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

const keyPrefix = "link/"

type RecordRepository struct {
	db *pebble.DB
}

// Open opens or creates the pebble store at path.
func Open(path string) (*RecordRepository, error) {
	const op = "adapter.repository.kvstore.Open"

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open pebble store: %w", op, err)
	}

	return &RecordRepository{db: db}, nil
}

func key(slug string) []byte {
	return []byte(keyPrefix + slug)
}

func (r *RecordRepository) Get(_ context.Context, slug string) (string, error) {
	const op = "adapter.repository.kvstore.RecordRepository.Get"

	data, closer, err := r.db.Get(key(slug))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return "", fmt.Errorf("%s: failed to get record: %w", op, err)
	}
	defer closer.Close()

	// data is only valid until closer.Close.
	return string(data), nil
}

func (r *RecordRepository) Set(_ context.Context, slug, value string) error {
	const op = "adapter.repository.kvstore.RecordRepository.Set"

	if err := r.db.Set(key(slug), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("%s: failed to set record: %w", op, err)
	}

	return nil
}

func (r *RecordRepository) Close() error {
	return r.db.Close()
}
