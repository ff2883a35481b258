package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/og-shortener/internal/codec"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

// recordRepository is the key-value record store. Get returns
// entity.ErrLinkNotFound when nothing is stored for slug; Set creates or
// overwrites the value for slug.
type recordRepository interface {
	Get(ctx context.Context, slug string) (string, error)
	Set(ctx context.Context, slug, value string) error
}

type LinkUseCase struct {
	recordRepo recordRepository
}

func NewLinkUseCase(recordRepo recordRepository) *LinkUseCase {
	return &LinkUseCase{recordRepo: recordRepo}
}

// CreateLink stores link under its slug unless the slug is already claimed.
// The existence check and the write are separate store calls, so two
// concurrent creations of the same slug can both succeed and the last write wins.
func (uc *LinkUseCase) CreateLink(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.CreateLink"

	if err := link.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := uc.recordRepo.Get(ctx, link.Slug)
	switch {
	case err == nil && existing != "":
		return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugExists)
	case err != nil && !errors.Is(err, entity.ErrLinkNotFound):
		return nil, fmt.Errorf("%s: %w: failed to check slug: %w", op, entity.ErrStoreUnavailable, err)
	}

	raw, err := codec.Encode(*link)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := uc.recordRepo.Set(ctx, link.Slug, raw); err != nil {
		return nil, fmt.Errorf("%s: %w: failed to save record: %w", op, entity.ErrStoreUnavailable, err)
	}

	return link, nil
}

// ResolveLink loads and decodes the link stored under slug.
func (uc *LinkUseCase) ResolveLink(ctx context.Context, slug string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ResolveLink"

	raw, err := uc.recordRepo.Get(ctx, slug)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: %w: failed to get record: %w", op, entity.ErrStoreUnavailable, err)
	}

	if raw == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	link := codec.Decode(raw)
	link.Slug = slug

	if link.Destination == "" {
		return nil, fmt.Errorf("%s: %w: record for slug %q has no destination", op, entity.ErrDataIntegrity, slug)
	}

	return &link, nil
}
