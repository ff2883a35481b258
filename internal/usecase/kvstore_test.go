package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/og-shortener/internal/adapter/repository/kvstore"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

func setupKVStore(t testing.TB) *kvstore.RecordRepository {
	t.Helper()

	repo, err := kvstore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

func TestLinkUseCase_KVStore(t *testing.T) {
	ctx := context.Background()

	t.Run("conflict keeps the first record", func(t *testing.T) {
		uc := NewLinkUseCase(setupKVStore(t))

		first := &entity.Link{Slug: "abc", Title: "First", Destination: "https://x.com"}
		_, err := uc.CreateLink(ctx, first)
		require.NoError(t, err)

		_, err = uc.CreateLink(ctx, &entity.Link{Slug: "abc", Title: "Second", Destination: "https://y.com"})
		assert.ErrorIs(t, err, entity.ErrSlugExists)

		got, err := uc.ResolveLink(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("invalid destination writes nothing", func(t *testing.T) {
		store := setupKVStore(t)
		uc := NewLinkUseCase(store)

		_, err := uc.CreateLink(ctx, &entity.Link{Slug: "abc", Title: "Bad", Destination: "not-a-url"})
		assert.ErrorIs(t, err, entity.ErrInvalidInput)

		_, err = store.Get(ctx, "abc")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
	})

	t.Run("unknown slug", func(t *testing.T) {
		uc := NewLinkUseCase(setupKVStore(t))

		got, err := uc.ResolveLink(ctx, "missing")

		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
		assert.Nil(t, got)
	})

	t.Run("legacy value written by an earlier revision", func(t *testing.T) {
		store := setupKVStore(t)
		require.NoError(t, store.Set(ctx, "old", "https://example.com/x"))
		uc := NewLinkUseCase(store)

		got, err := uc.ResolveLink(ctx, "old")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/x", got.Destination)
		assert.Equal(t, entity.LegacyTitle, got.Title)
	})
}
