package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
	"github.com/vadimbarashkov/og-shortener/pkg/sqldb"
)

func TestRecordRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "links.db")

	db, err := sqldb.Open(ctx, sqldb.SQLiteDriver(dsn), dsn, sqldb.WithMaxOpenConns(1))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	repo := NewRecordRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, entity.ErrLinkNotFound)

	require.NoError(t, repo.Set(ctx, "abc", "https://first.com"))

	value, err := repo.Get(ctx, "abc")
	assert.NoError(t, err)
	assert.Equal(t, "https://first.com", value)

	require.NoError(t, repo.Set(ctx, "abc", `{"title":"t","destination":"https://second.com"}`))

	value, err = repo.Get(ctx, "abc")
	assert.NoError(t, err)
	assert.Equal(t, `{"title":"t","destination":"https://second.com"}`, value)
}
