package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/og-shortener/internal/config"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown driver", func(t *testing.T) {
		store, closer, err := openStore(ctx, config.Store{Driver: "redis"})

		assert.Error(t, err)
		assert.Nil(t, store)
		assert.Nil(t, closer)
	})

	for _, tc := range []struct {
		name string
		cfg  config.Store
	}{
		{
			name: "pebble",
			cfg: config.Store{
				Driver: config.StoreDriverPebble,
				Pebble: config.Pebble{Path: filepath.Join(t.TempDir(), "links")},
			},
		},
		{
			name: "sqlite",
			cfg: config.Store{
				Driver:          config.StoreDriverSQLite,
				ConnectAttempts: 1,
				ConnectDelay:    time.Millisecond,
				SQLite:          config.SQLite{URL: "file:" + filepath.Join(t.TempDir(), "links.db")},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store, closer, err := openStore(ctx, tc.cfg)
			require.NoError(t, err)
			t.Cleanup(func() {
				closer.Close()
			})

			_, err = store.Get(ctx, "abc")
			assert.ErrorIs(t, err, entity.ErrLinkNotFound)

			require.NoError(t, store.Set(ctx, "abc", "https://example.com"))

			value, err := store.Get(ctx, "abc")
			assert.NoError(t, err)
			assert.Equal(t, "https://example.com", value)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{config.EnvDev, config.EnvStage, config.EnvProd} {
		logger := NewLogger(env)

		assert.NotNil(t, logger)
	}
}
