package store

import (
	"context"
	"path/filepath"
	"testing"

	"recipe-extractor/internal/infrastructure/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore 各後端共用的行為測試
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "recipe-extractor-recipes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "recipe-extractor-recipes", `[{"id":"1"}]`))
	v, ok, err := s.Get(ctx, "recipe-extractor-recipes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Set(ctx, "recipe-extractor-recipes", `[]`))
	v, _, err = s.Get(ctx, "recipe-extractor-recipes")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Delete(ctx, "recipe-extractor-recipes"))
	_, ok, err = s.Get(ctx, "recipe-extractor-recipes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)

	stats := s.GetStats()
	assert.Equal(t, int64(2), stats["writes"])
	assert.Equal(t, int64(2), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
	assert.Equal(t, 0, stats["keys"])
	require.NoError(t, s.Close())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("test:k"))
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "persisted", "yes"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(context.Background(), "persisted")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Backend = "memory"
	s, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	cfg.Store.Backend = "sqlite"
	cfg.Store.SQLite.Path = filepath.Join(t.TempDir(), "open.db")
	s, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	cfg.Store.Backend = "etcd"
	_, err = Open(cfg)
	assert.Error(t, err)
}
