package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockeando-api/internal/infrastructure/sqlite"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "stock.db")
	s, err := sqlite.NewStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, found, err := s.Get(ctx, "inventory")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "inventory", []byte(`{"deposito":[]}`)))
	require.NoError(t, s.Put(ctx, "inventory", []byte(`{"deposito":[{"name":"Rollo"}]}`)))
	require.NoError(t, s.Put(ctx, "movements", []byte(`[]`)))

	payload, found, err := s.Get(ctx, "inventory")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"deposito":[{"name":"Rollo"}]}`, string(payload))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"inventory", "movements"}, keys)

	require.NoError(t, s.Delete(ctx, "inventory"))
	_, found, err = s.Get(ctx, "inventory")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_PersisteEntreAperturas(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stock.db")
	s, err := sqlite.NewStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "daily_counter", []byte(`3`)))
	require.NoError(t, s.Close())

	s2, err := sqlite.NewStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })
	payload, found, err := s2.Get(ctx, "daily_counter")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "3", string(payload))
}
