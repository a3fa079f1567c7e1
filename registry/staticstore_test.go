package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate"
	"github.com/dmitrymomot/tenantgate/registry"
)

func TestStaticStore(t *testing.T) {
	t.Parallel()

	t.Run("returns stored record", func(t *testing.T) {
		t.Parallel()

		store := registry.NewStaticStore(*testRecord(1, true))

		rec, err := store.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, tenantgate.ID(1), rec.ID)
		assert.True(t, rec.Active)
	})

	t.Run("reports unknown tenant", func(t *testing.T) {
		t.Parallel()

		store := registry.NewStaticStore()

		rec, err := store.Get(context.Background(), 42)
		require.ErrorIs(t, err, tenantgate.ErrTenantNotFound)
		assert.Nil(t, rec)
	})

	t.Run("lists records in id order", func(t *testing.T) {
		t.Parallel()

		store := registry.NewStaticStore(
			*testRecord(3, true),
			*testRecord(1, true),
			*testRecord(2, false),
		)

		records, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, tenantgate.ID(1), records[0].ID)
		assert.Equal(t, tenantgate.ID(2), records[1].ID)
		assert.Equal(t, tenantgate.ID(3), records[2].ID)
	})

	t.Run("put replaces record", func(t *testing.T) {
		t.Parallel()

		store := registry.NewStaticStore(*testRecord(1, true))

		updated := *testRecord(1, false)
		store.Put(updated)

		rec, err := store.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, rec.Active)
	})

	t.Run("delete removes record", func(t *testing.T) {
		t.Parallel()

		store := registry.NewStaticStore(*testRecord(1, true))

		store.Delete(1)

		_, err := store.Get(context.Background(), 1)
		require.ErrorIs(t, err, tenantgate.ErrTenantNotFound)
	})
}

func TestLoadStatic(t *testing.T) {
	t.Parallel()

	t.Run("loads records from yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "tenants.yaml")
		fixture := `tenants:
  - id: 2
    name: globex
    dsn: postgres://globex:secret@db:5432/tenant_globex
    active: false
  - id: 1
    name: acme
    dsn: postgres://acme:secret@db:5432/tenant_acme
    active: true
`
		require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

		store, err := registry.LoadStatic(path)
		require.NoError(t, err)

		acme, err := store.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "acme", acme.Name)
		assert.True(t, acme.Active)

		globex, err := store.Get(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, "globex", globex.Name)
		assert.False(t, globex.Active)
	})

	t.Run("fails on missing file", func(t *testing.T) {
		t.Parallel()

		_, err := registry.LoadStatic(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("fails on malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tenants: {not a list"), 0o600))

		_, err := registry.LoadStatic(path)
		assert.Error(t, err)
	})
}
