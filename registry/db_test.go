package registry_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate"
	"github.com/dmitrymomot/tenantgate/registry"
)

func TestDB(t *testing.T) {
	t.Parallel()

	t.Run("returns bound pool", func(t *testing.T) {
		t.Parallel()

		pool, err := pgxpool.New(context.Background(), testDSN)
		require.NoError(t, err)
		t.Cleanup(pool.Close)

		ctx, err := tenantgate.Bind(context.Background(), 7, pool)
		require.NoError(t, err)

		got, ok := registry.DB(ctx)
		require.True(t, ok)
		assert.Same(t, pool, got)
	})

	t.Run("reports unbound context", func(t *testing.T) {
		t.Parallel()

		got, ok := registry.DB(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("rejects non-pool handle", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 7, "not a pool")
		require.NoError(t, err)

		got, ok := registry.DB(ctx)
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}

func TestMustDB(t *testing.T) {
	t.Parallel()

	t.Run("returns bound pool", func(t *testing.T) {
		t.Parallel()

		pool, err := pgxpool.New(context.Background(), testDSN)
		require.NoError(t, err)
		t.Cleanup(pool.Close)

		ctx, err := tenantgate.Bind(context.Background(), 7, pool)
		require.NoError(t, err)

		assert.Same(t, pool, registry.MustDB(ctx))
	})

	t.Run("panics on unbound context", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithError(t, tenantgate.ErrNotBound.Error(), func() {
			registry.MustDB(context.Background())
		})
	})
}
