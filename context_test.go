package tenantgate_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate"
)

func TestBind(t *testing.T) {
	t.Parallel()

	t.Run("installs binding into context", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 42, "handle-42")
		require.NoError(t, err)

		id, handle, ok := tenantgate.Current(ctx)
		require.True(t, ok)
		assert.Equal(t, tenantgate.ID(42), id)
		assert.Equal(t, "handle-42", handle)
	})

	t.Run("rejects binding over a live binding", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 1, "first")
		require.NoError(t, err)

		_, err = tenantgate.Bind(ctx, 2, "second")
		assert.ErrorIs(t, err, tenantgate.ErrAlreadyBound)

		// The original binding stays intact.
		id, handle, ok := tenantgate.Current(ctx)
		require.True(t, ok)
		assert.Equal(t, tenantgate.ID(1), id)
		assert.Equal(t, "first", handle)
	})

	t.Run("allows binding after clear", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 1, "first")
		require.NoError(t, err)

		tenantgate.Clear(ctx)

		ctx2, err := tenantgate.Bind(ctx, 2, "second")
		require.NoError(t, err)

		id, _, ok := tenantgate.Current(ctx2)
		require.True(t, ok)
		assert.Equal(t, tenantgate.ID(2), id)
	})

	t.Run("parent context stays unbound", func(t *testing.T) {
		t.Parallel()

		parent := context.Background()
		_, err := tenantgate.Bind(parent, 3, nil)
		require.NoError(t, err)

		_, _, ok := tenantgate.Current(parent)
		assert.False(t, ok)
	})
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	t.Run("reports unbound for plain context", func(t *testing.T) {
		t.Parallel()

		_, _, ok := tenantgate.Current(context.Background())
		assert.False(t, ok)
	})

	t.Run("reports unbound after clear", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 42, "handle")
		require.NoError(t, err)

		tenantgate.Clear(ctx)

		_, _, ok := tenantgate.Current(ctx)
		assert.False(t, ok)
	})

	t.Run("clear is visible through derived contexts", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 42, "handle")
		require.NoError(t, err)

		derived := context.WithValue(ctx, struct{ k string }{"other"}, "value")

		tenantgate.Clear(ctx)

		_, _, ok := tenantgate.Current(derived)
		assert.False(t, ok)
	})
}

func TestCurrentID(t *testing.T) {
	t.Parallel()

	t.Run("returns bound ID", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 7, nil)
		require.NoError(t, err)

		id, ok := tenantgate.CurrentID(ctx)
		require.True(t, ok)
		assert.Equal(t, tenantgate.ID(7), id)
	})

	t.Run("returns zero when unbound", func(t *testing.T) {
		t.Parallel()

		id, ok := tenantgate.CurrentID(context.Background())
		assert.False(t, ok)
		assert.Zero(t, id)
	})
}

func TestMustCurrent(t *testing.T) {
	t.Parallel()

	t.Run("returns binding when present", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 9, "h")
		require.NoError(t, err)

		id, handle := tenantgate.MustCurrent(ctx)
		assert.Equal(t, tenantgate.ID(9), id)
		assert.Equal(t, "h", handle)
	})

	t.Run("panics when unbound", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithError(t, tenantgate.ErrNotBound.Error(), func() {
			tenantgate.MustCurrent(context.Background())
		})
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 1, nil)
		require.NoError(t, err)

		tenantgate.Clear(ctx)
		tenantgate.Clear(ctx)

		_, _, ok := tenantgate.Current(ctx)
		assert.False(t, ok)
	})

	t.Run("is a no-op on a never-bound context", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			tenantgate.Clear(context.Background())
		})
	})

	t.Run("is observed by goroutines holding the context", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 42, "handle")
		require.NoError(t, err)

		cleared := make(chan struct{})
		observed := make(chan bool)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-cleared
			_, _, ok := tenantgate.Current(ctx)
			observed <- ok
		}()

		tenantgate.Clear(ctx)
		close(cleared)

		assert.False(t, <-observed)
		wg.Wait()
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	t.Run("extracts bound tenant ID", func(t *testing.T) {
		t.Parallel()

		ctx, err := tenantgate.Bind(context.Background(), 42, nil)
		require.NoError(t, err)

		extract := tenantgate.LoggerExtractor()
		attr, ok := extract(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, int64(42), attr.Value.Int64())
	})

	t.Run("reports nothing when unbound", func(t *testing.T) {
		t.Parallel()

		extract := tenantgate.LoggerExtractor()
		_, ok := extract(context.Background())
		assert.False(t, ok)
	})
}
