package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/tenantgate"
	"github.com/dmitrymomot/tenantgate/pkg/tenantdb"
)

// Directory resolves tenant IDs to live database pools. It satisfies
// tenantgate.Directory and is the default wiring behind the gate:
// record cache in front of the store, pool manager behind it, and
// singleflight collapsing concurrent lookups of the same tenant.
type Directory struct {
	store  Store
	cache  RecordCache
	pools  *tenantdb.Manager
	logger *slog.Logger
	group  singleflight.Group
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithRecordCache sets the record cache. The default caches nothing.
// The directory owns the cache and closes it on Close.
func WithRecordCache(c RecordCache) DirectoryOption {
	return func(d *Directory) {
		if c != nil {
			d.cache = c
		}
	}
}

// WithPoolManager replaces the default pool manager. The directory owns
// the manager and shuts it down on Close.
func WithPoolManager(m *tenantdb.Manager) DirectoryOption {
	return func(d *Directory) {
		if m != nil {
			d.pools = m
		}
	}
}

// WithLogger supplies an external slog.Logger instance. If nil, logging
// is disabled.
func WithLogger(l *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDirectory creates a directory over the store. The store stays owned
// by the caller.
func NewDirectory(store Store, opts ...DirectoryOption) *Directory {
	d := &Directory{
		store:  store,
		cache:  NewNopCache(),
		pools:  tenantdb.NewManager(tenantdb.DefaultConfig()),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Resolve implements tenantgate.Directory.
func (d *Directory) Resolve(ctx context.Context, id tenantgate.ID) (tenantgate.Handle, error) {
	return d.Pool(ctx, id)
}

// Pool is the typed variant of Resolve for callers outside the gate, such
// as background jobs addressing a known tenant.
func (d *Directory) Pool(ctx context.Context, id tenantgate.ID) (*pgxpool.Pool, error) {
	rec, err := d.record(ctx, id)
	if err != nil {
		return nil, err
	}

	// Liveness is checked before any pool work so deactivated tenants
	// never cost a connection.
	if !rec.Active {
		return nil, fmt.Errorf("%w: tenant %d", tenantgate.ErrTenantInactive, id)
	}

	pool, err := d.pools.Get(ctx, int64(id), rec.DSN)
	if err != nil {
		return nil, fmt.Errorf("registry: open pool for tenant %d: %w", id, err)
	}
	return pool, nil
}

// record returns the tenant's registry record, consulting the cache first.
// Concurrent misses for the same tenant share one store lookup; failed
// lookups are not cached.
func (d *Directory) record(ctx context.Context, id tenantgate.ID) (*Record, error) {
	if rec, ok := d.cache.Get(ctx, id); ok {
		return rec, nil
	}

	v, err, _ := d.group.Do(id.String(), func() (any, error) {
		// Another flight may have populated the cache in the meantime.
		if rec, ok := d.cache.Get(ctx, id); ok {
			return rec, nil
		}

		rec, err := d.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		// Inactive records are cached too: a deactivated tenant keeps
		// being rejected without hitting the store on every request.
		d.cache.Set(ctx, id, rec)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Invalidate drops the cached record and closes the tenant's pool. Call
// it after deactivating a tenant or changing its DSN; the next request
// re-reads the store and reconnects.
func (d *Directory) Invalidate(ctx context.Context, id tenantgate.ID) {
	d.cache.Delete(ctx, id)
	d.pools.Close(int64(id))
	d.logger.InfoContext(ctx, "invalidated tenant",
		slog.Int64("tenant_id", int64(id)))
}

// Pools exposes the pool manager, primarily so serving code can surface
// pool counts in metrics.
func (d *Directory) Pools() *tenantdb.Manager {
	return d.pools
}

// Close shuts down the pool manager and the record cache. The store is
// owned by the caller and stays open.
func (d *Directory) Close(ctx context.Context) error {
	d.pools.Shutdown()
	if err := d.cache.Close(); err != nil {
		d.logger.ErrorContext(ctx, "failed to close record cache",
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
