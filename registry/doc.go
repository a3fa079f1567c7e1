// Package registry implements the tenant directory behind the gate: it
// maps tenant IDs to records describing each tenant's own database, and
// turns those records into live, pooled connection handles.
//
// # Layout
//
// A Directory composes three layers:
//
//   - a Store holding tenant records (PGStore over the central registry
//     database, MongoStore over a collection, or StaticStore over a YAML
//     fixture);
//   - a RecordCache in front of the store (in-process MemoryCache, shared
//     RedisCache, or NopCache to disable caching);
//   - a tenantdb.Manager opening one connection pool per tenant DSN on
//     first use.
//
// Concurrent resolutions of the same tenant collapse into a single store
// lookup, and concurrent first connections into a single pool open.
// Inactive tenants are rejected before any pool is opened.
//
// Records are cached regardless of the active flag, so a deactivated
// tenant keeps being rejected without a store round-trip until the cache
// entry expires. Deactivations and DSN changes take effect immediately
// via Invalidate, which drops the cached record and closes the tenant's
// pool.
//
// # Wiring
//
//	store, err := registry.OpenPGStore(ctx, cfg.RegistryURL, dbCfg, log)
//	// ...
//	dir := registry.NewDirectory(store,
//		registry.WithRecordCache(registry.NewMemoryCache(5*time.Minute)),
//		registry.WithLogger(log),
//	)
//	defer dir.Close(ctx)
//
//	handler := tenantgate.Middleware(dir)(app)
//
// Handlers behind the gate obtain the tenant's pool with DB or MustDB.
package registry
