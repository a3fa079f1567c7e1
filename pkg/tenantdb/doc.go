// Package tenantdb manages PostgreSQL connection pools in a
// database-per-tenant layout using the pgx/v5 driver.
//
// Two layers are provided. Open establishes a single *pgxpool.Pool from a
// DSN with bounded retry and a verification ping, the right tool for the
// registry's own database. Manager maintains one lazily opened pool per
// tenant: the first request for a tenant pays the connection cost, every
// later request reuses the pool, and concurrent first requests are
// collapsed into a single open through singleflight.
//
// Pools held by a Manager stay open until the tenant is evicted with Close
// or the whole Manager is shut down. Evicting is how callers react to a
// tenant being deactivated or its DSN changing; the Manager itself never
// re-reads tenant records.
//
// Migrate applies goose migrations from an fs.FS, which lets schema files
// ship inside the binary via embed.
package tenantdb
