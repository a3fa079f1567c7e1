// Package tenantgate binds every inbound HTTP request to exactly one tenant
// before any business logic runs, or rejects it.
//
// Multi-tenant services that keep one database per tenant need a guarantee
// stronger than "handlers remember to check": no request may touch tenant
// resources without an established tenant context, and no tenant context may
// leak into the next request served by the same conn/goroutine. The gate
// enforces both at the edge of the handler chain.
//
// # Protocol
//
// For each request the middleware runs a fixed sequence:
//
//  1. Classify: requests to exempt path prefixes (health probes, API docs)
//     pass through untouched.
//  2. Extract: a Resolver pulls the candidate tenant identifier from headers,
//     falling back to query parameters. Extraction never fails; it yields an
//     identifier or nothing.
//  3. Parse: the identifier must be a positive integer. Anything else is
//     treated as an unknown tenant, not a distinct failure mode.
//  4. Resolve: a Directory maps the ID to the tenant's resource handle.
//     Missing and deactivated tenants are rejected alike; infrastructure
//     failures are rejected as server errors without retry.
//  5. Bind: the ID and handle are installed into the request context. Binding
//     over a live binding is a protocol violation and fails the request.
//  6. Delegate, then release: the downstream handler runs with the bound
//     context, and a deferred Clear removes the binding on every exit path,
//     including handler panics.
//
// Rejections are fail-closed: 401 when identity is missing or unusable, 500
// when the directory cannot answer. A request that is not exempt and not
// bound never reaches the application.
//
// # Usage
//
//	dir := registry.NewDirectory(store, registry.WithRecordCache(cache))
//
//	mux := http.NewServeMux()
//	mux.Handle("/orders", ordersHandler)
//
//	gate := tenantgate.Middleware(dir,
//		tenantgate.WithExemptPaths("/health", "/metrics"),
//		tenantgate.WithLogger(log),
//	)
//	http.ListenAndServe(":8080", gate(mux))
//
// Handlers read the binding through Current or the typed helpers of the
// registry package:
//
//	func ordersHandler(w http.ResponseWriter, r *http.Request) {
//		id, _, _ := tenantgate.Current(r.Context())
//		db, _ := registry.DB(r.Context()) // *pgxpool.Pool scoped to the tenant
//		listOrders(r.Context(), db, id)
//	}
//
// # Isolation
//
// The binding lives in per-request context values, never in package state, so
// goroutine reuse by the server cannot surface another request's tenant. The
// binding's internal slot is atomic: Clear is a single store observed by any
// goroutine still holding the request context, and is idempotent.
package tenantgate
