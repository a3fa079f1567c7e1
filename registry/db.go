package registry

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate"
)

// DB returns the tenant's database pool bound to the request context by
// the gate. The second return is false when no tenant is bound or the
// bound handle is not a pool.
func DB(ctx context.Context) (*pgxpool.Pool, bool) {
	_, handle, ok := tenantgate.Current(ctx)
	if !ok {
		return nil, false
	}
	pool, ok := handle.(*pgxpool.Pool)
	return pool, ok
}

// MustDB is the panicking variant of DB for handlers that run strictly
// behind the gate, where an unbound context is a routing bug.
func MustDB(ctx context.Context) *pgxpool.Pool {
	pool, ok := DB(ctx)
	if !ok {
		panic(tenantgate.ErrNotBound)
	}
	return pool
}
