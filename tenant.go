package tenantgate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ID is a tenant identifier. The wire form is a base-10 string; only
// strictly positive values are valid.
type ID int64

// String implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses the wire form of a tenant identifier. Surrounding
// whitespace is ignored. Returns ErrInvalidIdentifier when the value is
// empty, not a base-10 integer, or not strictly positive.
func ParseID(raw string) (ID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidIdentifier
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d is not positive", ErrInvalidIdentifier, n)
	}
	return ID(n), nil
}

// Handle is the tenant-scoped resource handle issued by a Directory. The
// gate treats it as opaque; the directory that issued it defines the
// concrete type (the registry package issues *pgxpool.Pool).
type Handle any

// Directory maps tenant IDs to resource handles. It is the only external
// dependency of the gate.
//
// Absence is signalled with errors matching ErrTenantNotFound or
// ErrTenantInactive; the gate rejects both with the same response but logs
// them distinctly. Any other error is treated as an infrastructure failure:
// the request is rejected as a server error and the lookup is not retried.
type Directory interface {
	Resolve(ctx context.Context, id ID) (Handle, error)
}

// DirectoryFunc adapts a function to the Directory interface.
type DirectoryFunc func(ctx context.Context, id ID) (Handle, error)

// Resolve calls the function.
func (f DirectoryFunc) Resolve(ctx context.Context, id ID) (Handle, error) {
	return f(ctx, id)
}
