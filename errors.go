package tenantgate

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantRequired is returned when a non-exempt request carries no
	// tenant identifier in headers or query parameters.
	ErrTenantRequired = errors.New("tenant context required")

	// ErrTenantNotFound is returned when the directory has no record for
	// the requested tenant.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantInactive is returned when the tenant exists but has been
	// deactivated.
	ErrTenantInactive = errors.New("tenant inactive")

	// ErrInvalidIdentifier is returned when the extracted identifier is not
	// a positive integer.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrAlreadyBound is returned by Bind when the context already carries
	// a live tenant binding. It signals a misconfigured handler chain that
	// gates the same request twice.
	ErrAlreadyBound = errors.New("tenant already bound to request")

	// ErrNotBound is the panic value of MustCurrent and the sentinel used
	// by Require when a handler that demands a binding runs without one.
	ErrNotBound = errors.New("no tenant bound to request")
)

// UnknownTenantError reports an identifier that could not be mapped to a
// usable tenant. It wraps the classification sentinel (ErrTenantNotFound,
// ErrTenantInactive or ErrInvalidIdentifier) so logs can tell the cases
// apart while the HTTP response stays uniform.
type UnknownTenantError struct {
	Identifier string
	Err        error
}

func (e *UnknownTenantError) Error() string {
	return fmt.Sprintf("unknown tenant %q: %v", e.Identifier, e.Err)
}

func (e *UnknownTenantError) Unwrap() error { return e.Err }
