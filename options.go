package tenantgate

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorHandler renders a rejection. It receives the classified error and
// owns the complete response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Outcome classifies the result of gating a single non-exempt request.
type Outcome string

const (
	// OutcomeBound means the request was bound to a tenant and delegated.
	OutcomeBound Outcome = "bound"
	// OutcomeMissing means no identifier was found in headers or query.
	OutcomeMissing Outcome = "missing"
	// OutcomeUnknown means the identifier was malformed or matched no record.
	OutcomeUnknown Outcome = "unknown"
	// OutcomeInactive means the tenant exists but is deactivated.
	OutcomeInactive Outcome = "inactive"
	// OutcomeError means a directory failure or a double-gated request.
	OutcomeError Outcome = "error"
)

// config holds middleware configuration.
type config struct {
	resolver     Resolver
	exempt       ExemptPaths
	errorHandler ErrorHandler
	logger       *slog.Logger
	observer     func(Outcome)
}

func (c *config) observe(o Outcome) {
	if c.observer != nil {
		c.observer(o)
	}
}

// Option configures the middleware.
type Option func(*config)

// WithResolver replaces the default header-then-query extraction chain.
func WithResolver(r Resolver) Option {
	return func(c *config) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithExemptPaths replaces the default exempt path prefixes.
func WithExemptPaths(prefixes ...string) Option {
	return func(c *config) {
		c.exempt = ExemptPaths(prefixes)
	}
}

// WithErrorHandler sets a custom rejection renderer.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger supplies an external slog.Logger instance. If nil, a noop
// logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a hook invoked once per non-exempt request with
// the gating outcome. Used to feed metrics.
func WithObserver(fn func(Outcome)) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// defaultErrorHandler writes the canonical rejection bodies. Missing
// identity and unusable tenants are both 401 so probing cannot tell an
// unknown tenant from a deactivated one; directory failures are 500.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *UnknownTenantError
	switch {
	case errors.Is(err, ErrTenantRequired), errors.Is(err, ErrNotBound):
		http.Error(w, "tenant context required", http.StatusUnauthorized)
	case errors.As(err, &unknown):
		http.Error(w, fmt.Sprintf("tenant not found or inactive: %s", unknown.Identifier), http.StatusUnauthorized)
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrTenantInactive), errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "tenant not found or inactive", http.StatusUnauthorized)
	default:
		http.Error(w, "error setting up tenant context", http.StatusInternalServerError)
	}
}
