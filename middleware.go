package tenantgate

import (
	"errors"
	"log/slog"
	"net/http"
)

// Middleware creates the tenant resolution gate. Every request passing
// through it is exempt, bound to exactly one tenant for the length of the
// downstream call, or rejected before the application sees it.
//
// The binding is released by a deferred Clear, so it is removed on normal
// completion, on handler panic, and on client disconnect alike.
func Middleware(dir Directory, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		resolver:     DefaultResolver(),
		exempt:       DefaultExemptPaths(),
		errorHandler: defaultErrorHandler,
		logger:       newNoopLogger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.exempt.Match(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			raw := cfg.resolver.Resolve(r)
			if raw == "" {
				cfg.observe(OutcomeMissing)
				cfg.logger.DebugContext(r.Context(), "rejected request without tenant identity",
					slog.String("path", r.URL.Path))
				cfg.errorHandler(w, r, ErrTenantRequired)
				return
			}

			id, err := ParseID(raw)
			if err != nil {
				// Malformed identifiers get the same response as unknown
				// tenants so the reply does not leak the expected format.
				cfg.observe(OutcomeUnknown)
				cfg.logger.DebugContext(r.Context(), "rejected malformed tenant identifier",
					slog.String("identifier", raw))
				cfg.errorHandler(w, r, &UnknownTenantError{Identifier: raw, Err: err})
				return
			}

			handle, err := dir.Resolve(r.Context(), id)
			if err != nil {
				switch {
				case errors.Is(err, ErrTenantNotFound):
					cfg.observe(OutcomeUnknown)
					cfg.logger.DebugContext(r.Context(), "rejected unknown tenant",
						slog.Int64("tenant_id", int64(id)))
					cfg.errorHandler(w, r, &UnknownTenantError{Identifier: raw, Err: err})
				case errors.Is(err, ErrTenantInactive):
					cfg.observe(OutcomeInactive)
					cfg.logger.DebugContext(r.Context(), "rejected inactive tenant",
						slog.Int64("tenant_id", int64(id)))
					cfg.errorHandler(w, r, &UnknownTenantError{Identifier: raw, Err: err})
				default:
					cfg.observe(OutcomeError)
					cfg.logger.ErrorContext(r.Context(), "tenant resolution failed",
						slog.Int64("tenant_id", int64(id)),
						slog.String("error", err.Error()))
					cfg.errorHandler(w, r, err)
				}
				return
			}

			ctx, err := Bind(r.Context(), id, handle)
			if err != nil {
				// A live binding here means the handler chain gates the same
				// request twice. Fail the request rather than rebind.
				cfg.observe(OutcomeError)
				cfg.logger.ErrorContext(r.Context(), "tenant binding refused",
					slog.Int64("tenant_id", int64(id)),
					slog.String("error", err.Error()))
				cfg.errorHandler(w, r, err)
				return
			}
			defer Clear(ctx)

			cfg.observe(OutcomeBound)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require ensures a live tenant binding is already present in the request
// context. Place it on route groups that must only be reachable behind the
// gate; it catches wiring mistakes where a tenant-scoped route is mounted
// outside the gated chain.
func Require(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, _, ok := Current(r.Context()); !ok {
				errorHandler(w, r, ErrNotBound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
