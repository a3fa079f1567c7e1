package tenantgate

import (
	"net/http"
	"strings"
)

// Resolver extracts the candidate tenant identifier from an HTTP request.
// Extraction cannot fail: the result is the raw identifier, or the empty
// string when the request carries none. Validation happens later, at
// parse time.
type Resolver interface {
	Resolve(r *http.Request) string
}

// ResolverFunc is an adapter to allow the use of ordinary functions as
// Resolvers.
type ResolverFunc func(r *http.Request) string

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) string { return f(r) }

// DefaultHeaderNames returns the header candidates scanned in order.
// Header lookup is case-insensitive because net/http canonicalizes keys,
// so spelling variants like "X-Client-Id" match the same header.
func DefaultHeaderNames() []string {
	return []string{"X-Client-ID", "X-Tenant-ID"}
}

// DefaultQueryParams returns the query-parameter candidates scanned in
// order when no header matched. Parameter names are case-sensitive, so
// both spellings of each are listed.
func DefaultQueryParams() []string {
	return []string{"tenantId", "clientId", "tenant_id", "client_id"}
}

// HeaderResolver scans header names in order and returns the first value
// that is non-blank after trimming.
type HeaderResolver struct {
	Names []string
}

// NewHeaderResolver creates a header resolver. With no arguments it scans
// DefaultHeaderNames.
func NewHeaderResolver(names ...string) *HeaderResolver {
	if len(names) == 0 {
		names = DefaultHeaderNames()
	}
	return &HeaderResolver{Names: names}
}

// Resolve returns the first non-blank header value, trimmed.
func (h *HeaderResolver) Resolve(r *http.Request) string {
	for _, name := range h.Names {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// QueryResolver scans query parameters in order and returns the first
// value that is non-blank after trimming.
type QueryResolver struct {
	Params []string
}

// NewQueryResolver creates a query resolver. With no arguments it scans
// DefaultQueryParams.
func NewQueryResolver(params ...string) *QueryResolver {
	if len(params) == 0 {
		params = DefaultQueryParams()
	}
	return &QueryResolver{Params: params}
}

// Resolve returns the first non-blank parameter value, trimmed.
func (q *QueryResolver) Resolve(r *http.Request) string {
	values := r.URL.Query()
	for _, param := range q.Params {
		if v := strings.TrimSpace(values.Get(param)); v != "" {
			return v
		}
	}
	return ""
}

// CompositeResolver tries multiple resolvers in order until one yields an
// identifier.
type CompositeResolver struct {
	Resolvers []Resolver
}

// NewCompositeResolver creates a new composite resolver.
func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

// Resolve returns the first non-empty result.
func (c *CompositeResolver) Resolve(r *http.Request) string {
	for _, resolver := range c.Resolvers {
		if v := resolver.Resolve(r); v != "" {
			return v
		}
	}
	return ""
}

// DefaultResolver returns the canonical extraction chain: headers first,
// query parameters as fallback. A header value always wins over a query
// value, even when both are present.
func DefaultResolver() Resolver {
	return NewCompositeResolver(NewHeaderResolver(), NewQueryResolver())
}
