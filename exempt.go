package tenantgate

import "strings"

// ExemptPaths is an ordered set of path prefixes excluded from tenant
// resolution. Matching is plain prefix comparison against the raw request
// path; the set is fixed at construction and safe for concurrent use.
type ExemptPaths []string

// DefaultExemptPrefixes lists the operational endpoints that must stay
// reachable without tenant identity: health and management probes, API
// documentation, and the error page.
func DefaultExemptPrefixes() []string {
	return []string{
		"/actuator",
		"/health",
		"/swagger-ui",
		"/v3/api-docs",
		"/error",
	}
}

// DefaultExemptPaths returns the default classifier.
func DefaultExemptPaths() ExemptPaths {
	return ExemptPaths(DefaultExemptPrefixes())
}

// Match reports whether the path starts with any exempt prefix.
func (p ExemptPaths) Match(path string) bool {
	for _, prefix := range p {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
