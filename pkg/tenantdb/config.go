package tenantdb

import "time"

// Config controls pool sizing and open-time retry for tenant databases.
// Per-tenant pools are kept deliberately small: with one pool per tenant
// the aggregate connection count grows with the tenant population, not
// with request volume.
type Config struct {
	MaxOpenConns      int32         `env:"TENANT_DB_MAX_OPEN_CONNS" envDefault:"4"`       // MaxOpenConns is the maximum number of open connections per tenant pool.
	MaxIdleConns      int32         `env:"TENANT_DB_MAX_IDLE_CONNS" envDefault:"1"`       // MaxIdleConns is the minimum number of idle connections kept per tenant pool.
	HealthCheckPeriod time.Duration `env:"TENANT_DB_HEALTHCHECK_PERIOD" envDefault:"1m"`  // HealthCheckPeriod is the period between pool health checks.
	MaxConnIdleTime   time.Duration `env:"TENANT_DB_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is the maximum amount of time a connection may be idle to be reused.
	MaxConnLifetime   time.Duration `env:"TENANT_DB_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is the maximum amount of time a connection may be reused.

	RetryAttempts int           `env:"TENANT_DB_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of attempts to open a pool before giving up.
	RetryInterval time.Duration `env:"TENANT_DB_RETRY_INTERVAL" envDefault:"2s"` // RetryInterval is the base interval between attempts, scaled by attempt number.
}

// DefaultConfig returns a Config with the same values the env defaults
// produce, for callers that construct the package without environment
// loading.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:      4,
		MaxIdleConns:      1,
		HealthCheckPeriod: time.Minute,
		MaxConnIdleTime:   10 * time.Minute,
		MaxConnLifetime:   30 * time.Minute,
		RetryAttempts:     3,
		RetryInterval:     2 * time.Second,
	}
}
