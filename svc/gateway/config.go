package gateway

import "time"

// Registry store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverStatic   = "static"
)

// Record cache drivers.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config selects the gateway building blocks. Driver-specific settings
// (tenant pools, mongo registry, redis cache, http server) load from
// their own env blocks.
type Config struct {
	Service     string `env:"GATEWAY_SERVICE_NAME" envDefault:"tenantgate"` // Service is the name attached to log records.
	Environment string `env:"GATEWAY_ENVIRONMENT" envDefault:"development"` // Environment selects the logger preset.

	RegistryDriver string `env:"REGISTRY_DRIVER" envDefault:"postgres"` // RegistryDriver selects the tenant store: postgres, mongo or static.
	RegistryDSN    string `env:"REGISTRY_POSTGRES_URL"`                 // RegistryDSN is the registry database URL for the postgres driver.
	RegistryFile   string `env:"REGISTRY_STATIC_FILE"`                  // RegistryFile is the YAML tenant list for the static driver.

	CacheDriver string        `env:"REGISTRY_CACHE" envDefault:"memory"`    // CacheDriver selects the record cache: memory, redis or none.
	CacheTTL    time.Duration `env:"REGISTRY_CACHE_TTL" envDefault:"30s"`   // CacheTTL bounds record staleness.
	CacheSize   int           `env:"REGISTRY_CACHE_SIZE" envDefault:"1024"` // CacheSize caps the in-memory cache entry count.
}
