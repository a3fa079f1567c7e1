// Package config loads application configuration from environment
// variables into tagged structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// .env files feed the process environment, env tags map variables onto
// struct fields, and every config type is parsed once per process with
// later calls served from an in-memory cache. That way the gateway, the
// registry, and the pool manager all observe the same values no matter
// who loads first.
//
// # Usage
//
// Declare a struct with env tags:
//
//	type ServerConfig struct {
//	    Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
//	    ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
//	}
//
// and load it wherever it is needed:
//
//	cfg, err := config.Load[ServerConfig]()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// MustLoad is the panicking variant for process startup. Reset clears the
// cache; it exists for tests that mutate the environment.
package config
