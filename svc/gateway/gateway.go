package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantgate"
	"github.com/dmitrymomot/tenantgate/pkg/config"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/metrics"
	"github.com/dmitrymomot/tenantgate/pkg/requestid"
	"github.com/dmitrymomot/tenantgate/pkg/tenantdb"
	"github.com/dmitrymomot/tenantgate/registry"
)

var (
	// ErrNilHandler is returned when New is called without an application
	// handler.
	ErrNilHandler = errors.New("gateway: nil application handler")
	// ErrUnknownRegistryDriver is returned for a RegistryDriver value the
	// gateway does not know how to build.
	ErrUnknownRegistryDriver = errors.New("gateway: unknown registry driver")
	// ErrUnknownCacheDriver is returned for a CacheDriver value the gateway
	// does not know how to build.
	ErrUnknownCacheDriver = errors.New("gateway: unknown cache driver")
)

// Gateway assembles the full request chain around an application handler:
// request IDs, HTTP metrics, health and scrape endpoints, and the tenant
// gate backed by a registry directory.
type Gateway struct {
	cfg     Config
	log     *slog.Logger
	dir     *registry.Directory
	store   registry.Store
	router  chi.Router
	server  *httpserver.Server
	ownsDir bool
}

// Option overrides a Gateway building block before assembly.
type Option func(*Gateway)

// WithDirectory supplies an externally managed directory. The gateway
// skips building its own store, cache and pool manager, and Close leaves
// the directory untouched.
func WithDirectory(dir *registry.Directory) Option {
	return func(g *Gateway) {
		if dir != nil {
			g.dir = dir
		}
	}
}

// WithLogger replaces the environment-derived logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// New assembles a gateway from configuration: registry store, record
// cache, tenant pool manager, and the middleware chain around app.
// Stores and caches that need a connection are opened here, so New fails
// fast when the registry is unreachable.
func New(ctx context.Context, cfg Config, app http.Handler, opts ...Option) (*Gateway, error) {
	if app == nil {
		return nil, ErrNilHandler
	}

	g := &Gateway{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}

	if g.log == nil {
		g.log = logger.New(
			logger.WithEnvironment(cfg.Environment, cfg.Service),
			logger.WithContextExtractors(
				requestid.LoggerExtractor(),
				tenantgate.LoggerExtractor(),
			),
		)
	}

	if g.dir == nil {
		if err := g.buildDirectory(ctx, cfg); err != nil {
			return nil, err
		}
	}

	var probes []func(context.Context) error
	if hc, ok := g.store.(interface {
		Healthcheck() func(context.Context) error
	}); ok {
		probes = append(probes, hc.Healthcheck())
	}

	g.router = g.buildRouter(app, probes)

	srvCfg, err := config.Load[httpserver.Config]()
	if err != nil {
		return nil, errors.Join(err, g.Close(ctx))
	}
	g.server = httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(g.log))

	return g, nil
}

// buildDirectory opens the configured store and cache and wires them into
// a directory owned by the gateway.
func (g *Gateway) buildDirectory(ctx context.Context, cfg Config) error {
	store, err := openStore(ctx, cfg, g.log)
	if err != nil {
		return err
	}

	cache, err := openCache(ctx, cfg)
	if err != nil {
		return errors.Join(err, store.Close(ctx))
	}

	dbCfg, err := config.Load[tenantdb.Config]()
	if err != nil {
		return errors.Join(err, store.Close(ctx))
	}

	pools := tenantdb.NewManager(dbCfg, tenantdb.WithPoolObserver(metrics.SetOpenPools))

	g.store = store
	g.dir = registry.NewDirectory(store,
		registry.WithRecordCache(cache),
		registry.WithPoolManager(pools),
		registry.WithLogger(g.log),
	)
	g.ownsDir = true

	return nil
}

func (g *Gateway) buildRouter(app http.Handler, probes []func(context.Context) error) chi.Router {
	gate := tenantgate.Middleware(g.dir,
		tenantgate.WithLogger(g.log),
		tenantgate.WithObserver(func(o tenantgate.Outcome) {
			metrics.ObserveResolution(string(o))
		}),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(metrics.Middleware)

	r.Get("/health", httpserver.HealthCheckHandler(g.log, probes...))
	r.Handle("/actuator/prometheus", metrics.Handler())
	r.Mount("/", gate(app))

	return r
}

// Handler returns the composed router for embedding into an existing
// server instead of calling Run.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Directory exposes the directory in use, owned or supplied, so callers
// can invalidate tenants at runtime.
func (g *Gateway) Directory() *registry.Directory {
	return g.dir
}

// Run serves the gateway until ctx is canceled or a shutdown signal
// arrives, then releases the gateway-owned directory with its pools and
// caches. Cleanup runs even when ctx is already canceled.
func (g *Gateway) Run(ctx context.Context) error {
	err := g.server.Run(ctx, g.router)

	if cerr := g.Close(context.WithoutCancel(ctx)); cerr != nil {
		err = errors.Join(err, cerr)
	}

	return err
}

// Close releases gateway-owned resources. Directories supplied through
// WithDirectory stay open.
func (g *Gateway) Close(ctx context.Context) error {
	if !g.ownsDir {
		return nil
	}

	var errs []error
	if g.dir != nil {
		if err := g.dir.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if g.store != nil {
		if err := g.store.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg Config, log *slog.Logger) (registry.Store, error) {
	switch cfg.RegistryDriver {
	case DriverPostgres:
		dbCfg, err := config.Load[tenantdb.Config]()
		if err != nil {
			return nil, err
		}
		return registry.OpenPGStore(ctx, cfg.RegistryDSN, dbCfg, log)
	case DriverMongo:
		mongoCfg, err := config.Load[registry.MongoConfig]()
		if err != nil {
			return nil, err
		}
		return registry.OpenMongoStore(ctx, mongoCfg)
	case DriverStatic:
		return registry.LoadStatic(cfg.RegistryFile)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegistryDriver, cfg.RegistryDriver)
	}
}

func openCache(ctx context.Context, cfg Config) (registry.RecordCache, error) {
	switch cfg.CacheDriver {
	case CacheMemory:
		return registry.NewMemoryCacheWithSize(cfg.CacheTTL, cfg.CacheSize), nil
	case CacheRedis:
		redisCfg, err := config.Load[registry.RedisConfig]()
		if err != nil {
			return nil, err
		}
		return registry.OpenRedisCache(ctx, redisCfg)
	case CacheNone:
		return registry.NewNopCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCacheDriver, cfg.CacheDriver)
	}
}
