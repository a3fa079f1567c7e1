// Package gateway assembles the tenant gate into a runnable service.
//
// New reads driver selections from Config, opens the matching registry
// store (postgres, mongo or static) and record cache (memory, redis or
// none), and builds a chi router with request IDs, Prometheus metrics,
// /health, /actuator/prometheus, and the tenant gate wrapped around the
// application handler. Run serves it with graceful shutdown and releases
// the directory afterwards.
//
//	cfg := config.MustLoad[gateway.Config]()
//
//	gw, err := gateway.New(ctx, cfg, app)
//	if err != nil {
//		log.Error("gateway setup failed", logger.Error(err))
//		os.Exit(1)
//	}
//
//	if err := gw.Run(ctx); err != nil {
//		log.Error("gateway stopped", logger.Error(err))
//	}
//
// Services with their own http server embed the chain instead:
//
//	gw, _ := gateway.New(ctx, cfg, app, gateway.WithDirectory(dir))
//	srv.Handle("/", gw.Handler())
package gateway
