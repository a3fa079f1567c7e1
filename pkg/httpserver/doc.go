// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, health-check handlers, and structured logging via slog.
//
// Run starts the server and blocks until the context is canceled or an
// interrupt/TERM signal arrives, then drains in-flight requests within the
// shutdown deadline. Construction goes through New or NewFromConfig with
// Option helpers. Listen errors are wrapped with ErrStart and shutdown
// errors with ErrShutdown, both inspectable with errors.Is.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.HealthCheckHandler(log, store.Healthcheck()))
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithShutdownTimeout(10*time.Second),
//		httpserver.WithLogger(log),
//	)
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
