// Package logger is a context-aware wrapper around slog: a factory with
// functional options, helper attribute constructors, and transparent
// injection of context values into every record.
//
// New builds a *slog.Logger from Option functions: output format (text or
// json), minimum level, static attributes, and ContextExtractor callbacks
// that pull request-scoped values such as request and tenant IDs out of the
// log call's context. Extractors run inside HandlerDecorator on every
// Handle call, so records always carry the current request's values.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Environment, "tenant-gateway"),
//	    logger.WithContextExtractors(
//	        requestid.LoggerExtractor(),
//	        tenantgate.LoggerExtractor(),
//	    ),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "tenant bound",
//	    logger.TenantID(id),
//	    logger.Duration(time.Since(start)),
//	)
//
// Attribute helpers such as Error, TenantID and Driver return an empty
// Attr for nil values, so callers skip the nil check.
package logger
