// Package logger builds slog loggers with functional options, per-environment
// defaults, attribute helpers and automatic injection of context values.
//
// New selects a text or JSON handler and wraps it with LogHandlerDecorator,
// which runs every registered ContextExtractor on each record. Attribute
// helpers such as Slug, ExportFormat and Duration keep key names consistent
// across the service.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "permaqr"),
//	    logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "export rendered",
//	    logger.Slug(slug),
//	    logger.ExportFormat("png"),
//	    logger.Duration(time.Since(start)),
//	)
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no nil check.
package logger
