// Package logger builds the postcard service's *slog.Logger.
//
// New picks a text or JSON handler from the environment options and wraps it
// in LogHandlerDecorator, which runs every registered ContextExtractor before
// a record is written. The request ID and client IP reach the log this way
// without handlers passing them around.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.Service),
//		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "postcard sent",
//		logger.AttemptID(a.ID),
//		logger.Stage(a.Stage.String()),
//		logger.Duration(time.Since(start)),
//	)
//
// The attribute helpers in attr.go keep key names consistent across the
// renderers, the rate gate and the delivery orchestrator. Error and Errors
// return an empty attribute for a nil error, so no nil check is needed at the
// call site.
package logger
