// Package requestid tags every HTTP request with a correlation id.
//
// Middleware reuses a well-formed "X-Request-ID" header from the client or
// generates a UUID, stores it in the request context and echoes it back in
// the response. Handlers read it with FromContext, and LoggerExtractor adds
// it to every log record written with a request context:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "postcard"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
// Invalid client ids (too long, or containing anything other than letters,
// digits, '-' and '_') are replaced silently.
package requestid
