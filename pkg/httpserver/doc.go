// Package httpserver runs the postcard backend's HTTP listener.
//
// Server is configured with functional options or from Config, and Run blocks
// until ctx is canceled or the process receives SIGINT or SIGTERM. Shutdown
// drains in-flight requests within the shutdown timeout, then runs the stop
// hooks, which is where the browser pool and usage store are closed.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(ctx context.Context, log *slog.Logger) {
//			pool.Shutdown(ctx)
//		}),
//	)
//	err := srv.Run(ctx, mod.Handle())
//
// HealthCheckHandler serves the {"status","message"} payload used by
// /api/health and, with readiness checks attached, /api/db-test.
//
// Listen failures wrap ErrStart and shutdown failures wrap ErrShutdown.
package httpserver
