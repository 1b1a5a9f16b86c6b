// Package middleware provides observability for router transitions:
// structured logging via log/slog, Prometheus metrics, and OpenTelemetry
// tracing.
//
// Logger and Prometheus return router.MiddlewareFactory values wired with
// Router.UseMiddleware. The tracer hooks transition events instead, since
// a span covers the whole attempt from start to commit or failure:
//
//	r.UseMiddleware(middleware.Logger(middleware.WithSlog(logger)))
//	r.UseMiddleware(middleware.Prometheus())
//	middleware.Trace(r, middleware.WithTracerName("my-app"))
package middleware
