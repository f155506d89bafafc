// Package app wires the cacases API server: it opens the snapshot store,
// builds the services and handlers, assembles the chi router with its
// middleware chain and runs the HTTP server until the context ends.
//
// # Middleware Order
//
//	otelhttp (server span) → RequestID → RealIP → OTel route metrics →
//	StructuredLogger → Recoverer → Timeout → SecurityHeaders → RateLimiter
//
// RequestID runs inside the otelhttp span so the trace id of the span,
// when tracing is enabled, becomes the trace_id of every log line.
//
// # Lifecycle
//
//	application, err := app.New(cfg, logger, providers)
//	if err != nil { ... }
//	return application.Run(ctx) // blocks until SIGINT/SIGTERM or ctx ends
package app
