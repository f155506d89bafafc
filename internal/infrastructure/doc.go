// Package infrastructure holds the process-wide plumbing: the slog JSON
// logger with trace_id injection, run/request trace IDs, and the
// OpenTelemetry tracer and meter providers with the pipeline metrics.
package infrastructure
