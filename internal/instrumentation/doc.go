// Package instrumentation wires OpenTelemetry metrics and tracing plus the
// tool invocation audit trail.
//
// The Provider owns exporter setup: Prometheus (pull), OTLP (push) or stdout
// for metrics, and OTLP, stdout or none for traces. A disabled provider
// returns no-op recorders, so calling code records unconditionally.
//
// Metrics cover the Calendar API calls, OAuth authorization and refresh
// outcomes, and per-tool invocation counts and latency.
package instrumentation
