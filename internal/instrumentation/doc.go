// Package instrumentation provides OpenTelemetry metrics and tracing for
// the server: login flow outcomes, callback traffic, tool invocations and
// directory API requests. Metrics are exported via Prometheus by default;
// OTLP and stdout exporters are available for development and collector
// setups.
package instrumentation
