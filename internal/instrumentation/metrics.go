package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrResult = "result"
	attrReason = "reason"
	attrTool   = "tool"
	attrStatus = "status"
	attrMethod = "method"
)

// Status values recorded on metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a no-op recorder.
type Metrics struct {
	loginsTotal          metric.Int64Counter
	callbacksTotal       metric.Int64Counter
	exchangeDuration     metric.Float64Histogram
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
	directoryRequests    metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.loginsTotal, err = meter.Int64Counter(
		"oauth_logins_total",
		metric.WithDescription("Total number of completed login attempts"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_logins_total counter: %w", err)
	}

	m.callbacksTotal, err = meter.Int64Counter(
		"oauth_callback_requests_total",
		metric.WithDescription("Total number of requests received on the OAuth callback endpoint"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_callback_requests_total counter: %w", err)
	}

	m.exchangeDuration, err = meter.Float64Histogram(
		"oauth_exchange_duration_seconds",
		metric.WithDescription("Duration of authorization code exchanges"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_exchange_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("Duration of MCP tool invocations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.directoryRequests, err = meter.Int64Counter(
		"directory_requests_total",
		metric.WithDescription("Total number of employee directory API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory_requests_total counter: %w", err)
	}

	return m, nil
}

// CallbackReceived records a request on the OAuth callback endpoint.
func (m *Metrics) CallbackReceived() {
	if m.callbacksTotal == nil {
		return
	}
	m.callbacksTotal.Add(context.Background(), 1)
}

// LoginSucceeded records a completed login. The email itself is never
// attached to metrics.
func (m *Metrics) LoginSucceeded(_ string) {
	if m.loginsTotal == nil {
		return
	}
	m.loginsTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(attrResult, StatusSuccess)))
}

// LoginFailed records a failed login attempt with a low-cardinality reason
// (exchange, persist, identity).
func (m *Metrics) LoginFailed(reason string) {
	if m.loginsTotal == nil {
		return
	}
	m.loginsTotal.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(attrResult, StatusError),
			attribute.String(attrReason, reason),
		))
}

// RecordExchangeDuration records how long an authorization code exchange
// took.
func (m *Metrics) RecordExchangeDuration(ctx context.Context, d time.Duration) {
	if m.exchangeDuration == nil {
		return
	}
	m.exchangeDuration.Record(ctx, d.Seconds())
}

// ExchangeCompleted records the duration of a completed authorization code
// exchange. This is the listener-facing form of RecordExchangeDuration.
func (m *Metrics) ExchangeCompleted(d time.Duration) {
	m.RecordExchangeDuration(context.Background(), d)
}

// RecordToolInvocation records an MCP tool invocation with its outcome.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, d time.Duration) {
	if m.toolInvocationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrTool, tool)))
}

// RecordDirectoryRequest records an employee directory API request.
func (m *Metrics) RecordDirectoryRequest(ctx context.Context, method string, status int) {
	if m.directoryRequests == nil {
		return
	}
	m.directoryRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(attrMethod, method),
			attribute.Int(attrStatus, status),
		))
}
