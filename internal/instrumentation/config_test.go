package instrumentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "linkauth", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterPrometheus, cfg.MetricsExporter)
	assert.Equal(t, ExporterNone, cfg.TracingExporter)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "custom")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	cfg := DefaultConfig()

	assert.Equal(t, "custom", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ExporterStdout, cfg.MetricsExporter)
	assert.InDelta(t, 0.5, cfg.TraceSamplingRate, 0.0001)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad metrics exporter", mutate: func(c *Config) { c.MetricsExporter = "graphite" }, wantErr: true},
		{name: "bad tracing exporter", mutate: func(c *Config) { c.TracingExporter = "jaeger" }, wantErr: true},
		{name: "sampling rate too high", mutate: func(c *Config) { c.TraceSamplingRate = 1.5 }, wantErr: true},
		{name: "otlp metrics without endpoint", mutate: func(c *Config) { c.MetricsExporter = ExporterOTLP }, wantErr: true},
		{name: "otlp metrics with endpoint", mutate: func(c *Config) {
			c.MetricsExporter = ExporterOTLP
			c.OTLPEndpoint = "localhost:4318"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMetricsZeroValueIsNoop(t *testing.T) {
	var m Metrics

	// All recorders must tolerate the uninitialized state.
	m.CallbackReceived()
	m.ExchangeCompleted(time.Millisecond)
	m.LoginSucceeded("dev@example.com")
	m.LoginFailed("exchange")
}
