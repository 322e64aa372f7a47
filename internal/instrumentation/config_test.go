package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "agendabot", config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, ExporterNone, config.TracingExporter)
	assert.Equal(t, "/metrics", config.PrometheusEndpoint)
	assert.True(t, config.AuditLogging.Enabled)
}

func TestDefaultConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "agendabot-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	config := DefaultConfig()

	assert.Equal(t, "agendabot-test", config.ServiceName)
	assert.False(t, config.Enabled)
	assert.Equal(t, ExporterStdout, config.MetricsExporter)
	assert.InDelta(t, 0.5, config.TraceSamplingRate, 0.001)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"defaults are valid",
			func(c *Config) {},
			"",
		},
		{
			"sampling rate above one",
			func(c *Config) { c.TraceSamplingRate = 1.5 },
			"sampling rate",
		},
		{
			"unknown metrics exporter",
			func(c *Config) { c.MetricsExporter = "statsd" },
			"invalid metrics exporter",
		},
		{
			"unknown tracing exporter",
			func(c *Config) { c.TracingExporter = "jaeger" },
			"invalid tracing exporter",
		},
		{
			"otlp metrics without endpoint",
			func(c *Config) { c.MetricsExporter = ExporterOTLP },
			"OTLP endpoint is required",
		},
		{
			"otlp tracing without endpoint",
			func(c *Config) { c.TracingExporter = ExporterOTLP },
			"OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
