package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "calc-1", cfg.WorkerID)
	assert.Equal(t, "calc.requests", cfg.StreamKey)
	assert.Equal(t, "calc-workers", cfg.ConsumerGroup)
	assert.Equal(t, "calc.results", cfg.ResultStream)
	assert.Equal(t, time.Second, cfg.BlockTime)
	assert.Equal(t, "png", cfg.OutputFormat)
	assert.Equal(t, 1000, cfg.PlotSamples)
	assert.Equal(t, 100, cfg.SurfaceSamples)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("WORKER_ID", "calc-7")
	t.Setenv("REDIS_PASS", "hunter2")
	t.Setenv("OUTPUT_DIR", "/var/charts")
	t.Setenv("OUTPUT_FORMAT", "svg")
	t.Setenv("PLOT_SAMPLES", "200")
	t.Setenv("BLOCK_TIME", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "calc-7", cfg.WorkerID)
	assert.Equal(t, "/var/charts", cfg.OutputDir)
	assert.Equal(t, 250*time.Millisecond, cfg.BlockTime)

	s := cfg.Settings()
	assert.Equal(t, "/var/charts", s.OutputDir)
	assert.Equal(t, "svg", s.Format)
	assert.Equal(t, 200, s.PlotSamples)
	assert.Equal(t, 100, s.SurfaceSamples)
	assert.Equal(t, cfg.OutputTemplate, s.FileTemplate)
	assert.NotEmpty(t, s.AckTemplate)

	assert.NotContains(t, cfg.String(), "hunter2")
	assert.Contains(t, cfg.String(), "WorkerID=calc-7")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "gif")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_FORMAT")
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"worker id", func(c *Config) { c.WorkerID = "" }, "WORKER_ID"},
		{"redis addr", func(c *Config) { c.RedisAddr = "" }, "REDIS_ADDR"},
		{"stream", func(c *Config) { c.StreamKey = "" }, "STREAM_KEY"},
		{"group", func(c *Config) { c.ConsumerGroup = "" }, "CONSUMER_GROUP"},
		{"results", func(c *Config) { c.ResultStream = "" }, "RESULT_STREAM"},
		{"block time", func(c *Config) { c.BlockTime = 0 }, "BLOCK_TIME"},
		{"output dir", func(c *Config) { c.OutputDir = "" }, "OUTPUT_DIR"},
		{"template", func(c *Config) { c.OutputTemplate = "" }, "OUTPUT_TEMPLATE"},
		{"plot samples", func(c *Config) { c.PlotSamples = 1 }, "PLOT_SAMPLES"},
		{"surface samples", func(c *Config) { c.SurfaceSamples = 0 }, "SURFACE_SAMPLES"},
		{"port", func(c *Config) { c.HealthPort = 70000 }, "HEALTH_PORT"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
