package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/aescanero/scicalc/internal/engine"
)

// Config holds all configuration for the calculator worker and CLI
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"calc-1"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey     string        `env:"STREAM_KEY" envDefault:"calc.requests"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"calc-workers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"calc.results"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`

	// Chart output configuration
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"."`
	OutputFormat   string `env:"OUTPUT_FORMAT" envDefault:"png"`
	OutputTemplate string `env:"OUTPUT_TEMPLATE" envDefault:"{{#if id}}{{id}}_{{/if}}{{name}}.{{format}}"`
	PlotSamples    int    `env:"PLOT_SAMPLES" envDefault:"1000"`
	SurfaceSamples int    `env:"SURFACE_SAMPLES" envDefault:"100"`

	// History configuration, empty disables it
	HistoryPath string `env:"HISTORY_PATH" envDefault:"scicalc-history.db"`

	// Health check configuration
	HealthPort     int  `env:"HEALTH_PORT" envDefault:"8082"`
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}

	if !isValidFormat(c.OutputFormat) {
		return fmt.Errorf("OUTPUT_FORMAT must be one of: png, svg, pdf, jpg")
	}

	if c.OutputTemplate == "" {
		return fmt.Errorf("OUTPUT_TEMPLATE is required")
	}

	if c.PlotSamples < 2 {
		return fmt.Errorf("PLOT_SAMPLES must be at least 2")
	}

	if c.SurfaceSamples < 2 {
		return fmt.Errorf("SURFACE_SAMPLES must be at least 2")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

func isValidFormat(format string) bool {
	switch format {
	case "png", "svg", "pdf", "jpg":
		return true
	}
	return false
}

// Settings returns the dispatcher settings for chart output
func (c *Config) Settings() engine.Settings {
	s := engine.DefaultSettings()
	s.OutputDir = c.OutputDir
	s.Format = c.OutputFormat
	s.FileTemplate = c.OutputTemplate
	s.PlotSamples = c.PlotSamples
	s.SurfaceSamples = c.SurfaceSamples
	return s
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, ConsumerGroup=%s, "+
			"ResultStream=%s, OutputDir=%s, OutputFormat=%s, HistoryPath=%s, HealthPort=%d, "+
			"MetricsEnabled=%v, LogLevel=%s}",
		c.WorkerID,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.ResultStream,
		c.OutputDir,
		c.OutputFormat,
		c.HistoryPath,
		c.HealthPort,
		c.MetricsEnabled,
		c.LogLevel,
	)
}
