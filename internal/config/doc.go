// Package config provides configuration management for the calculator.
//
// Configuration is loaded from environment variables and validated on startup.
// All configuration options have sensible defaults for development.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d, err := engine.NewDispatcher(chart.NewPlotRenderer(), cfg.Settings(), logger)
package config
