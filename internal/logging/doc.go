// Package logging builds the zap loggers used by the worker and the CLI.
package logging
