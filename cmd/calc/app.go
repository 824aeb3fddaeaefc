package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/chart"
	"github.com/aescanero/scicalc/internal/config"
	"github.com/aescanero/scicalc/internal/engine"
	"github.com/aescanero/scicalc/internal/history"
	"github.com/aescanero/scicalc/internal/logging"
	"github.com/aescanero/scicalc/internal/present"
)

// app wires the dispatcher, history store and printer for one CLI run
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	dispatcher *engine.Dispatcher
	store      *history.Store
	printer    *present.Printer
}

type appOptions struct {
	plain     bool
	noHistory bool
	logLevel  string
	outputDir string
}

func newApp(out io.Writer, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}

	logger, err := logging.NewConsole(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dispatcher, err := engine.NewDispatcher(chart.NewPlotRenderer(), cfg.Settings(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dispatcher: %w", err)
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		dispatcher: dispatcher,
		printer:    present.NewPrinter(out, opts.plain),
	}

	if !opts.noHistory && cfg.HistoryPath != "" {
		store, err := history.NewStore(cfg.HistoryPath)
		if err != nil {
			logger.Warn("history disabled", zap.String("path", cfg.HistoryPath), zap.Error(err))
		} else {
			a.store = store
		}
	}

	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close history", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// run evaluates raw, prints the outcome and records it. It reports whether
// the evaluation succeeded.
func (a *app) run(ctx context.Context, raw string) bool {
	res, err := a.evaluate(ctx, raw)
	a.record(ctx, raw, res, err)

	if err != nil {
		a.printer.Error(err)
		return false
	}
	a.printer.Result(raw, res)
	return true
}

// evaluate recovers a panic as an unexpected error so the session survives
func (a *app) evaluate(ctx context.Context, raw string) (res engine.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("evaluation panicked", zap.Any("panic", r), zap.String("operation", raw))
			res, err = engine.Result{}, fmt.Errorf("panic during evaluation: %v", r)
		}
	}()
	return a.dispatcher.Evaluate(ctx, raw)
}

func (a *app) record(ctx context.Context, raw string, res engine.Result, evalErr error) {
	if a.store == nil {
		return
	}

	entry := history.EntryFor(raw, res, evalErr)
	if _, err := a.store.Record(ctx, entry); err != nil {
		a.logger.Warn("failed to record history", zap.Error(err))
	}
}

func (a *app) showHistory(ctx context.Context, limit int) error {
	if a.store == nil {
		return fmt.Errorf("history is disabled")
	}
	entries, err := a.store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	a.printer.History(entries)
	return nil
}
