package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/chart"
	"github.com/aescanero/scicalc/internal/eval/cel"
	"github.com/aescanero/scicalc/internal/eval/template"
	"github.com/aescanero/scicalc/internal/operand"
)

const (
	// DefaultFileTemplate names chart files; id is the optional output identifier
	DefaultFileTemplate = "{{#if id}}{{id}}_{{/if}}{{name}}.{{format}}"
	// DefaultAckTemplate is the message returned once a chart is saved
	DefaultAckTemplate = "Chart saved to '{{{path}}}'"
)

// Settings control where and how charts are produced
type Settings struct {
	OutputDir      string
	Format         string
	FileTemplate   string
	AckTemplate    string
	PlotSamples    int
	SurfaceSamples int
}

// DefaultSettings returns settings writing png files to the working directory
func DefaultSettings() Settings {
	return Settings{
		OutputDir:      ".",
		Format:         "png",
		FileTemplate:   DefaultFileTemplate,
		AckTemplate:    DefaultAckTemplate,
		PlotSamples:    1000,
		SurfaceSamples: 100,
	}
}

// Dispatcher selects the operator a raw string invokes and runs it.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	// guards holds each signature's compiled conditions, indexed like Signature.guards
	guards   map[string][]*cel.Condition
	fileName *template.Template
	ack      *template.Template
	renderer chart.Renderer
	settings  Settings
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher drawing charts with renderer
func NewDispatcher(renderer chart.Renderer, settings Settings, logger *zap.Logger) (*Dispatcher, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Format == "" {
		return nil, fmt.Errorf("output format is required")
	}
	if settings.PlotSamples < 2 || settings.SurfaceSamples < 2 {
		return nil, fmt.Errorf("sample counts must be at least 2")
	}

	fileName, err := template.Parse(settings.FileTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid file template: %w", err)
	}
	ack, err := template.Parse(settings.AckTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid acknowledgement template: %w", err)
	}

	evaluator := cel.NewEvaluator()
	guards := make(map[string][]*cel.Condition, len(registry))
	for _, sig := range Signatures() {
		for _, g := range sig.guards {
			cond, err := evaluator.Compile(g.Condition)
			if err != nil {
				return nil, fmt.Errorf("invalid guard for %s: %w", sig.Token, err)
			}
			guards[sig.Token] = append(guards[sig.Token], cond)
		}
	}

	return &Dispatcher{
		guards:   guards,
		fileName: fileName,
		ack:      ack,
		renderer: renderer,
		settings: settings,
		logger:   logger,
	}, nil
}

// Match returns the signature raw invokes. Statistics and visualization
// tokens are tried first by prefix, then the unary functions, then the
// factorial suffix, then the binary operators in priority order.
func Match(raw string) (Signature, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Signature{}, calcerr.New(calcerr.KindUnrecognized, "", "empty operation")
	}

	for _, tok := range prefixTokens {
		if strings.HasPrefix(s, tok) {
			return registry[tok], nil
		}
	}
	for _, tok := range unaryTokens {
		if strings.HasPrefix(s, tok) {
			return registry[tok], nil
		}
	}
	if strings.HasSuffix(s, factorialToken) {
		return registry[factorialToken], nil
	}
	for _, op := range binaryTokens {
		if operand.HasBinary(s, op) {
			return registry[string(op)], nil
		}
	}

	return Signature{}, calcerr.New(calcerr.KindUnrecognized, "", "unrecognized operation %q", s)
}

// Evaluate parses raw, checks the operator's preconditions and computes the result
func (d *Dispatcher) Evaluate(ctx context.Context, raw string) (Result, error) {
	start := time.Now()

	sig, err := Match(raw)
	if err != nil {
		d.observe(unmatchedOperator, start, err)
		return Result{}, err
	}

	res, err := d.run(ctx, sig, strings.TrimSpace(raw))
	d.observe(sig.Token, start, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (d *Dispatcher) run(ctx context.Context, sig Signature, s string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	set, err := sig.extract(s)
	if err != nil {
		return Result{}, calcerr.WithOp(err, sig.Token)
	}

	if err := d.checkGuards(ctx, sig, set); err != nil {
		return Result{}, err
	}

	res, err := sig.compute(ctx, d, set)
	if err != nil {
		return Result{}, calcerr.WithOp(err, sig.Token)
	}
	res.Operator = sig.Token
	return res, nil
}

func (d *Dispatcher) observe(operator string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = calcerr.KindOf(err).String()
	}
	recordEvaluation(operator, outcome, elapsed)

	if err != nil {
		d.logger.Debug("evaluation failed",
			zap.String("operator", operator),
			zap.String("error_kind", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}
	d.logger.Debug("evaluation succeeded",
		zap.String("operator", operator),
		zap.Duration("elapsed", elapsed),
	)
}
