package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/chart"
	"github.com/aescanero/scicalc/internal/eval/template"
	"github.com/aescanero/scicalc/internal/operand"
	"github.com/aescanero/scicalc/internal/stats"
)

// Chart titles. Function charts receive the expression as {{expr}}.
const (
	titleScatter = "Scatter plot"
	titleBox     = "Box plot"
	titleQQ      = "Q-Q plot"
	titlePie     = "Pie chart"
	titleBar     = "Bar chart"
)

var (
	titleFunction  = template.MustParse("Graph of {{{expr}}}")
	titlePolar     = template.MustParse("Polar plot of {{{expr}}}")
	titleSurface   = template.MustParse("3D surface of {{{expr}}}")
	titleHistogram = template.MustParse("Histogram ({{bins}} bins)")
	titleHeatmap   = template.MustParse("Heat map ({{rows}}x{{cols}})")
)

func visualizeFunction(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	xs := stats.Span(d.settings.PlotSamples, set.Bounds[0], set.Bounds[1])
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = set.Func.Eval(x)
	}

	expr := set.Func.String()
	title, err := d.title(titleFunction, map[string]interface{}{"expr": expr})
	if err != nil {
		return Result{}, err
	}
	return d.render(ctx, "function_plot", chart.Spec{
		Kind:   chart.KindLine,
		Title:  title,
		XLabel: "x",
		YLabel: "f(x)",
		Series: []chart.Series{{Name: "f(x) = " + expr, X: xs, Y: ys}},
	})
}

func visualizePolar(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	thetas := stats.Span(d.settings.PlotSamples, set.Bounds[0], set.Bounds[1])
	rs := make([]float64, len(thetas))
	for i, theta := range thetas {
		rs[i] = set.Func.Eval(theta)
	}

	title, err := d.title(titlePolar, map[string]interface{}{"expr": set.Func.String()})
	if err != nil {
		return Result{}, err
	}
	return d.render(ctx, "polar_plot", chart.Spec{
		Kind:   chart.KindPolar,
		Title:  title,
		Series: []chart.Series{{X: thetas, Y: rs}},
	})
}

func visualizeSurface(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	n := d.settings.SurfaceSamples
	xs := stats.Span(n, set.Bounds[0], set.Bounds[1])
	ys := stats.Span(n, set.Bounds[2], set.Bounds[3])

	z := make([][]float64, len(ys))
	for r, y := range ys {
		z[r] = make([]float64, len(xs))
		for c, x := range xs {
			z[r][c] = set.Func.Eval(x, y)
		}
	}

	title, err := d.title(titleSurface, map[string]interface{}{"expr": set.Func.String()})
	if err != nil {
		return Result{}, err
	}
	return d.render(ctx, "3d_plot", chart.Spec{
		Kind:   chart.KindSurface,
		Title:  title,
		XLabel: "x",
		YLabel: "y",
		Grid:   &chart.Grid{Xs: xs, Ys: ys, Z: z},
	})
}

func visualizeScatter(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	return d.render(ctx, "scatter_plot", chart.Spec{
		Kind:   chart.KindScatter,
		Title:  titleScatter,
		XLabel: "x",
		YLabel: "y",
		Series: []chart.Series{{X: set.Values, Y: set.Others, Points: true}},
	})
}

func visualizeHistogram(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	bins := stats.SturgesBins(len(set.Values))
	title, err := d.title(titleHistogram, map[string]interface{}{"bins": bins})
	if err != nil {
		return Result{}, err
	}
	return d.render(ctx, "histogram", chart.Spec{
		Kind:   chart.KindHistogram,
		Title:  title,
		XLabel: "Values",
		YLabel: "Frequency",
		Values: set.Values,
		Bins:   bins,
	})
}

func visualizeBox(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	return d.render(ctx, "boxplot", chart.Spec{
		Kind:   chart.KindBox,
		Title:  titleBox,
		YLabel: "Values",
		Values: set.Values,
	})
}

func visualizeQQ(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	theoretical, sample, fit := stats.QQ(set.Values)

	series := []chart.Series{{Name: "Ordered values", X: theoretical, Y: sample, Points: true}}
	if n := len(theoretical); n > 1 {
		lo, hi := theoretical[0], theoretical[n-1]
		series = append(series, chart.Series{
			Name: "Fit",
			X:    []float64{lo, hi},
			Y:    []float64{fit.Intercept + fit.Slope*lo, fit.Intercept + fit.Slope*hi},
		})
	}

	return d.render(ctx, "qqplot", chart.Spec{
		Kind:   chart.KindQQ,
		Title:  titleQQ,
		XLabel: "Theoretical quantiles",
		YLabel: "Ordered values",
		Series: series,
	})
}

func visualizeHeatmap(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	rows, cols := len(set.Rows), len(set.Rows[0])
	xs := make([]float64, cols)
	for i := range xs {
		xs[i] = float64(i)
	}
	ys := make([]float64, rows)
	for i := range ys {
		ys[i] = float64(i)
	}

	title, err := d.title(titleHeatmap, map[string]interface{}{"rows": rows, "cols": cols})
	if err != nil {
		return Result{}, err
	}
	return d.render(ctx, "heatmap", chart.Spec{
		Kind:  chart.KindHeatmap,
		Title: title,
		Grid:  &chart.Grid{Xs: xs, Ys: ys, Z: set.Rows},
	})
}

func visualizePie(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	return d.render(ctx, "pie_chart", chart.Spec{
		Kind:   chart.KindPie,
		Title:  titlePie,
		Values: set.Values,
		Labels: set.Labels,
	})
}

func visualizeBar(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error) {
	return d.render(ctx, "bar_chart", chart.Spec{
		Kind:   chart.KindBar,
		Title:  titleBar,
		Values: set.Values,
		Labels: set.Labels,
	})
}

func (d *Dispatcher) title(tmpl *template.Template, data map[string]interface{}) (string, error) {
	title, err := tmpl.Render(data)
	if err != nil {
		return "", calcerr.Wrap(calcerr.KindRender, "", err, "failed to build chart title")
	}
	return title, nil
}

// render hands spec to the renderer and acknowledges the written file
func (d *Dispatcher) render(ctx context.Context, name string, spec chart.Spec) (Result, error) {
	path, err := d.outputPath(ctx, name)
	if err != nil {
		return Result{}, calcerr.Wrap(calcerr.KindRender, "", err, "cannot name %s output", name)
	}

	if err := d.renderer.Render(ctx, spec, path); err != nil {
		return Result{}, calcerr.Wrap(calcerr.KindRender, "", err, "failed to render %s", name)
	}
	recordChart(string(spec.Kind))

	msg, err := d.ack.Render(map[string]interface{}{
		"path":  path,
		"name":  name,
		"kind":  string(spec.Kind),
		"title": spec.Title,
	})
	if err != nil {
		return Result{}, calcerr.Wrap(calcerr.KindRender, "", err, "failed to acknowledge %s", name)
	}

	d.logger.Debug("chart rendered",
		zap.String("kind", string(spec.Kind)),
		zap.String("path", path),
	)
	return renderResult(RenderAck{Chart: spec.Kind, Path: path, Message: msg}), nil
}

// outputPath builds the chart file path from the file template. The rendered
// name must be a bare file name.
func (d *Dispatcher) outputPath(ctx context.Context, name string) (string, error) {
	data := map[string]interface{}{
		"name":   name,
		"format": d.settings.Format,
	}
	if id, ok := OutputID(ctx); ok {
		data["id"] = id
	}

	file, err := d.fileName.Render(data)
	if err != nil {
		return "", err
	}
	file = strings.TrimSpace(file)
	if file == "" || file == "." || file == ".." || file != filepath.Base(file) {
		return "", fmt.Errorf("invalid output file name %q", file)
	}
	return filepath.Join(d.settings.OutputDir, file), nil
}
