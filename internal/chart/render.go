package chart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotRenderer draws charts with gonum/plot
type PlotRenderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewPlotRenderer creates a renderer producing 8x6 inch images
func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{
		Width:  8 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// Render draws spec and saves it to path, creating the parent directory
func (r *PlotRenderer) Render(ctx context.Context, spec Spec, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid chart: %w", err)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	var err error
	switch spec.Kind {
	case KindLine, KindScatter, KindQQ:
		p.Add(plotter.NewGrid())
		err = addSeries(p, spec.Series, nil)
	case KindPolar:
		p.Add(plotter.NewGrid())
		err = addSeries(p, spec.Series, polarToCartesian)
	case KindHistogram:
		err = addHistogram(p, spec.Values, spec.Bins)
	case KindBox:
		err = addBox(p, spec.Values)
	case KindBar:
		err = addBars(p, spec.Values, spec.Labels)
	case KindPie:
		err = addPie(p, spec.Values, spec.Labels)
	case KindHeatmap, KindSurface:
		addHeatMap(p, spec.Grid)
	}
	if err != nil {
		return fmt.Errorf("failed to draw %s chart: %w", spec.Kind, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// addSeries draws every series, as markers or as lines broken at non-finite points
func addSeries(p *plot.Plot, series []Series, transform func(x, y float64) (float64, float64)) error {
	for i, s := range series {
		segments := finiteSegments(s.X, s.Y, transform)
		c := plotutil.Color(i)

		if s.Points {
			var pts plotter.XYs
			for _, seg := range segments {
				pts = append(pts, seg...)
			}
			if len(pts) == 0 {
				continue
			}
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			scatter.GlyphStyle.Color = c
			scatter.GlyphStyle.Shape = draw.CircleGlyph{}
			scatter.GlyphStyle.Radius = vg.Points(3)
			p.Add(scatter)
			if s.Name != "" {
				p.Legend.Add(s.Name, scatter)
			}
			continue
		}

		for j, seg := range segments {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return err
			}
			line.Color = c
			line.Width = vg.Points(1.5)
			p.Add(line)
			if j == 0 && s.Name != "" {
				p.Legend.Add(s.Name, line)
			}
		}
	}
	return nil
}

// finiteSegments splits the points into runs of finite values
func finiteSegments(xs, ys []float64, transform func(x, y float64) (float64, float64)) []plotter.XYs {
	var segments []plotter.XYs
	var cur plotter.XYs
	for i := range xs {
		x, y := xs[i], ys[i]
		if transform != nil {
			x, y = transform(x, y)
		}
		if !finite(x) || !finite(y) {
			if len(cur) > 0 {
				segments = append(segments, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x, Y: y})
	}
	if len(cur) > 0 {
		segments = append(segments, cur)
	}
	return segments
}

func polarToCartesian(theta, r float64) (float64, float64) {
	return r * math.Cos(theta), r * math.Sin(theta)
}

func addHistogram(p *plot.Plot, values []float64, bins int) error {
	if bins < 1 {
		bins = 1
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return err
	}
	h.FillColor = plotutil.Color(0)
	h.LineStyle.Color = color.Black
	p.Add(h)
	p.Y.Label.Text = "Frequency"
	return nil
}

func addBox(p *plot.Plot, values []float64) error {
	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(values))
	if err != nil {
		return err
	}
	box.FillColor = plotutil.Color(0)
	p.Add(box)
	p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{})
	return nil
}

func addBars(p *plot.Plot, values []float64, labels []string) error {
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

// addPie draws one filled wedge per positive value, with a percentage label
// inside each wedge and the value labels in the legend.
func addPie(p *plot.Plot, values []float64, labels []string) error {
	var total float64
	for _, v := range values {
		total += v
	}
	if !(total > 0) {
		return fmt.Errorf("pie values must have a positive total")
	}

	var pcts plotter.XYLabels
	start := math.Pi / 2
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sweep := 2 * math.Pi * v / total

		steps := int(math.Ceil(128 * v / total))
		if steps < 2 {
			steps = 2
		}
		wedge := plotter.XYs{{X: 0, Y: 0}}
		for k := 0; k <= steps; k++ {
			a := start - sweep*float64(k)/float64(steps)
			wedge = append(wedge, plotter.XY{X: math.Cos(a), Y: math.Sin(a)})
		}

		poly, err := plotter.NewPolygon(wedge)
		if err != nil {
			return err
		}
		poly.Color = plotutil.Color(i)
		poly.LineStyle.Color = color.White
		p.Add(poly)
		p.Legend.Add(labels[i], poly)

		mid := start - sweep/2
		pcts.XYs = append(pcts.XYs, plotter.XY{X: 0.6 * math.Cos(mid), Y: 0.6 * math.Sin(mid)})
		pcts.Labels = append(pcts.Labels, fmt.Sprintf("%.1f%%", 100*v/total))

		start -= sweep
	}

	text, err := plotter.NewLabels(pcts)
	if err != nil {
		return err
	}
	p.Add(text)

	p.HideAxes()
	p.X.Min, p.X.Max = -1.2, 1.2
	p.Y.Min, p.Y.Max = -1.2, 1.2
	p.Legend.Top = true
	return nil
}

func addHeatMap(p *plot.Plot, g *Grid) {
	grid := gridXYZ{g}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range g.Z {
		for _, v := range row {
			if finite(v) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	if lo > hi {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	pal := palette.Heat(64, 1)
	colors := pal.Colors()
	hm := plotter.NewHeatMap(grid, pal)
	hm.Min, hm.Max = lo, hi
	hm.Underflow = color.White
	hm.Overflow = colors[len(colors)-1]
	p.Add(hm)
}

// gridXYZ adapts a Grid to plotter.GridXYZ. NaN cells map to -Inf so the
// heat map draws them in its underflow colour.
type gridXYZ struct {
	g *Grid
}

func (g gridXYZ) Dims() (c, r int) { return len(g.g.Xs), len(g.g.Ys) }

func (g gridXYZ) Z(c, r int) float64 {
	v := g.g.Z[r][c]
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

func (g gridXYZ) X(c int) float64 { return g.g.Xs[c] }
func (g gridXYZ) Y(r int) float64 { return g.g.Ys[r] }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
