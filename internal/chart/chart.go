package chart

import (
	"context"
	"fmt"
)

// Kind identifies a chart type
type Kind string

const (
	// KindLine is a function curve y = f(x)
	KindLine Kind = "line"
	// KindScatter is a set of (x, y) points
	KindScatter Kind = "scatter"
	// KindHistogram bins Values into Bins buckets
	KindHistogram Kind = "histogram"
	// KindPolar draws series whose X is the angle and Y the radius
	KindPolar Kind = "polar"
	// KindSurface is z = f(x, y) drawn as a colour-mapped grid
	KindSurface Kind = "surface"
	// KindBox summarises Values as a box plot
	KindBox Kind = "box"
	// KindQQ is a quantile-quantile plot: sample points plus fit line
	KindQQ Kind = "qq"
	// KindHeatmap draws a matrix as coloured cells
	KindHeatmap Kind = "heatmap"
	// KindPie draws Values as labelled wedges
	KindPie Kind = "pie"
	// KindBar draws Values as labelled bars
	KindBar Kind = "bar"
)

// Series is a named sequence of points
type Series struct {
	Name string
	X, Y []float64
	// Points draws markers instead of a connected line
	Points bool
}

// Grid is a rectangular sample of z over Xs (columns) and Ys (rows)
type Grid struct {
	Xs, Ys []float64
	// Z[row][col] is the value at (Xs[col], Ys[row])
	Z [][]float64
}

// Spec describes one chart independently of the drawing backend
type Spec struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	Series []Series
	Values []float64
	Labels []string
	Bins   int
	Grid   *Grid
}

// Renderer draws a chart to a file. The file format follows the path extension.
type Renderer interface {
	Render(ctx context.Context, spec Spec, path string) error
}

// Validate checks that the fields needed by its kind are consistent
func (s Spec) Validate() error {
	switch s.Kind {
	case KindLine, KindScatter, KindPolar, KindQQ:
		if len(s.Series) == 0 {
			return fmt.Errorf("%s chart needs at least one series", s.Kind)
		}
		for _, series := range s.Series {
			if len(series.X) != len(series.Y) {
				return fmt.Errorf("series %q has %d x values and %d y values", series.Name, len(series.X), len(series.Y))
			}
		}
	case KindHistogram, KindBox:
		if len(s.Values) == 0 {
			return fmt.Errorf("%s chart needs values", s.Kind)
		}
	case KindPie, KindBar:
		if len(s.Values) == 0 {
			return fmt.Errorf("%s chart needs values", s.Kind)
		}
		if len(s.Labels) != len(s.Values) {
			return fmt.Errorf("%s chart has %d values and %d labels", s.Kind, len(s.Values), len(s.Labels))
		}
	case KindHeatmap, KindSurface:
		if s.Grid == nil || len(s.Grid.Z) == 0 {
			return fmt.Errorf("%s chart needs a grid", s.Kind)
		}
		if len(s.Grid.Ys) != len(s.Grid.Z) {
			return fmt.Errorf("grid has %d rows and %d y values", len(s.Grid.Z), len(s.Grid.Ys))
		}
		for i, row := range s.Grid.Z {
			if len(row) != len(s.Grid.Xs) {
				return fmt.Errorf("grid row %d has %d values, want %d", i, len(row), len(s.Grid.Xs))
			}
		}
	default:
		return fmt.Errorf("unknown chart kind %q", s.Kind)
	}
	return nil
}
