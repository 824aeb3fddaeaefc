// Package chart describes calculator charts as plain data (Spec) and draws
// them through a Renderer.
//
// PlotRenderer is the gonum/plot backend. It writes the format implied by
// the file extension (png, svg, pdf, jpg). Surfaces are drawn as heat maps
// since gonum/plot has no 3-D projection.
package chart
