package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/chart"
)

// fakeRenderer records every chart it is asked to draw
type fakeRenderer struct {
	mu    sync.Mutex
	specs []chart.Spec
	paths []string
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, spec chart.Spec, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.specs = append(f.specs, spec)
	f.paths = append(f.paths, path)
	return nil
}

func (f *fakeRenderer) last(t *testing.T) (chart.Spec, string) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.specs, "nothing rendered")
	return f.specs[len(f.specs)-1], f.paths[len(f.paths)-1]
}

func newTestDispatcher(t *testing.T, r chart.Renderer) *Dispatcher {
	t.Helper()
	settings := DefaultSettings()
	settings.OutputDir = "/tmp/charts"
	settings.PlotSamples = 11
	settings.SurfaceSamples = 5

	d, err := NewDispatcher(r, settings, zap.NewNop())
	require.NoError(t, err)
	return d
}
