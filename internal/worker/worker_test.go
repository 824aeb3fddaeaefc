package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/chart"
	"github.com/aescanero/scicalc/internal/config"
	"github.com/aescanero/scicalc/internal/engine"
	"github.com/aescanero/scicalc/internal/history"
)

type published struct {
	stream string
	event  interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, stream string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.events = append(p.events, published{stream: stream, event: event})
	return p.err
}

func (p *fakePublisher) published() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (r *fakeRecorder) Record(_ context.Context, e history.Entry) (history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return e, nil
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, chart.Spec, string) error { return nil }

type panicEvaluator struct{}

func (panicEvaluator) Evaluate(context.Context, string) (engine.Result, error) {
	panic("index out of range")
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestWorker(t *testing.T, eval Evaluator) (*Worker, *fakePublisher, *fakeRecorder) {
	t.Helper()
	cfg := &config.Config{
		WorkerID:      "calc-test",
		StreamKey:     "calc.requests",
		ConsumerGroup: "calc-workers",
		ResultStream:  "calc.results",
		BlockTime:     time.Second,
	}
	if eval == nil {
		settings := engine.DefaultSettings()
		settings.OutputDir = "/charts"
		d, err := engine.NewDispatcher(nopRenderer{}, settings, nil)
		require.NoError(t, err)
		eval = d
	}

	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	w := NewWorker(cfg, nil, eval, pub, rec, zap.NewNop())
	w.now = func() time.Time { return fixedNow }
	return w, pub, rec
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest(map[string]interface{}{
		"data": `{"request_id":"r-1","operation":"2 + 3"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", req.RequestID)
	assert.Equal(t, "2 + 3", req.Operation)
	assert.Equal(t, "r-1", req.OutputID)

	req, err = parseRequest(map[string]interface{}{
		"data": `{"operation":"sqrt(16)","output_id":"job"}`,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.RequestID)
	assert.Equal(t, "job", req.OutputID)
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []map[string]interface{}{
		{},
		{"data": 42},
		{"data": "{not json"},
		{"data": `{"request_id":"r-1","operation":"   "}`},
	}
	for _, values := range tests {
		_, err := parseRequest(values)
		assert.Error(t, err, values)
	}
}

func TestProcess_Number(t *testing.T) {
	w, pub, rec := newTestWorker(t, nil)

	err := w.process(context.Background(), &Request{RequestID: "r-1", Operation: "2 ^ 10", OutputID: "r-1"})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "calc.results", pub.events[0].stream)
	event := pub.events[0].event.(ResultEvent)
	assert.Equal(t, ResultEvent{
		RequestID: "r-1",
		WorkerID:  "calc-test",
		Operation: "2 ^ 10",
		Operator:  "^",
		Kind:      "number",
		Result:    "1024",
		Timestamp: fixedNow,
	}, event)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, history.OutcomeOK, rec.entries[0].Outcome)
	assert.Equal(t, "1024", rec.entries[0].Result)
}

func TestProcess_RegressionFields(t *testing.T) {
	w, pub, _ := newTestWorker(t, nil)

	err := w.process(context.Background(), &Request{RequestID: "r-2", Operation: "regression(1,2,3;2,4,6)"})
	require.NoError(t, err)

	event := pub.events[0].event.(ResultEvent)
	assert.Equal(t, "regression", event.Kind)
	assert.Len(t, event.Fields, 5)
	for _, name := range []string{"slope", "intercept", "r_squared", "p_value", "std_err"} {
		assert.Contains(t, event.Fields, name)
	}
}

func TestProcess_ChartUsesOutputID(t *testing.T) {
	w, pub, _ := newTestWorker(t, nil)

	err := w.process(context.Background(), &Request{RequestID: "r-3", Operation: "bar(1,2;a,b)", OutputID: "r-3"})
	require.NoError(t, err)

	event := pub.events[0].event.(ResultEvent)
	assert.Equal(t, "render", event.Kind)
	assert.Equal(t, "/charts/r-3_bar_chart.png", event.ChartPath)
	assert.Equal(t, "Chart saved to '/charts/r-3_bar_chart.png'", event.Result)
}

func TestProcess_ExpectedError(t *testing.T) {
	w, pub, rec := newTestWorker(t, nil)

	err := w.process(context.Background(), &Request{RequestID: "r-4", Operation: "5 / 0"})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "calc.results.errors", pub.events[0].stream)
	event := pub.events[0].event.(ErrorEvent)
	assert.Equal(t, "DivisionByZeroError", event.ErrorKind)
	assert.Contains(t, event.Error, "division by zero")
	assert.NotContains(t, event.Error, "Unexpected")

	assert.Equal(t, "DivisionByZeroError", rec.entries[0].Outcome)
}

func TestProcess_PanicIsUnexpected(t *testing.T) {
	w, pub, rec := newTestWorker(t, panicEvaluator{})

	err := w.process(context.Background(), &Request{RequestID: "r-5", Operation: "2 + 2"})
	require.NoError(t, err)

	event := pub.events[0].event.(ErrorEvent)
	assert.Equal(t, "UnexpectedError", event.ErrorKind)
	assert.Equal(t, "Unexpected error: panic during evaluation: index out of range", event.Error)
	assert.Equal(t, "UnexpectedError", rec.entries[0].Outcome)
}

func TestProcess_PublishFailure(t *testing.T) {
	w, pub, _ := newTestWorker(t, nil)
	pub.err = errors.New("connection refused")

	err := w.process(context.Background(), &Request{RequestID: "r-6", Operation: "1 + 1"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestProcess_WithoutRecorder(t *testing.T) {
	w, pub, _ := newTestWorker(t, nil)
	w.recorder = nil

	require.NoError(t, w.process(context.Background(), &Request{RequestID: "r-7", Operation: "abs(-2)"}))
	assert.Len(t, pub.events, 1)
}
