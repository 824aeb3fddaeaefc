package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// evaluations counts evaluations by operator and outcome ("ok" or an error kind)
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scicalc",
		Subsystem: "engine",
		Name:      "evaluations_total",
		Help:      "Total evaluations by operator and outcome",
	}, []string{"operator", "outcome"})

	// evaluationDuration measures evaluation latency, rendering included
	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scicalc",
		Subsystem: "engine",
		Name:      "evaluation_duration_seconds",
		Help:      "Evaluation latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
	}, []string{"operator"})

	// chartsRendered counts charts written by kind
	chartsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scicalc",
		Subsystem: "engine",
		Name:      "charts_rendered_total",
		Help:      "Total charts written by chart kind",
	}, []string{"kind"})
)

// unmatchedOperator labels evaluations that matched no operator
const unmatchedOperator = "none"

func recordEvaluation(operator, outcome string, elapsed time.Duration) {
	evaluations.WithLabelValues(operator, outcome).Inc()
	evaluationDuration.WithLabelValues(operator).Observe(elapsed.Seconds())
}

func recordChart(kind string) {
	chartsRendered.WithLabelValues(kind).Inc()
}
