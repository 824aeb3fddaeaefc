package engine

import (
	"context"
	"math"

	"github.com/aescanero/scicalc/internal/operand"
	"github.com/aescanero/scicalc/internal/stats"
)

func pairOp(f func(a, b float64) float64) computeFunc {
	return func(_ context.Context, _ *Dispatcher, set operand.Set) (Result, error) {
		return numberResult(f(set.A, set.B)), nil
	}
}

func singleOp(f func(x float64) float64) computeFunc {
	return func(_ context.Context, _ *Dispatcher, set operand.Set) (Result, error) {
		return numberResult(f(set.A)), nil
	}
}

func listOp(f func(xs []float64) float64) computeFunc {
	return func(_ context.Context, _ *Dispatcher, set operand.Set) (Result, error) {
		return numberResult(f(set.Values)), nil
	}
}

// factorial of a non-negative integer value; +Inf past 170!
func factorial(n float64) float64 {
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
		if math.IsInf(result, 1) {
			break
		}
	}
	return result
}

func computePercentile(_ context.Context, _ *Dispatcher, set operand.Set) (Result, error) {
	return numberResult(stats.Percentile(set.Values, set.Scalar)), nil
}

func computeCorrelation(_ context.Context, _ *Dispatcher, set operand.Set) (Result, error) {
	return numberResult(stats.Correlation(set.Values, set.Others)), nil
}

func computeRegression(_ context.Context, _ *Dispatcher, set operand.Set) (Result, error) {
	return regressionResult(stats.LinearRegression(set.Values, set.Others)), nil
}
