package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Regression is the result of a least-squares line fit y = Slope*x + Intercept
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	// PValue is the two-sided probability of a zero slope
	PValue float64 `json:"p_value"`
	StdErr float64 `json:"std_err"`
}

// Mean returns the arithmetic mean
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Median returns the middle value, the average of the two middle values for even counts
func Median(xs []float64) float64 {
	return Percentile(xs, 50)
}

// Mode returns the most frequent value. Ties resolve to the smallest value.
func Mode(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(xs)

	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		// strict > keeps the first (smallest) value of equal runs
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		if j == i {
			j++ // NaN never equals itself
		}
		i = j
	}
	return best
}

// StdDev returns the population standard deviation
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(xs, nil)
	return std
}

// Variance returns the population variance
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	_, variance := stat.PopMeanVariance(xs, nil)
	return variance
}

// Percentile returns the p-th percentile (0..100), interpolating linearly
// between the closest ranks.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(xs)

	h := float64(len(sorted)-1) * p / 100
	lo := math.Floor(h)
	hi := math.Ceil(h)
	vlo := sorted[int(lo)]
	vhi := sorted[int(hi)]
	return vlo + (h-lo)*(vhi-vlo)
}

// Correlation returns the Pearson correlation coefficient
func Correlation(xs, ys []float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// LinearRegression fits ys against xs by ordinary least squares
func LinearRegression(xs, ys []float64) Regression {
	if len(xs) == 0 || len(xs) != len(ys) {
		nan := math.NaN()
		return Regression{nan, nan, nan, nan, nan}
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	reg := Regression{Slope: slope, Intercept: intercept, RSquared: r2}

	df := float64(len(xs) - 2)
	if df <= 0 {
		reg.PValue = math.NaN()
		reg.StdErr = math.NaN()
		return reg
	}

	r := Correlation(xs, ys)
	if math.Abs(r) >= 1 {
		reg.PValue = 0
		reg.StdErr = 0
		return reg
	}

	t := r * math.Sqrt(df/((1-r)*(1+r)))
	student := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	reg.PValue = 2 * student.CDF(-math.Abs(t))
	reg.StdErr = math.Sqrt((1 - r*r) * stat.Variance(ys, nil) / stat.Variance(xs, nil) / df)
	return reg
}

// QQ pairs the sorted sample with the unit normal quantiles of its Filliben
// order-statistic medians and fits a line through them.
func QQ(xs []float64) (theoretical, sample []float64, fit Regression) {
	sample = sortedCopy(xs)
	n := len(sample)
	theoretical = make([]float64, n)
	if n == 0 {
		return theoretical, sample, LinearRegression(nil, nil)
	}

	last := math.Pow(0.5, 1/float64(n))
	for i := range theoretical {
		var m float64
		switch {
		case i == n-1:
			m = last
		case i == 0:
			m = 1 - last
		default:
			m = (float64(i+1) - 0.3175) / (float64(n) + 0.365)
		}
		theoretical[i] = distuv.UnitNormal.Quantile(m)
	}

	intercept, slope := stat.LinearRegression(theoretical, sample, nil, false)
	fit = Regression{Slope: slope, Intercept: intercept}
	fit.RSquared = stat.RSquared(theoretical, sample, nil, intercept, slope)
	return theoretical, sample, fit
}

// SturgesBins returns the histogram bin count ceil(log2(n)) + 1
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Sum returns the sum of xs
func Sum(xs []float64) float64 {
	return floats.Sum(xs)
}

// Min returns the smallest element, NaN for an empty slice
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Min(xs)
}

// Max returns the largest element, NaN for an empty slice
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Max(xs)
}

// Span returns evenly spaced values from lo to hi inclusive
func Span(n int, lo, hi float64) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
