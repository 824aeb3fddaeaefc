package engine

import (
	"context"
	"math"
	"sort"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/operand"
	"github.com/aescanero/scicalc/internal/stats"
)

// Category groups operators for listing
type Category string

const (
	CategoryArithmetic    Category = "arithmetic"
	CategoryFunction      Category = "function"
	CategoryStatistics    Category = "statistics"
	CategoryVisualization Category = "visualization"
)

// Guard is a CEL precondition on the operand facts of a signature.
// When Condition is false (or cannot be evaluated) the call fails with Kind.
type Guard struct {
	Condition string
	Kind      calcerr.Kind
	Message   string
}

type extractFunc func(raw string) (operand.Set, error)

type computeFunc func(ctx context.Context, d *Dispatcher, set operand.Set) (Result, error)

// Signature binds an operator token to its operand shape and computation
type Signature struct {
	Token    string
	Shape    operand.Shape
	Category Category
	Summary  string
	Usage    string

	guards  []Guard
	extract extractFunc
	compute computeFunc
}

// Guards returns a copy of the signature's preconditions
func (s Signature) Guards() []Guard {
	out := make([]Guard, len(s.guards))
	copy(out, s.guards)
	return out
}

var (
	// registry is written once by init and only read afterwards
	registry map[string]Signature
	// order is the registration order used for listings
	order []string

	// prefixTokens are the statistics and visualization tokens, longest first
	prefixTokens []string
)

// unaryTokens are tested in this order
var unaryTokens = []string{"sqrt", "log", "sin", "cos", "tan", "abs", "exp"}

// binaryTokens are scanned in this priority order
var binaryTokens = []byte{'+', '-', '*', '/', '^', '%'}

const factorialToken = "!"

var (
	divisorGuard = Guard{"op.b != 0.0", calcerr.KindDivisionByZero, "division by zero"}
	finiteGuard  = Guard{"op.finite", calcerr.KindDomain, "values must be finite"}
	numberGuard  = Guard{"!op.nan", calcerr.KindDomain, "operand is not a number"}
	boundsGuard  = Guard{"op.lo < op.hi", calcerr.KindRange, "lower bound must be less than upper bound"}
)

func init() {
	registry = make(map[string]Signature)

	pair := func(op byte) extractFunc {
		return func(raw string) (operand.Set, error) { return operand.Pair(raw, op) }
	}
	single := func(tok string) extractFunc {
		return func(raw string) (operand.Set, error) { return operand.Single(raw, tok) }
	}
	list := func(tok string) extractFunc {
		return func(raw string) (operand.Set, error) { return operand.List(raw, tok) }
	}
	listPair := func(tok string) extractFunc {
		return func(raw string) (operand.Set, error) { return operand.ListPair(raw, tok) }
	}
	function := func(tok string, nBounds int, vars ...string) extractFunc {
		return func(raw string) (operand.Set, error) { return operand.Function(raw, tok, vars, nBounds) }
	}

	// arithmetic
	register(Signature{Token: "+", Shape: operand.ShapePair, Category: CategoryArithmetic,
		Summary: "Addition", Usage: "2 + 3",
		extract: pair('+'), compute: pairOp(func(a, b float64) float64 { return a + b })})
	register(Signature{Token: "-", Shape: operand.ShapePair, Category: CategoryArithmetic,
		Summary: "Subtraction", Usage: "5 - 2",
		extract: pair('-'), compute: pairOp(func(a, b float64) float64 { return a - b })})
	register(Signature{Token: "*", Shape: operand.ShapePair, Category: CategoryArithmetic,
		Summary: "Multiplication", Usage: "4 * 2.5",
		extract: pair('*'), compute: pairOp(func(a, b float64) float64 { return a * b })})
	register(Signature{Token: "/", Shape: operand.ShapePair, Category: CategoryArithmetic,
		Summary: "Division", Usage: "10 / 4",
		guards:  []Guard{divisorGuard},
		extract: pair('/'), compute: pairOp(func(a, b float64) float64 { return a / b })})
	register(Signature{Token: "^", Shape: operand.ShapePair, Category: CategoryArithmetic,
		Summary: "Power", Usage: "2 ^ 10",
		guards: []Guard{
			{"!(op.a == 0.0 && op.b < 0.0)", calcerr.KindDivisionByZero, "zero cannot be raised to a negative power"},
			{"!(op.a < 0.0 && op.b_frac != 0.0)", calcerr.KindDomain, "negative base needs an integer exponent"},
		},
		extract: pair('^'), compute: pairOp(math.Pow)})
	register(Signature{Token: "%", Shape: operand.ShapePair, Category: CategoryArithmetic,
		Summary: "Modulo", Usage: "10 % 3",
		guards:  []Guard{{"op.b != 0.0", calcerr.KindDivisionByZero, "modulo by zero"}},
		extract: pair('%'), compute: pairOp(math.Mod)})

	// functions
	register(Signature{Token: "sqrt", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Square root", Usage: "sqrt(16)",
		guards:  []Guard{numberGuard, {"op.x >= 0.0", calcerr.KindDomain, "square root of a negative number"}},
		extract: single("sqrt"), compute: singleOp(math.Sqrt)})
	register(Signature{Token: "log", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Natural logarithm", Usage: "log(10)",
		guards:  []Guard{numberGuard, {"op.x > 0.0", calcerr.KindDomain, "logarithm of a non-positive number"}},
		extract: single("log"), compute: singleOp(math.Log)})
	register(Signature{Token: "sin", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Sine (radians)", Usage: "sin(1.5708)",
		guards:  []Guard{finiteGuard},
		extract: single("sin"), compute: singleOp(math.Sin)})
	register(Signature{Token: "cos", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Cosine (radians)", Usage: "cos(0)",
		guards:  []Guard{finiteGuard},
		extract: single("cos"), compute: singleOp(math.Cos)})
	register(Signature{Token: "tan", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Tangent (radians)", Usage: "tan(0.7854)",
		guards:  []Guard{finiteGuard},
		extract: single("tan"), compute: singleOp(math.Tan)})
	register(Signature{Token: "abs", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Absolute value", Usage: "abs(-7)",
		extract: single("abs"), compute: singleOp(math.Abs)})
	register(Signature{Token: "exp", Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Exponential", Usage: "exp(1)",
		extract: single("exp"), compute: singleOp(math.Exp)})
	register(Signature{Token: factorialToken, Shape: operand.ShapeSingle, Category: CategoryFunction,
		Summary: "Factorial", Usage: "5!",
		guards:  []Guard{{"op.x >= 0.0 && op.frac == 0.0", calcerr.KindDomain, "factorial needs a non-negative integer"}},
		extract: single(factorialToken), compute: singleOp(factorial)})

	// statistics
	register(Signature{Token: "mean", Shape: operand.ShapeList, Category: CategoryStatistics,
		Summary: "Arithmetic mean", Usage: "mean(1,2,3,4,5)",
		extract: list("mean"), compute: listOp(stats.Mean)})
	register(Signature{Token: "median", Shape: operand.ShapeList, Category: CategoryStatistics,
		Summary: "Median", Usage: "median(1,2,3,4,5)",
		extract: list("median"), compute: listOp(stats.Median)})
	register(Signature{Token: "mode", Shape: operand.ShapeList, Category: CategoryStatistics,
		Summary: "Most frequent value (smallest on ties)", Usage: "mode(1,2,2,3,3,3)",
		extract: list("mode"), compute: listOp(stats.Mode)})
	register(Signature{Token: "std", Shape: operand.ShapeList, Category: CategoryStatistics,
		Summary: "Population standard deviation", Usage: "std(1,2,3,4,5)",
		extract: list("std"), compute: listOp(stats.StdDev)})
	register(Signature{Token: "var", Shape: operand.ShapeList, Category: CategoryStatistics,
		Summary: "Population variance", Usage: "var(1,2,3,4,5)",
		extract: list("var"), compute: listOp(stats.Variance)})
	register(Signature{Token: "percentile", Shape: operand.ShapeListScalar, Category: CategoryStatistics,
		Summary: "Percentile with linear interpolation", Usage: "percentile(1,2,3,4,5;75)",
		extract: func(raw string) (operand.Set, error) { return operand.ListScalar(raw, "percentile") },
		compute: computePercentile})
	register(Signature{Token: "correlation", Shape: operand.ShapeListPair, Category: CategoryStatistics,
		Summary: "Pearson correlation", Usage: "correlation(1,2,3;4,5,6)",
		extract: listPair("correlation"), compute: computeCorrelation})
	register(Signature{Token: "regression", Shape: operand.ShapeListPair, Category: CategoryStatistics,
		Summary: "Linear regression", Usage: "regression(1,2,3;4,5,6)",
		guards:  []Guard{{"op.spread > 0.0", calcerr.KindDomain, "x values must not all be identical"}},
		extract: listPair("regression"), compute: computeRegression})

	// visualization
	register(Signature{Token: "plot", Shape: operand.ShapeFunction, Category: CategoryVisualization,
		Summary: "Plot f(x) over [x_min, x_max]", Usage: "plot(x^2, -10, 10)",
		guards:  []Guard{boundsGuard},
		extract: function("plot", 2, "x"), compute: visualizeFunction})
	register(Signature{Token: "scatter", Shape: operand.ShapeListPair, Category: CategoryVisualization,
		Summary: "Scatter plot of (x, y) points", Usage: "scatter(1,2,3;4,5,6)",
		guards:  []Guard{finiteGuard},
		extract: func(raw string) (operand.Set, error) { return operand.Points(raw, "scatter") },
		compute: visualizeScatter})
	register(Signature{Token: "histogram", Shape: operand.ShapeList, Category: CategoryVisualization,
		Summary: "Histogram", Usage: "histogram(1,2,2,3,3,3,4,4,5)",
		guards:  []Guard{finiteGuard},
		extract: list("histogram"), compute: visualizeHistogram})
	register(Signature{Token: "polar", Shape: operand.ShapeFunction, Category: CategoryVisualization,
		Summary: "Polar plot of r(theta) over [theta_min, theta_max]", Usage: "polar(2*sin(theta), 0, 2*pi)",
		guards:  []Guard{boundsGuard},
		extract: function("polar", 2, "theta"), compute: visualizePolar})
	register(Signature{Token: "3d", Shape: operand.ShapeFunction, Category: CategoryVisualization,
		Summary: "Surface z(x,y) over [x_min, x_max] x [y_min, y_max]", Usage: "3d(x^2+y^2, -2, 2, -2, 2)",
		guards: []Guard{
			boundsGuard,
			{"op.lo2 < op.hi2", calcerr.KindRange, "lower y bound must be less than upper y bound"},
		},
		extract: function("3d", 4, "x", "y"), compute: visualizeSurface})
	register(Signature{Token: "boxplot", Shape: operand.ShapeList, Category: CategoryVisualization,
		Summary: "Box plot", Usage: "boxplot(1,2,2,3,3,3,4,4,5)",
		guards:  []Guard{finiteGuard},
		extract: list("boxplot"), compute: visualizeBox})
	register(Signature{Token: "qqplot", Shape: operand.ShapeList, Category: CategoryVisualization,
		Summary: "Normal Q-Q plot", Usage: "qqplot(1,2,3,4,5)",
		guards:  []Guard{finiteGuard},
		extract: list("qqplot"), compute: visualizeQQ})
	register(Signature{Token: "heatmap", Shape: operand.ShapeMatrix, Category: CategoryVisualization,
		Summary: "Heat map of a matrix", Usage: "heatmap(1,2,3;4,5,6)",
		guards:  []Guard{finiteGuard},
		extract: func(raw string) (operand.Set, error) { return operand.Matrix(raw, "heatmap") },
		compute: visualizeHeatmap})
	register(Signature{Token: "pie", Shape: operand.ShapeListLabels, Category: CategoryVisualization,
		Summary: "Pie chart", Usage: "pie(30,20,50;A,B,C)",
		guards: []Guard{
			finiteGuard,
			{"op.min >= 0.0 && op.sum > 0.0", calcerr.KindDomain, "pie values must be non-negative with a positive total"},
		},
		extract: func(raw string) (operand.Set, error) { return operand.ListLabels(raw, "pie") },
		compute: visualizePie})
	register(Signature{Token: "bar", Shape: operand.ShapeListLabels, Category: CategoryVisualization,
		Summary: "Bar chart", Usage: "bar(10,20,30;A,B,C)",
		guards:  []Guard{finiteGuard},
		extract: func(raw string) (operand.Set, error) { return operand.ListLabels(raw, "bar") },
		compute: visualizeBar})

	for _, tok := range order {
		if c := registry[tok].Category; c == CategoryStatistics || c == CategoryVisualization {
			prefixTokens = append(prefixTokens, tok)
		}
	}
	sort.SliceStable(prefixTokens, func(i, j int) bool {
		return len(prefixTokens[i]) > len(prefixTokens[j])
	})
}

func register(sig Signature) {
	if _, exists := registry[sig.Token]; exists {
		panic("duplicate operator token " + sig.Token)
	}
	registry[sig.Token] = sig
	order = append(order, sig.Token)
}

// Lookup returns the signature registered for token
func Lookup(token string) (Signature, bool) {
	sig, ok := registry[token]
	return sig, ok
}

// Signatures returns every registered signature in listing order
func Signatures() []Signature {
	sigs := make([]Signature, 0, len(order))
	for _, tok := range order {
		sigs = append(sigs, registry[tok])
	}
	return sigs
}
