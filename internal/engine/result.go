package engine

import (
	"fmt"
	"strconv"

	"github.com/aescanero/scicalc/internal/chart"
	"github.com/aescanero/scicalc/internal/stats"
)

// ResultKind tags which field of a Result is set
type ResultKind string

const (
	// ResultNumber carries a single value in Number
	ResultNumber ResultKind = "number"
	// ResultRegression carries a line fit in Regression
	ResultRegression ResultKind = "regression"
	// ResultRender carries a chart acknowledgement in Render
	ResultRender ResultKind = "render"
)

// RenderAck confirms that a chart was written
type RenderAck struct {
	Chart   chart.Kind `json:"chart"`
	Path    string     `json:"path"`
	Message string     `json:"message"`
}

// Result is the outcome of one successful evaluation
type Result struct {
	Operator   string
	Kind       ResultKind
	Number     float64
	Regression stats.Regression
	Render     RenderAck
}

func numberResult(v float64) Result {
	return Result{Kind: ResultNumber, Number: v}
}

func regressionResult(r stats.Regression) Result {
	return Result{Kind: ResultRegression, Regression: r}
}

func renderResult(ack RenderAck) Result {
	return Result{Kind: ResultRender, Render: ack}
}

// String renders the result value without decoration
func (r Result) String() string {
	switch r.Kind {
	case ResultNumber:
		return FormatNumber(r.Number)
	case ResultRegression:
		return fmt.Sprintf("slope=%s, intercept=%s, r_squared=%s, p_value=%s, std_err=%s",
			FormatNumber(r.Regression.Slope),
			FormatNumber(r.Regression.Intercept),
			FormatNumber(r.Regression.RSquared),
			FormatNumber(r.Regression.PValue),
			FormatNumber(r.Regression.StdErr),
		)
	case ResultRender:
		return r.Render.Message
	default:
		return ""
	}
}

// Fields returns the named values of the result, in display order
func (r Result) Fields() []Field {
	switch r.Kind {
	case ResultNumber:
		return []Field{{"value", r.Number}}
	case ResultRegression:
		return []Field{
			{"slope", r.Regression.Slope},
			{"intercept", r.Regression.Intercept},
			{"r_squared", r.Regression.RSquared},
			{"p_value", r.Regression.PValue},
			{"std_err", r.Regression.StdErr},
		}
	default:
		return nil
	}
}

// Field is one named numeric component of a result
type Field struct {
	Name  string
	Value float64
}

// FormatNumber renders v in its shortest exact decimal form
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
