package operand

import (
	"fmt"

	"github.com/aescanero/scicalc/internal/eval/expr"
)

// Shape is the structural pattern an operator's textual arguments follow
type Shape int

const (
	// ShapePair is "a op b"
	ShapePair Shape = iota
	// ShapeSingle is "tok(x)" or "x!"
	ShapeSingle
	// ShapeList is "tok(v1,v2,...)"
	ShapeList
	// ShapeListPair is "tok(x1,x2,...;y1,y2,...)"
	ShapeListPair
	// ShapeListScalar is "tok(v1,v2,...;p)"
	ShapeListScalar
	// ShapeListLabels is "tok(v1,v2,...;l1,l2,...)"
	ShapeListLabels
	// ShapeMatrix is "tok(r1c1,r1c2;r2c1,r2c2;...)"
	ShapeMatrix
	// ShapeFunction is "tok(expression, bound, bound, ...)"
	ShapeFunction
)

var shapeNames = map[Shape]string{
	ShapePair:       "PAIR",
	ShapeSingle:     "SINGLE",
	ShapeList:       "LIST",
	ShapeListPair:   "LIST_PAIR",
	ShapeListScalar: "LIST_SCALAR",
	ShapeListLabels: "LIST_LABELS",
	ShapeMatrix:     "MATRIX",
	ShapeFunction:   "FUNCTION",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Set holds the operands parsed for one shape. Only the fields of Shape are set.
type Set struct {
	Shape Shape

	// A and B are the PAIR operands; A alone is the SINGLE operand
	A, B float64

	// Values is the LIST, the first list of LIST_PAIR, and the list part of
	// LIST_SCALAR and LIST_LABELS
	Values []float64
	// Others is the second list of LIST_PAIR
	Others []float64
	Scalar float64
	// Labels pair positionally with Values
	Labels []string
	Rows   [][]float64

	Func   *expr.Program
	Bounds []float64
}
