package expr

import "math"

type node interface {
	eval(vars []float64) float64
}

type nodeNumber struct {
	v float64
}

func (n nodeNumber) eval([]float64) float64 { return n.v }

type nodeVar struct {
	name string
	slot int
}

func (n nodeVar) eval(vars []float64) float64 { return vars[n.slot] }

type nodeUnary struct {
	op byte
	x  node
}

func (n nodeUnary) eval(vars []float64) float64 {
	v := n.x.eval(vars)
	if n.op == '-' {
		return -v
	}
	return v
}

type nodeBinary struct {
	op          byte
	left, right node
}

func (n nodeBinary) eval(vars []float64) float64 {
	a := n.left.eval(vars)
	b := n.right.eval(vars)
	switch n.op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		// IEEE: x/0 is ±Inf and 0/0 is NaN, both rendered as gaps
		return a / b
	case '^':
		return math.Pow(a, b)
	}
	return math.NaN()
}

type nodeCall struct {
	name string
	fn   func(float64) float64
	arg  node
}

func (n nodeCall) eval(vars []float64) float64 { return n.fn(n.arg.eval(vars)) }
