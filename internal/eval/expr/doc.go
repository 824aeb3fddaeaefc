// Package expr implements the small arithmetic language used by the plotting
// operators (plot, polar, 3d) to describe the function being sampled.
//
// Expressions are tokenized, parsed by recursive descent and compiled into a
// tree that is evaluated once per sample. Nothing outside the grammar can be
// executed.
//
// Example usage:
//
//	prog, err := expr.Compile("x^2 + 2*sin(x)", "x")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y := prog.Eval(1.5)
//
// Supported syntax:
//   - Numbers: 3, 2.5, .5, 1e-3
//   - Operators: + - * / ^ (power is right associative), unary + and -
//   - Functions: sqrt, log, sin, cos, tan, abs, exp
//   - Constants: pi, e
//   - Variables declared at compile time
package expr
