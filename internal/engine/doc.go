// Package engine recognises calculator operations and evaluates them.
//
// The operator registry is built once at package initialisation and never
// modified. Dispatcher.Evaluate matches a raw string against it, extracts the
// operands in the signature's shape, checks the signature's CEL guards and
// runs the computation:
//
//	d, err := engine.NewDispatcher(chart.NewPlotRenderer(), engine.DefaultSettings(), logger)
//	if err != nil {
//	    return err
//	}
//	res, err := d.Evaluate(ctx, "regression(1,2,3;4,5,6)")
//
// Matching order: statistics and visualization tokens by prefix (longest
// first), the unary functions sqrt log sin cos tan abs exp, a trailing "!",
// then the first of + - * / ^ % that occurs as a binary operator. A string
// with several operators is resolved by that priority, not by position or
// precedence: "2+3*4" is the sum of "2" and "3*4" and fails to parse.
//
// Failures are *calcerr.Error values; visualization failures from the
// renderer are wrapped as RenderError.
package engine
