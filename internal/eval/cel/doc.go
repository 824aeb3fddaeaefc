// Package cel provides a CEL (Common Expression Language) evaluator for operator
// preconditions.
//
// Every operator signature may carry guard conditions (for example "op.b != 0.0"
// for division). The dispatcher compiles each guard once when it is created,
// exposes the parsed operands as the map variable "op" and evaluates the guards
// in order; the first one that is false decides the error kind.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	cond, err := evaluator.Compile("op.x >= 0.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := cond.Eval(ctx, map[string]interface{}{"x": -4.0})
//	// ok == false
package cel
