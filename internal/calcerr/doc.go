// Package calcerr defines the error taxonomy shared by the operand extractor,
// the dispatcher and the outer boundaries (REPL, stream worker).
//
// Every expected failure is an *Error carrying a Kind. Callers classify with
// errors.Is against the sentinel values or with KindOf:
//
//	_, err := dispatcher.Evaluate(ctx, "sqrt(-1)")
//	if errors.Is(err, calcerr.ErrDomain) {
//	    // negative operand
//	}
//
// Anything that is not an *Error is unexpected and must be reported as such.
package calcerr
