// Package operand turns the raw text of a calculator operation into typed
// operand sets.
//
// Each operator consumes its arguments in one Shape. The extractor for a
// shape is pure: it either returns a fully populated Set or a
// calcerr FormatError (RangeError for an out-of-range percentile).
//
// Shapes:
//   - PAIR: "a op b"
//   - SINGLE: "sqrt(x)", "x!"
//   - LIST: "mean(1,2,3)"
//   - LIST_PAIR: "correlation(1,2,3;4,5,6)"
//   - LIST_SCALAR: "percentile(1,2,3;50)"
//   - LIST_LABELS: "pie(30,20,50;A,B,C)"
//   - MATRIX: "heatmap(1,2;3,4)"
//   - FUNCTION: "plot(x^2,-10,10)"
//
// A '+' or '-' in sign position (leading, after another operator or '(',
// or inside an exponent such as 1e-5) belongs to the number, so "-2 - -3"
// is the pair (-2, -3).
package operand
