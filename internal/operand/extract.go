package operand

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/eval/expr"
)

// Pair splits "a op b" on the single binary occurrence of op.
func Pair(raw string, op byte) (Set, error) {
	token := string(op)
	s := strings.TrimSpace(raw)

	idx, n := binaryIndex(s, op)
	if n != 1 {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "expected exactly one %q between two numbers, got %d", token, n)
	}

	left := strings.TrimSpace(s[:idx])
	right := strings.TrimSpace(s[idx+1:])
	if left == "" || right == "" {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "expected two operands around %q", token)
	}

	a, err := parseNumber(token, left)
	if err != nil {
		return Set{}, err
	}
	b, err := parseNumber(token, right)
	if err != nil {
		return Set{}, err
	}
	return Set{Shape: ShapePair, A: a, B: b}, nil
}

// Single strips the function token (or the factorial suffix "!") and any
// enclosing parentheses and parses the remainder.
func Single(raw, token string) (Set, error) {
	s := strings.TrimSpace(raw)
	if token == "!" {
		s = strings.TrimSuffix(s, "!")
	} else {
		s = strings.TrimPrefix(s, token)
	}
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "()"))

	x, err := parseNumber(token, s)
	if err != nil {
		return Set{}, err
	}
	return Set{Shape: ShapeSingle, A: x}, nil
}

// List parses "token(v1,v2,...)".
func List(raw, token string) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	values, err := ParseList(inner)
	if err != nil {
		return Set{}, calcerr.WithOp(err, token)
	}
	return Set{Shape: ShapeList, Values: values}, nil
}

// ListPair parses "token(xs;ys)". Both lists must have the same length.
func ListPair(raw, token string) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	parts := strings.Split(inner, ";")
	if len(parts) != 2 {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "expected two lists separated by ';', got %d segments", len(parts))
	}

	xs, err := ParseList(parts[0])
	if err != nil {
		return Set{}, calcerr.WithOp(err, token)
	}
	ys, err := ParseList(parts[1])
	if err != nil {
		return Set{}, calcerr.WithOp(err, token)
	}
	if len(xs) != len(ys) {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "lists have different lengths (%d and %d)", len(xs), len(ys))
	}
	return Set{Shape: ShapeListPair, Values: xs, Others: ys}, nil
}

// Points parses "token(xs;ys)" or, without a ';', the interleaved form
// "token(x1,y1,x2,y2,...)".
func Points(raw, token string) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	if strings.Contains(inner, ";") {
		return ListPair(raw, token)
	}

	coords, err := ParseList(inner)
	if err != nil {
		return Set{}, calcerr.WithOp(err, token)
	}
	if len(coords)%2 != 0 {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "odd number of coordinates (%d)", len(coords))
	}
	xs := make([]float64, 0, len(coords)/2)
	ys := make([]float64, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		xs = append(xs, coords[i])
		ys = append(ys, coords[i+1])
	}
	return Set{Shape: ShapeListPair, Values: xs, Others: ys}, nil
}

// ListScalar parses "token(values;p)" with p in [0, 100].
func ListScalar(raw, token string) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	parts := strings.Split(inner, ";")
	if len(parts) != 2 {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "expected values and a percentile separated by ';'")
	}

	values, err := ParseList(parts[0])
	if err != nil {
		return Set{}, calcerr.WithOp(err, token)
	}
	p, err := parseNumber(token, strings.TrimSpace(parts[1]))
	if err != nil {
		return Set{}, err
	}
	if !(p >= 0 && p <= 100) {
		return Set{}, calcerr.New(calcerr.KindRange, token, "percentile must be between 0 and 100, got %v", p)
	}
	return Set{Shape: ShapeListScalar, Values: values, Scalar: p}, nil
}

// ListLabels parses "token(values;labels)" with one label per value.
func ListLabels(raw, token string) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	parts := strings.Split(inner, ";")
	if len(parts) != 2 {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "expected values and labels separated by ';'")
	}

	values, err := ParseList(parts[0])
	if err != nil {
		return Set{}, calcerr.WithOp(err, token)
	}
	labels := strings.Split(parts[1], ",")
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	if len(labels) != len(values) {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "%d values but %d labels", len(values), len(labels))
	}
	return Set{Shape: ShapeListLabels, Values: values, Labels: labels}, nil
}

// Matrix parses "token(row;row;...)". Rows must all have the same length.
func Matrix(raw, token string) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	if strings.TrimSpace(inner) == "" {
		return Set{}, calcerr.New(calcerr.KindFormat, token, "matrix has no rows")
	}

	segments := strings.Split(inner, ";")
	rows := make([][]float64, 0, len(segments))
	for i, seg := range segments {
		row, err := ParseList(seg)
		if err != nil {
			return Set{}, calcerr.Wrap(calcerr.KindFormat, token, err, "row %d", i+1)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return Set{}, calcerr.New(calcerr.KindFormat, token,
				"ragged matrix: row %d has %d values, row 1 has %d", i+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	return Set{Shape: ShapeMatrix, Rows: rows}, nil
}

// Function parses "token(expression, b1, ..., bn)". The bounds are taken from
// the right and are constant expressions; the expression is compiled with vars
// as its only free variables.
func Function(raw, token string, vars []string, nBounds int) (Set, error) {
	inner, err := Interior(raw, token)
	if err != nil {
		return Set{}, err
	}
	parts := strings.Split(inner, ",")
	if len(parts) < nBounds+1 {
		return Set{}, calcerr.New(calcerr.KindFormat, token,
			"expected an expression in %s followed by %d bounds", strings.Join(vars, ","), nBounds)
	}

	split := len(parts) - nBounds
	bounds := make([]float64, 0, nBounds)
	for _, part := range parts[split:] {
		b, err := expr.Constant(part)
		if err != nil {
			return Set{}, calcerr.Wrap(calcerr.KindFormat, token, err, "invalid bound %q", strings.TrimSpace(part))
		}
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return Set{}, calcerr.New(calcerr.KindFormat, token, "bound %q is not finite", strings.TrimSpace(part))
		}
		bounds = append(bounds, b)
	}

	src := strings.TrimSpace(strings.Join(parts[:split], ","))
	prog, err := expr.Compile(src, vars...)
	if err != nil {
		return Set{}, calcerr.Wrap(calcerr.KindFormat, token, err, "invalid expression %q", src)
	}
	return Set{Shape: ShapeFunction, Func: prog, Bounds: bounds}, nil
}

// Interior returns the text between "token(" and the closing ")".
func Interior(raw, token string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, token) {
		return "", calcerr.New(calcerr.KindFormat, token, "expected %s(...)", token)
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, token))
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return "", calcerr.New(calcerr.KindFormat, token, "expected %s(...)", token)
	}
	return s[1 : len(s)-1], nil
}

// ParseList parses "v1,v2,..." in order. An empty list is an error.
func ParseList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, calcerr.New(calcerr.KindFormat, "", "empty list")
	}
	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := parseNumber("", strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// FormatList renders values in the canonical form ParseList accepts
func FormatList(values []float64) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(strs, ",")
}

// HasBinary reports whether op occurs in s as a binary operator
func HasBinary(s string, op byte) bool {
	_, n := binaryIndex(s, op)
	return n > 0
}

// binaryIndex returns the index of the first binary occurrence of op in s and
// the number of binary occurrences. A '+' or '-' in sign position is not binary.
func binaryIndex(s string, op byte) (int, int) {
	first, count := -1, 0
	for i := 0; i < len(s); i++ {
		if s[i] != op {
			continue
		}
		if (op == '+' || op == '-') && isSign(s, i) {
			continue
		}
		if first < 0 {
			first = i
		}
		count++
	}
	return first, count
}

func isSign(s string, i int) bool {
	// exponent sign: 1e-5, 2.5E+3
	if i >= 2 && (s[i-1] == 'e' || s[i-1] == 'E') && (isDigit(s[i-2]) || s[i-2] == '.') {
		return true
	}
	j := i - 1
	for j >= 0 && (s[j] == ' ' || s[j] == '\t') {
		j--
	}
	if j < 0 {
		return true
	}
	return strings.IndexByte("+-*/^%(", s[j]) >= 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseNumber(token, s string) (float64, error) {
	if s == "" {
		return 0, calcerr.New(calcerr.KindFormat, token, "missing number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, calcerr.New(calcerr.KindFormat, token, "invalid number %q", s)
	}
	return v, nil
}
