package engine

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/operand"
)

// checkGuards evaluates the signature's preconditions in order. The first
// guard that is false, or that fails to evaluate (NaN comparisons), decides
// the error.
func (d *Dispatcher) checkGuards(ctx context.Context, sig Signature, set operand.Set) error {
	if len(sig.guards) == 0 {
		return nil
	}
	facts := operandFacts(set)
	conditions := d.guards[sig.Token]

	for i, guard := range sig.guards {
		ok, err := conditions[i].Eval(ctx, facts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			d.logger.Debug("guard evaluation error",
				zap.String("operator", sig.Token),
				zap.Int("guard_index", i),
				zap.String("condition", guard.Condition),
				zap.Error(err),
			)
			ok = false
		}

		if !ok {
			d.logger.Debug("guard rejected operands",
				zap.String("operator", sig.Token),
				zap.Int("guard_index", i),
				zap.String("condition", guard.Condition),
			)
			return calcerr.New(guard.Kind, sig.Token, "%s", guard.Message)
		}
	}
	return nil
}

// operandFacts exposes an operand set to guard conditions as the "op" map
func operandFacts(set operand.Set) map[string]interface{} {
	switch set.Shape {
	case operand.ShapePair:
		return map[string]interface{}{
			"a":      set.A,
			"b":      set.B,
			"b_frac": frac(set.B),
		}
	case operand.ShapeSingle:
		return map[string]interface{}{
			"x":      set.A,
			"frac":   frac(set.A),
			"finite": isFinite(set.A),
			"nan":    math.IsNaN(set.A),
		}
	case operand.ShapeFunction:
		facts := map[string]interface{}{}
		names := []string{"lo", "hi", "lo2", "hi2"}
		for i, b := range set.Bounds {
			if i < len(names) {
				facts[names[i]] = b
			}
		}
		return facts
	}

	values := append([]float64(nil), set.Values...)
	values = append(values, set.Others...)
	for _, row := range set.Rows {
		values = append(values, row...)
	}

	finite := true
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, v := range values {
		finite = finite && isFinite(v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}

	// spread covers the first list only: the x values of a pair of lists
	spread := 0.0
	if len(set.Values) > 0 {
		xlo, xhi := set.Values[0], set.Values[0]
		for _, v := range set.Values[1:] {
			xlo = math.Min(xlo, v)
			xhi = math.Max(xhi, v)
		}
		spread = xhi - xlo
	}

	return map[string]interface{}{
		"n":      float64(len(values)),
		"finite": finite,
		"min":    lo,
		"max":    hi,
		"sum":    sum,
		"spread": spread,
	}
}

func frac(x float64) float64 {
	return x - math.Trunc(x)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
