package cel

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, cond string, vars map[string]interface{}) (bool, error) {
	t.Helper()
	c, err := NewEvaluator().Compile(cond)
	require.NoError(t, err, cond)
	return c.Eval(context.Background(), vars)
}

func TestCondition_Guards(t *testing.T) {
	cases := []struct {
		cond string
		vars map[string]interface{}
		want bool
	}{
		{"op.b != 0.0", map[string]interface{}{"a": 1.0, "b": 0.0}, false},
		{"op.b != 0.0", map[string]interface{}{"a": 1.0, "b": 2.0}, true},
		{"op.x >= 0.0", map[string]interface{}{"x": -4.0}, false},
		{"op.x > 0.0", map[string]interface{}{"x": 0.0}, false},
		{"op.x >= 0.0 && op.frac == 0.0", map[string]interface{}{"x": 5.0, "frac": 0.0}, true},
		{"op.x >= 0.0 && op.frac == 0.0", map[string]interface{}{"x": 2.5, "frac": 0.5}, false},
		{"op.lo < op.hi", map[string]interface{}{"lo": -10.0, "hi": 10.0}, true},
		{"!op.nan", map[string]interface{}{"nan": true}, false},
		{"op.finite", map[string]interface{}{"finite": true}, true},
	}
	for _, tc := range cases {
		got, err := eval(t, tc.cond, tc.vars)
		require.NoError(t, err, tc.cond)
		assert.Equal(t, tc.want, got, tc.cond)
	}
}

// NaN cannot be ordered: the comparison either errors or is false, never true.
func TestCondition_NaNNeverPassesOrderedComparison(t *testing.T) {
	ok, err := eval(t, "op.x >= 0.0", map[string]interface{}{"x": math.NaN()})
	assert.True(t, err != nil || !ok)
}

func TestCondition_NonBooleanAtRuntime(t *testing.T) {
	_, err := eval(t, "op.x", map[string]interface{}{"x": 1.0})
	assert.ErrorContains(t, err, "not bool")
}

func TestCondition_MissingFact(t *testing.T) {
	_, err := eval(t, "op.missing > 0.0", map[string]interface{}{"x": 1.0})
	assert.Error(t, err)
}

func TestCondition_CancelledContext(t *testing.T) {
	c, err := NewEvaluator().Compile("op.b != 0.0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Eval(ctx, map[string]interface{}{"b": 1.0})
	// a trivial program may finish before observing cancellation
	if err != nil {
		assert.Error(t, ctx.Err())
	}
}

func TestCompile(t *testing.T) {
	e := NewEvaluator()

	c, err := e.Compile("op.lo < op.hi && op.lo2 < op.hi2")
	require.NoError(t, err)
	assert.Equal(t, "op.lo < op.hi && op.lo2 < op.hi2", c.String())

	_, err = e.Compile("op.x >=")
	assert.ErrorContains(t, err, "parse error")

	_, err = e.Compile("'text'")
	assert.ErrorContains(t, err, "want bool")
}
