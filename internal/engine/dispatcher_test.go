package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/calcerr"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		raw   string
		token string
	}{
		{"2 + 3", "+"},
		{"  5 - 2  ", "-"},
		{"-2 - -3", "-"},
		{"2 * -3", "*"},
		{"1e-5 * 2", "*"},
		{"10 / 4", "/"},
		{"2 ^ 10", "^"},
		{"10 % 3", "%"},
		{"sqrt(16)", "sqrt"},
		{"log(2)", "log"},
		{"exp(1)", "exp"},
		{"5!", "!"},
		{"-3!", "!"},
		{"mean(1,2)", "mean"},
		{"median(1,2)", "median"},
		{"mode(1,2)", "mode"},
		{"var(1,2)", "var"},
		{"percentile(1,2;50)", "percentile"},
		{"pie(1;a)", "pie"},
		{"plot(x,0,1)", "plot"},
		{"polar(theta,0,1)", "polar"},
		{"3d(x+y,0,1,0,1)", "3d"},
		{"heatmap(1,2;3,4)", "heatmap"},
		{"regression(1,2;3,4)", "regression"},
		// list operators win over the operator characters inside them
		{"mean(-1,-2)", "mean"},
		{"plot(x-1,-1,1)", "plot"},
		// priority, not position
		{"2 * 3 + 4", "+"},
		{"2 ^ 3 - 1", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sig, err := Match(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.token, sig.Token)
		})
	}
}

func TestMatch_Unrecognized(t *testing.T) {
	for _, raw := range []string{"banana", "", "   ", "42", "-7", "hello world"} {
		_, err := Match(raw)
		assert.ErrorIs(t, err, calcerr.ErrUnrecognized, "%q", raw)
	}
}

func TestEvaluate_Arithmetic(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	tests := []struct {
		raw  string
		want float64
	}{
		{"2 + 3", 5},
		{"0.1 + 0.2", 0.1 + 0.2},
		{"5 - 8", -3},
		{"-2 - -3", 1},
		{"1.5 * 4", 6},
		{"2 * -3", -6},
		{"10 / 4", 2.5},
		{"2 ^ 10", 1024},
		{"2 ^ -1", 0.5},
		{"-8 ^ 3", -512},
		{"10 % 3", 1},
		{"-7 % 3", -1},
		{"7.5 % 2", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res, err := d.Evaluate(ctx, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, ResultNumber, res.Kind)
			assert.Equal(t, tt.want, res.Number)
		})
	}
}

func TestEvaluate_ExactArithmeticProperty(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	values := []float64{0, 1, -1, 2.5, -3.75, 1e10, 123456.789, 1e-7}
	for _, a := range values {
		for _, b := range values {
			sum, err := d.Evaluate(ctx, FormatNumber(a)+" + "+FormatNumber(b))
			require.NoError(t, err)
			assert.Equal(t, a+b, sum.Number)

			diff, err := d.Evaluate(ctx, FormatNumber(a)+" - "+FormatNumber(b))
			require.NoError(t, err)
			assert.Equal(t, a-b, diff.Number)

			prod, err := d.Evaluate(ctx, FormatNumber(a)+" * "+FormatNumber(b))
			require.NoError(t, err)
			assert.Equal(t, a*b, prod.Number)
		}
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	for _, a := range []string{"0", "1", "-5", "3.25", "1e300"} {
		for _, op := range []string{"/", "%"} {
			_, err := d.Evaluate(ctx, a+" "+op+" 0")
			assert.ErrorIs(t, err, calcerr.ErrDivisionByZero, "%s %s 0", a, op)
		}
	}

	_, err := d.Evaluate(ctx, "0 ^ -2")
	assert.ErrorIs(t, err, calcerr.ErrDivisionByZero)
}

func TestEvaluate_Functions(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	tests := []struct {
		raw  string
		want float64
	}{
		{"sqrt(16)", 4},
		{"sqrt(0)", 0},
		{"log(1)", 0},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"tan(0)", 0},
		{"abs(-7.5)", 7.5},
		{"exp(0)", 1},
		{"0!", 1},
		{"5!", 120},
		{"20!", 2432902008176640000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res, err := d.Evaluate(ctx, tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Number, 1e-12)
		})
	}

	// operands are flat literals, named constants are not accepted
	_, err := d.Evaluate(ctx, "log(e)")
	assert.ErrorIs(t, err, calcerr.ErrFormat)

	res, err := d.Evaluate(ctx, "171!")
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.Number, 1))
}

func TestEvaluate_SqrtProperty(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	for _, x := range []float64{-1e9, -4, -1, -0.5, -1e-12} {
		_, err := d.Evaluate(ctx, "sqrt("+FormatNumber(x)+")")
		assert.ErrorIs(t, err, calcerr.ErrDomain, "sqrt(%v)", x)
	}
	for _, x := range []float64{0, 1e-12, 0.25, 2, 16, 12345.678, 1e9} {
		res, err := d.Evaluate(ctx, "sqrt("+FormatNumber(x)+")")
		require.NoError(t, err)
		assert.InEpsilon(t, x+1, res.Number*res.Number+1, 1e-12, "sqrt(%v)", x)
	}
}

func TestEvaluate_DomainErrors(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	for _, raw := range []string{
		"log(0)",
		"log(-1)",
		"-1!",
		"2.5!",
		"inf!",
		"sin(inf)",
		"-8 ^ 0.5",
		"regression(1,1,1;2,3,4)",
	} {
		_, err := d.Evaluate(ctx, raw)
		assert.ErrorIs(t, err, calcerr.ErrDomain, raw)
	}
}

func TestEvaluate_NaNOperand(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	for _, raw := range []string{"sqrt(NaN)", "log(nan)"} {
		_, err := d.Evaluate(ctx, raw)
		require.ErrorIs(t, err, calcerr.ErrDomain, raw)
		assert.Contains(t, err.Error(), "operand is not a number", raw)
		assert.NotContains(t, err.Error(), "negative", raw)
	}

	res, err := d.Evaluate(ctx, "sqrt(inf)")
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.Number, 1))
}

func TestEvaluate_Statistics(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	tests := []struct {
		raw  string
		want float64
	}{
		{"mean(1,2,3,4,5)", 3},
		{"median(5,1,3)", 3},
		{"median(1,2,3,4)", 2.5},
		{"mode(1,2,2,3,3,3)", 3},
		{"mode(1,1,2,2)", 1},
		{"std(2,4,4,4,5,5,7,9)", 2},
		{"var(2,4,4,4,5,5,7,9)", 4},
		{"percentile(1,2,3,4,5;75)", 4},
		{"percentile(1,2,3,4;50)", 2.5},
		{"correlation(1,2,3;4,5,6)", 1},
		{"correlation(1,2,3;6,5,4)", -1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res, err := d.Evaluate(ctx, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, ResultNumber, res.Kind)
			assert.InDelta(t, tt.want, res.Number, 1e-12)
		})
	}
}

func TestEvaluate_Regression(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})

	res, err := d.Evaluate(context.Background(), "regression(1,2,3;4,5,6)")
	require.NoError(t, err)
	assert.Equal(t, "regression", res.Operator)
	assert.Equal(t, ResultRegression, res.Kind)
	assert.InDelta(t, 1.0, res.Regression.Slope, 1e-12)
	assert.InDelta(t, 3.0, res.Regression.Intercept, 1e-12)
	assert.InDelta(t, 1.0, res.Regression.RSquared, 1e-12)

	fields := res.Fields()
	require.Len(t, fields, 5)
	assert.Equal(t, "slope", fields[0].Name)
	assert.Contains(t, res.String(), "r_squared=")
}

func TestEvaluate_PercentileRange(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	for _, p := range []string{"-0.001", "-50", "100.5", "1000"} {
		_, err := d.Evaluate(ctx, "percentile(1,2,3;"+p+")")
		assert.ErrorIs(t, err, calcerr.ErrRange, p)
	}
	for _, p := range []string{"0", "0.5", "50", "99.99", "100"} {
		_, err := d.Evaluate(ctx, "percentile(1,2,3;"+p+")")
		assert.NoError(t, err, p)
	}
}

func TestEvaluate_ListPairFormat(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	for _, tok := range []string{"correlation", "regression"} {
		for _, args := range []string{"1,2,3;4,5", "1;4,5", ";4,5", "1,2;", "1,2,3"} {
			_, err := d.Evaluate(ctx, tok+"("+args+")")
			assert.ErrorIs(t, err, calcerr.ErrFormat, "%s(%s)", tok, args)
		}
	}
}

func TestEvaluate_ErrorsCarryOperator(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})

	_, err := d.Evaluate(context.Background(), "mean(1,x)")
	require.Error(t, err)

	var ce *calcerr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, calcerr.KindFormat, ce.Kind)
	assert.Equal(t, "mean", ce.Op)

	_, err = d.Evaluate(context.Background(), "sqrt(-4)")
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "sqrt", ce.Op)
	assert.Contains(t, err.Error(), "negative")
}

func TestEvaluate_Unrecognized(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	_, err := d.Evaluate(context.Background(), "banana")
	assert.ErrorIs(t, err, calcerr.ErrUnrecognized)
}

func TestEvaluate_CancelledContext(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Evaluate(ctx, "2 + 2")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, calcerr.IsExpected(err))
}

func TestEvaluate_Stateless(t *testing.T) {
	d := newTestDispatcher(t, &fakeRenderer{})
	ctx := context.Background()

	_, err := d.Evaluate(ctx, "1 / 0")
	require.Error(t, err)

	res, err := d.Evaluate(ctx, "1 / 4")
	require.NoError(t, err)
	assert.Equal(t, 0.25, res.Number)
}

func TestNewDispatcher_Validation(t *testing.T) {
	_, err := NewDispatcher(nil, DefaultSettings(), zap.NewNop())
	assert.Error(t, err)

	s := DefaultSettings()
	s.FileTemplate = "{{#if id}}"
	_, err = NewDispatcher(&fakeRenderer{}, s, nil)
	assert.Error(t, err)

	s = DefaultSettings()
	s.PlotSamples = 1
	_, err = NewDispatcher(&fakeRenderer{}, s, nil)
	assert.Error(t, err)

	s = DefaultSettings()
	s.Format = ""
	_, err = NewDispatcher(&fakeRenderer{}, s, nil)
	assert.Error(t, err)

	d, err := NewDispatcher(&fakeRenderer{}, DefaultSettings(), nil)
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestNewDispatcher_CompilesEveryGuard(t *testing.T) {
	d, err := NewDispatcher(&fakeRenderer{}, DefaultSettings(), nil)
	require.NoError(t, err)

	for _, sig := range Signatures() {
		conds := d.guards[sig.Token]
		require.Len(t, conds, len(sig.guards), sig.Token)
		for i, g := range sig.guards {
			assert.Equal(t, g.Condition, conds[i].String(), sig.Token)
		}
	}
}
