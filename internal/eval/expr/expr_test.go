package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Precedence(t *testing.T) {
	cases := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x^2", 3, 9},
		{"1 + 2 * 3", 0, 7},
		{"(1 + 2) * 3", 0, 9},
		{"2^3^2", 0, 512},
		{"-x^2", 3, -9},
		{"-2 - -3", 0, 1},
		{"10 / 4", 0, 2.5},
		{"2*pi", 0, 2 * math.Pi},
		{"e", 0, math.E},
		{"sqrt(16) + abs(-2)", 0, 6},
		{"exp(log(x))", 5, 5},
		{"1e-3 * 1000", 0, 1},
		{".5 + .5", 0, 1},
	}
	for _, tc := range cases {
		prog, err := Compile(tc.src, "x")
		require.NoError(t, err, tc.src)
		assert.InDelta(t, tc.want, prog.Eval(tc.x), 1e-9, tc.src)
	}
}

func TestCompile_TwoVariables(t *testing.T) {
	prog, err := Compile("x^2 + y^2", "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 25.0, prog.Eval(3, 4))
	assert.Equal(t, []string{"x", "y"}, prog.Vars())
	assert.Equal(t, "x^2 + y^2", prog.String())
}

func TestCompile_Rejects(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"x +",
		"(x",
		"x)",
		"2 $ 3",
		"import(os)",
		"y * 2",
		"sin x",
		"2 x",
		"__import__",
	}
	for _, src := range bad {
		_, err := Compile(src, "x")
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, ErrParse), src)
	}
}

func TestEval_DomainIsNaN(t *testing.T) {
	prog, err := Compile("sqrt(x)", "x")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(prog.Eval(-1)))

	prog, err = Compile("1/x", "x")
	require.NoError(t, err)
	assert.True(t, math.IsInf(prog.Eval(0), 1))
}

func TestEval_MissingValuesAreNaN(t *testing.T) {
	prog, err := Compile("x + y", "x", "y")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(prog.Eval(1)))
}

func TestConstant(t *testing.T) {
	v, err := Constant("2*pi")
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi, v, 1e-12)

	v, err = Constant("-10")
	require.NoError(t, err)
	assert.Equal(t, -10.0, v)

	_, err = Constant("x")
	assert.ErrorIs(t, err, ErrParse)
}

func TestFunctions(t *testing.T) {
	assert.Equal(t, []string{"abs", "cos", "exp", "log", "sin", "sqrt", "tan"}, Functions())
}
