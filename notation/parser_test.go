package notation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor/expr"
	"github.com/njchilds90/gotaylor/notation"
)

func TestLex(t *testing.T) {
	toks, err := notation.Lex("2x^3 − sin(π)")
	require.NoError(t, err)
	var types []string
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []string{"NUM", "IDENT", "^", "NUM", "-", "IDENT", "(", "IDENT", ")", "EOF"}, types)
	assert.Equal(t, "pi", toks[7].Lit)
	assert.Equal(t, 1, toks[1].Pos)
}

func TestLex_ScientificLiteral(t *testing.T) {
	toks, err := notation.Lex("1.5e-3 2e^x")
	require.NoError(t, err)
	assert.Equal(t, "1.5e-3", toks[0].Lit)
	assert.Equal(t, "2", toks[1].Lit)
	assert.Equal(t, "e", toks[2].Lit)
}

func TestParse_Canonical(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"sin(x)", "sin(x)"},
		{"sin(x)^3", "sin(x)^3"},
		{"sin^3(x)", "sin(x)^3"},
		{"e^x", "exp(x)"},
		{"exp(x)", "exp(x)"},
		{"1/x", "x^(-1)"},
		{"log(x)", "ln(x)"},
		{"ln(x)", "ln(x)"},
		{"sqrt(x)", "x^(1/2)"},
		{"cbrt(x)", "x^(1/3)"},
		{"2x", "2*x"},
		{"3sin(x)", "3*sin(x)"},
		{"-x^2", "-1*x^2"},
		{"2^3^2", "512"},
		{"x^-1", "x^(-1)"},
		{"|x|", "abs(x)"},
		{"2|x|", "2*abs(x)"},
		{"|x - 1|", "abs(x + -1)"},
		{"0.1", "1/10"},
		{".5", "1/2"},
		{"1.5e2", "150"},
		{"2pi", "2*pi"},
		{"(x+1)(x-1)", "(x + -1)*(x + 1)"},
		{"x·x", "x^2"},
		{"arctan(x)", "atan(x)"},
	}
	for _, c := range cases {
		e, err := notation.Parse(c.src)
		require.NoError(t, err, c.src)
		assert.Equal(t, c.want, e.String(), c.src)
	}
}

func TestParse_Functions(t *testing.T) {
	x := expr.S("x")
	cases := []struct {
		src  string
		want expr.Expr
	}{
		{"asin(x)", expr.AsinOf(x)},
		{"arcsin(x)", expr.AsinOf(x)},
		{"acos(x)", expr.AcosOf(x)},
		{"arccos(x)", expr.AcosOf(x)},
		{"atan(x)", expr.AtanOf(x)},
		{"sinh(x)", expr.SinhOf(x)},
		{"cosh(x)", expr.CoshOf(x)},
		{"tanh(x)", expr.TanhOf(x)},
		{"csc(x)", expr.CscOf(x)},
		{"sec(x)", expr.SecOf(x)},
		{"cot(x)", expr.CotOf(x)},
		{"sign(x)", expr.SignOf(x)},
		{"cosh^2(x)", expr.PowOf(expr.CoshOf(x), expr.N(2))},
		{"sinh(0)", expr.N(0)},
	}
	for _, c := range cases {
		e, err := notation.Parse(c.src)
		require.NoError(t, err, c.src)
		assert.True(t, e.Equal(c.want), "%s: got %s", c.src, e)
	}
}

func TestParse_Constants(t *testing.T) {
	for _, src := range []string{"pi", "π"} {
		e, err := notation.Parse(src)
		require.NoError(t, err)
		assert.True(t, e.Equal(expr.Pi()), src)
	}
	e, err := notation.Parse("e")
	require.NoError(t, err)
	assert.True(t, e.Equal(expr.E()))
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"", 0},
		{"sin(x", 5},
		{"x +", 3},
		{"2 $ x", 2},
		{"sin x", 4},
		{")", 0},
		{"|x", 2},
	}
	for _, c := range cases {
		_, err := notation.Parse(c.src)
		require.Error(t, err, c.src)
		assert.True(t, errors.Is(err, notation.ErrSyntax), c.src)
		var pe *notation.ParseError
		require.True(t, errors.As(err, &pe), c.src)
		assert.Equal(t, c.pos, pe.Pos, c.src)
	}
}

func TestParseIn_RejectsForeignSymbols(t *testing.T) {
	_, err := notation.ParseIn("x + y", "x")
	var pe *notation.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Pos)

	e, err := notation.ParseIn("t^2", "t")
	require.NoError(t, err)
	assert.Equal(t, "t^2", e.String())
}

func TestParse_StringRoundTrip(t *testing.T) {
	x := expr.S("x")
	bases := []expr.Expr{
		expr.PowOf(expr.SinOf(x), expr.N(3)),
		expr.PowOf(x, expr.N(-1)),
		expr.LnOf(x),
		expr.TanOf(x),
		expr.SqrtOf(x),
		expr.CscOf(x),
	}
	for _, b := range bases {
		for n := 0; n <= 4; n++ {
			d := expr.DiffN(b, "x", n)
			back, err := notation.Parse(d.String())
			require.NoError(t, err, d.String())
			assert.True(t, back.Equal(d), "%s reparsed as %s", d.String(), back.String())
		}
	}
}
