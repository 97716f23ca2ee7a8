package catalog_test

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/njchilds90/gotaylor/catalog"
	"github.com/njchilds90/gotaylor/expr"
	"github.com/njchilds90/gotaylor/notation"
)

// CatalogSuite exercises the default registry and the closed-form formulas.
type CatalogSuite struct {
	suite.Suite
	reg      *catalog.Registry
	teardown func()
}

func (s *CatalogSuite) SetupTest() {
	gtrace.CoreTracer = gotestingadapter.New(s.T())
	s.teardown = gotestingadapter.RedirectTracing(s.T())
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	s.reg = catalog.Default()
}

func (s *CatalogSuite) TearDownTest() {
	s.teardown()
}

// TestClosedFormMatchesDifferentiator compares every closed form with
// repeated symbolic differentiation of its source, n = 0..10.
func (s *CatalogSuite) TestClosedFormMatchesDifferentiator() {
	anywhere := []float64{-2.3, -1.1, -0.4, 0.3, 0.9, 1.7, 2.6}
	positive := []float64{0.3, 0.9, 1.7, 2.6, 4.1}
	for _, d := range s.reg.Descriptors() {
		if d.Kind() != catalog.ClosedForm {
			continue
		}
		xs := anywhere
		if d.RequiresPositiveCenter {
			xs = positive
		}
		fs, err := d.Chain().Upto(catalog.DefaultMaxOrder)
		require.NoError(s.T(), err, d.Name)
		for n := 0; n <= catalog.DefaultMaxOrder; n++ {
			closed := d.Derivative(n)
			for _, x := range xs {
				want, got := fs[n](x), closed(x)
				require.True(s.T(), scalar.EqualWithinAbsOrRel(want, got, 1e-6, 1e-6),
					"%s: derivative %d at %v: differentiator %v, catalog %v", d.Name, n, x, want, got)
			}
		}
	}
}

func (s *CatalogSuite) TestCubeRootOfNegative() {
	d, ok := s.reg.Lookup("cbrt(x)")
	require.True(s.T(), ok)
	fs, err := d.Chain().Upto(3)
	require.NoError(s.T(), err)
	for n := 0; n <= 3; n++ {
		v, err := d.At(n, -1.3)
		require.NoError(s.T(), err)
		require.InDelta(s.T(), fs[n](-1.3), v, 1e-9, "order %d", n)
	}
}

func (s *CatalogSuite) TestPoles() {
	v, err := catalog.DerivativeAt("ln(x)", 0, 0)
	require.NoError(s.T(), err)
	require.True(s.T(), math.IsInf(v, -1))

	v, err = catalog.DerivativeAt("1/x", 3, 0)
	require.NoError(s.T(), err)
	require.True(s.T(), math.IsInf(v, 0) || math.IsNaN(v))

	v, err = catalog.DerivativeAt("sqrt(x)", 0, -1)
	require.NoError(s.T(), err)
	require.True(s.T(), math.IsNaN(v))
}

func (s *CatalogSuite) TestExactValues() {
	v, err := catalog.DerivativeAt("1/x", 2, 1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2.0, v)

	v, err = catalog.DerivativeAt("ln(x)", 3, 1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2.0, v)

	v, err = catalog.DerivativeAt("sin(x)", 5, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1.0, v)

	v, err = catalog.DerivativeAt("e^x", 7, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1.0, v)
}

func (s *CatalogSuite) TestLookupAliases() {
	ln, ok := s.reg.Lookup("ln(x)")
	require.True(s.T(), ok)
	for _, name := range []string{"log(x)", " LN( x ) ", "log (x)"} {
		d, ok := s.reg.Lookup(name)
		require.True(s.T(), ok, name)
		require.Same(s.T(), ln, d, name)
	}
	_, ok = s.reg.Lookup("gamma(x)")
	require.False(s.T(), ok)

	_, err := catalog.DerivativeAt("gamma(x)", 0, 1)
	require.True(s.T(), errors.Is(err, catalog.ErrUnknownFunction))
}

func (s *CatalogSuite) TestPositiveCenterFlags() {
	want := map[string]bool{
		"sin(x)": false, "cos(x)": false, "e^x": false, "ln(x)": true,
		"1/x": true, "sin^3(x)": false, "sqrt(x)": true, "cbrt(x)": true,
		"tan(x)": false, "csc(x)": true, "sec(x)": false,
	}
	require.Equal(s.T(), len(want), len(s.reg.Names()))
	for name, flag := range want {
		d, ok := s.reg.Lookup(name)
		require.True(s.T(), ok, name)
		require.Equal(s.T(), flag, d.RequiresPositiveCenter, name)
		require.Equal(s.T(), catalog.DefaultMaxOrder, d.MaxOrder, name)
	}
}

func (s *CatalogSuite) TestNamesInOrder() {
	require.Equal(s.T(), []string{
		"sin(x)", "cos(x)", "e^x", "ln(x)", "1/x", "sin^3(x)",
		"sqrt(x)", "cbrt(x)", "tan(x)", "csc(x)", "sec(x)",
	}, s.reg.Names())
}

func (s *CatalogSuite) TestFromNotation() {
	d, err := s.reg.FromNotation("exp(x)")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "e^x", d.Name)

	// Parsed notation equal to a registered source resolves to the entry.
	d, err = s.reg.FromNotation("sin(x)*sin(x)^2")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "sin^3(x)", d.Name)
	require.Equal(s.T(), catalog.ClosedForm, d.Kind())

	d, err = s.reg.FromNotation("x^5")
	require.NoError(s.T(), err)
	require.Equal(s.T(), catalog.ClosedForm, d.Kind())
	v, err := d.At(5, 2)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 120.0, v)
	v, err = d.At(6, 2)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0.0, v)

	d, err = s.reg.FromNotation("x*exp(-x)")
	require.NoError(s.T(), err)
	require.Equal(s.T(), catalog.Symbolic, d.Kind())
	require.False(s.T(), d.RequiresPositiveCenter)
	again, err := s.reg.FromNotation("x * exp(-x)")
	require.NoError(s.T(), err)
	require.Same(s.T(), d, again, "parsed descriptors are reused")

	d, err = s.reg.FromNotation("ln(x+1)")
	require.NoError(s.T(), err)
	require.True(s.T(), d.RequiresPositiveCenter)

	_, err = s.reg.FromNotation("sin(")
	require.True(s.T(), errors.Is(err, notation.ErrSyntax))
}

func (s *CatalogSuite) TestFromNotationCacheKeepsTokens() {
	reg := catalog.NewRegistry()
	_, err := reg.FromNotation("PI*x")
	require.Error(s.T(), err, "PI is not a known symbol")

	d, err := reg.FromNotation("pi*x")
	require.NoError(s.T(), err)
	_, err = reg.FromNotation("PI*x")
	require.Error(s.T(), err, "lookup must not depend on earlier calls")
	again, err := reg.FromNotation("pi * x")
	require.NoError(s.T(), err)
	require.Same(s.T(), d, again)

	twelve, err := reg.FromNotation("x+12")
	require.NoError(s.T(), err)
	two, err := reg.FromNotation("x+1 2")
	require.NoError(s.T(), err)
	require.NotSame(s.T(), twelve, two)
	v, err := two.At(0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2.0, v)
}

func (s *CatalogSuite) TestRegisterDuplicate() {
	reg := catalog.NewRegistry()
	p, err := catalog.Power(2, 1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "x^2", p.Name)
	require.NoError(s.T(), reg.Register(p))

	q, err := catalog.NewSymbolic("square", expr.PowOf(expr.S("x"), expr.N(2)), "x", "X^2")
	require.NoError(s.T(), err)
	err = reg.Register(q)
	require.True(s.T(), errors.Is(err, catalog.ErrDuplicate))
	require.Equal(s.T(), []string{"x^2"}, reg.Names())
}

func (s *CatalogSuite) TestExpressions() {
	d, _ := s.reg.Lookup("sin(x)")
	es, err := d.Expressions(2)
	require.NoError(s.T(), err)
	require.Len(s.T(), es, 3)
	require.Equal(s.T(), "-1*sin(x)", es[2].String())

	_, err = d.Expressions(-1)
	require.True(s.T(), errors.Is(err, catalog.ErrNegativeOrder))
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}
