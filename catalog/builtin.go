package catalog

import (
	"fmt"
	"math"
	"math/big"

	"github.com/njchilds90/gotaylor/expr"
)

// sinShift evaluates sin(x + nπ/2) without rounding the shift.
func sinShift(n int, x float64) float64 {
	switch n % 4 {
	case 0:
		return math.Sin(x)
	case 1:
		return math.Cos(x)
	case 2:
		return -math.Sin(x)
	}
	return -math.Cos(x)
}

// cosShift evaluates cos(x + nπ/2).
func cosShift(n int, x float64) float64 { return sinShift(n+1, x) }

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// alternating returns (-1)^n.
func alternating(n int) float64 {
	if n%2 == 0 {
		return 1
	}
	return -1
}

// SinDerivative: d^n/dx^n sin(x) = sin(x + nπ/2).
func SinDerivative(n int) expr.Evaluator {
	return func(x float64) float64 { return sinShift(n, x) }
}

// CosDerivative: d^n/dx^n cos(x) = cos(x + nπ/2).
func CosDerivative(n int) expr.Evaluator {
	return func(x float64) float64 { return cosShift(n, x) }
}

// ExpDerivative: every derivative of e^x is e^x.
func ExpDerivative(int) expr.Evaluator { return math.Exp }

// LnDerivative: d^n/dx^n ln(x) = (-1)^(n-1) (n-1)! / x^n for n >= 1.
func LnDerivative(n int) expr.Evaluator {
	if n == 0 {
		return math.Log
	}
	c := alternating(n-1) * factorial(n-1)
	return func(x float64) float64 { return c / math.Pow(x, float64(n)) }
}

// RecipDerivative: d^n/dx^n 1/x = (-1)^n n! / x^(n+1).
func RecipDerivative(n int) expr.Evaluator {
	c := alternating(n) * factorial(n)
	return func(x float64) float64 { return c / math.Pow(x, float64(n+1)) }
}

// SinCubedDerivative uses sin³x = ¼(3 sin x − sin 3x), so the nth
// derivative is ¼(3 sin(x + nπ/2) − 3ⁿ sin(3x + nπ/2)).
func SinCubedDerivative(n int) expr.Evaluator {
	if n == 0 {
		return func(x float64) float64 { return math.Pow(math.Sin(x), 3) }
	}
	k := math.Pow(3, float64(n))
	return func(x float64) float64 {
		return 0.25 * (3*sinShift(n, x) - k*sinShift(n, 3*x))
	}
}

// PowerDerivative returns the nth derivative of x^(p/q):
// k(k-1)…(k-n+1) · x^(k-n) with k = p/q. Negative x has a real value
// when q is odd.
func PowerDerivative(p, q int64) NthDerivative {
	k := new(big.Rat).SetFrac64(p, q)
	fk, _ := k.Float64()
	return func(n int) expr.Evaluator {
		if n == 0 {
			switch {
			case k.Cmp(big.NewRat(1, 2)) == 0:
				return math.Sqrt
			case k.Cmp(big.NewRat(1, 3)) == 0:
				return math.Cbrt
			}
		}
		c := 1.0
		for i := 0; i < n; i++ {
			c *= fk - float64(i)
		}
		if c == 0 {
			return func(float64) float64 { return 0 }
		}
		e := new(big.Rat).Sub(k, new(big.Rat).SetInt64(int64(n)))
		return func(x float64) float64 { return c * expr.RealPow(x, e) }
	}
}

// Power returns a closed-form descriptor for x^(p/q).
func Power(p, q int64) (*Descriptor, error) {
	if q == 0 {
		return nil, fmt.Errorf("catalog: power %d/0", p)
	}
	k := expr.F(p, q)
	src := expr.PowOf(expr.S("x"), k)
	positive := !k.IsInteger() || k.IsNegative()
	return NewClosedForm(src.String(), src, PowerDerivative(p, q), positive)
}

func mustClosedForm(name string, src expr.Expr, nth NthDerivative, positive bool, aliases ...string) *Descriptor {
	d, err := NewClosedForm(name, src, nth, positive, aliases...)
	if err != nil {
		panic(err)
	}
	return d
}

func mustSymbolic(name string, src expr.Expr) *Descriptor {
	d, err := NewSymbolic(name, src, "x")
	if err != nil {
		panic(err)
	}
	return d
}

// Builtins returns fresh copies of the built-in descriptors in display
// order.
func Builtins() []*Descriptor {
	x := expr.S("x")
	return []*Descriptor{
		mustClosedForm("sin(x)", expr.SinOf(x), SinDerivative, false),
		mustClosedForm("cos(x)", expr.CosOf(x), CosDerivative, false),
		mustClosedForm("e^x", expr.ExpOf(x), ExpDerivative, false, "exp(x)"),
		mustClosedForm("ln(x)", expr.LnOf(x), LnDerivative, true, "log(x)"),
		mustClosedForm("1/x", expr.PowOf(x, expr.N(-1)), RecipDerivative, true, "x^-1", "x^(-1)"),
		mustClosedForm("sin^3(x)", expr.PowOf(expr.SinOf(x), expr.N(3)), SinCubedDerivative, false, "sin(x)^3"),
		mustClosedForm("sqrt(x)", expr.SqrtOf(x), PowerDerivative(1, 2), true, "x^(1/2)"),
		mustClosedForm("cbrt(x)", expr.CbrtOf(x), PowerDerivative(1, 3), true, "x^(1/3)"),
		mustSymbolic("tan(x)", expr.TanOf(x)),
		mustSymbolic("csc(x)", expr.CscOf(x)),
		mustSymbolic("sec(x)", expr.SecOf(x)),
	}
}
