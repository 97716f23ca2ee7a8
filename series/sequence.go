package series

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/gotaylor/catalog"
	"github.com/njchilds90/gotaylor/expr"
)

var (
	// ErrNegativeOrder is returned for a negative requested order.
	ErrNegativeOrder = errors.New("series: negative order")
	// ErrNonFinite is returned when a Taylor coefficient is NaN or infinite.
	ErrNonFinite = errors.New("series: non-finite coefficient")
)

// Sequence holds the evaluators of a function and its derivatives; index n
// is the nth derivative.
type Sequence []expr.Evaluator

// Order is the highest derivative order in s, or -1 for an empty sequence.
func (s Sequence) Order() int { return len(s) - 1 }

// Build returns the derivative sequence of d up to maxOrder. If d supports
// fewer orders the sequence is shorter; callers clamp their order to
// seq.Order().
func Build(d *catalog.Descriptor, maxOrder int) (Sequence, error) {
	if maxOrder < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeOrder, maxOrder)
	}
	n := maxOrder
	if d.MaxOrder < n {
		n = d.MaxOrder
		tracer().Debugf("series: %s supports order %d, requested %d", d.Name, d.MaxOrder, maxOrder)
	}
	if n < 0 {
		return Sequence{}, nil
	}
	if d.Kind() == catalog.ClosedForm {
		seq := make(Sequence, n+1)
		for i := range seq {
			seq[i] = d.Derivative(i)
		}
		return seq, nil
	}
	fs, err := d.Chain().Upto(n)
	if err != nil {
		return nil, fmt.Errorf("series: %s: %w", d.Name, err)
	}
	return Sequence(fs), nil
}

func clampOrder(seq Sequence, o int) int {
	if o > seq.Order() {
		o = seq.Order()
	}
	if o < 0 {
		o = 0
	}
	return o
}

// Taylor returns x ↦ Σ_{n=0}^{o} seq[n](c)/n! · (x−c)ⁿ. The order is clamped
// into [0, seq.Order()]; an empty sequence yields NaN everywhere.
// Non-finite derivative values at c propagate into the result.
func Taylor(seq Sequence, c float64, o int) expr.Evaluator {
	if len(seq) == 0 {
		return func(float64) float64 { return math.NaN() }
	}
	fs := seq[:clampOrder(seq, o)+1]
	return func(x float64) float64 {
		d := x - c
		sum, fact, pow := 0.0, 1.0, 1.0
		for n, f := range fs {
			if n > 0 {
				fact *= float64(n)
				pow *= d
			}
			sum += f(c) / fact * pow
		}
		return sum
	}
}

// Coefficients returns seq[n](c)/n! for n = 0..o.
func Coefficients(seq Sequence, c float64, o int) []float64 {
	if len(seq) == 0 {
		return nil
	}
	o = clampOrder(seq, o)
	out := make([]float64, o+1)
	fact := 1.0
	for n := 0; n <= o; n++ {
		if n > 0 {
			fact *= float64(n)
		}
		out[n] = seq[n](c) / fact
	}
	return out
}

// Polynomial returns the approximation of Taylor(seq, c, o) as an expression
// in variable, with the coefficients rounded to float64.
func Polynomial(seq Sequence, c float64, o int, variable string) (expr.Expr, error) {
	coeffs := Coefficients(seq, c, o)
	if coeffs == nil {
		return nil, fmt.Errorf("series: empty sequence")
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return nil, fmt.Errorf("%w: center %v", ErrNonFinite, c)
	}
	shift := expr.SubOf(expr.S(variable), expr.NFloat(c))
	terms := make([]expr.Expr, 0, len(coeffs))
	for n, a := range coeffs {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("%w: order %d at %v", ErrNonFinite, n, c)
		}
		if a == 0 {
			continue
		}
		terms = append(terms, expr.MulOf(expr.NFloat(a), expr.PowOf(shift, expr.N(int64(n)))))
	}
	return expr.AddOf(terms...), nil
}
