package series

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/njchilds90/gotaylor/expr"
)

// ErrInvalidDomain flags a domain that has no grid.
var ErrInvalidDomain = errors.New("series: invalid domain")

// Domain is the half-open sampling interval [Min, Max) walked at Step.
type Domain struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// DefaultDomain is the display range of the chart.
var DefaultDomain = Domain{Min: -5, Max: 5, Step: 0.01}

func (d Domain) Validate() error {
	for _, v := range []float64{d.Min, d.Max, d.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound %v", ErrInvalidDomain, v)
		}
	}
	if d.Step <= 0 {
		return fmt.Errorf("%w: step %v", ErrInvalidDomain, d.Step)
	}
	if d.Max <= d.Min {
		return fmt.Errorf("%w: [%v, %v)", ErrInvalidDomain, d.Min, d.Max)
	}
	return nil
}

// Len is the number of grid points.
func (d Domain) Len() int {
	if d.Validate() != nil {
		return 0
	}
	// The epsilon keeps Max itself off the grid despite rounding.
	return int(math.Ceil((d.Max-d.Min)/d.Step - 1e-9))
}

// Grid returns Min, Min+Step, … below Max in ascending order.
func (d Domain) Grid() []float64 {
	n := d.Len()
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = d.Min + float64(i)*d.Step
	}
	return xs
}

// Clamp limits v to [Min, Max].
func (d Domain) Clamp(v float64) float64 {
	return math.Max(d.Min, math.Min(d.Max, v))
}

// Options configure Sample.
type Options struct {
	Domain Domain
	// Bound is the magnitude at or above which values are nulled.
	// Zero means max(|Min|, |Max|).
	Bound float64
}

// DefaultOptions samples DefaultDomain with bound 5.
var DefaultOptions = Options{Domain: DefaultDomain}

// EffectiveBound resolves a zero Bound against the domain.
func (o Options) EffectiveBound() float64 {
	if o.Bound > 0 {
		return o.Bound
	}
	return math.Max(math.Abs(o.Domain.Min), math.Abs(o.Domain.Max))
}

// Point is one sample. Nil values are undefined, non-finite or off the
// visible range. Error is set only when both Actual and Approximation are.
type Point struct {
	X             float64  `json:"-"`
	Label         string   `json:"x"`
	Actual        *float64 `json:"actual"`
	Approximation *float64 `json:"approximation"`
	Error         *float64 `json:"error"`
}

// Series is a sequence of points in ascending X order.
type Series []Point

// Label formats x with two decimals, as the chart axis expects.
func Label(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// Sample evaluates f and taylor on the grid of opts.Domain. Points whose
// evaluation panics are dropped; the pass continues.
func Sample(f, taylor expr.Evaluator, opts Options) Series {
	xs := opts.Domain.Grid()
	bound := opts.EffectiveBound()
	out := make(Series, 0, len(xs))
	dropped := 0
	for _, x := range xs {
		p, ok := samplePoint(f, taylor, x, bound)
		if !ok {
			dropped++
			continue
		}
		out = append(out, p)
	}
	if dropped > 0 {
		tracer().Infof("series: dropped %d of %d points", dropped, len(xs))
	}
	return out
}

func samplePoint(f, taylor expr.Evaluator, x, bound float64) (p Point, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("series: evaluation at %v failed: %v", x, r)
			ok = false
		}
	}()
	actual := visible(f(x), bound)
	approx := visible(taylor(x), bound)
	p = Point{X: x, Label: Label(x), Actual: actual, Approximation: approx}
	if actual != nil && approx != nil {
		e := math.Abs(*actual - *approx)
		p.Error = &e
	}
	return p, true
}

func visible(v, bound float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= bound {
		return nil
	}
	return &v
}
