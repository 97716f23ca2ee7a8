package expr

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sync"
)

var (
	// ErrUnboundSymbol is returned when an expression mentions a symbol other
	// than the variable it is compiled for.
	ErrUnboundSymbol = errors.New("expr: unbound symbol")
	// ErrUnknownFunction is returned for function names outside Functions.
	ErrUnknownFunction = errors.New("expr: unknown function")
)

func unknownFunction(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownFunction, name)
}

// Evaluator is a compiled numeric function of one variable. Evaluating
// outside the natural domain yields NaN or ±Inf.
type Evaluator func(x float64) float64

var floatFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"csc":  func(v float64) float64 { return 1 / math.Sin(v) },
	"sec":  func(v float64) float64 { return 1 / math.Cos(v) },
	"cot":  func(v float64) float64 { return math.Cos(v) / math.Sin(v) },
	"exp":  math.Exp,
	"ln":   math.Log,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
	"abs":  math.Abs,
	"sign": sign,
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	case v == 0:
		return 0
	}
	return math.NaN()
}

// Compile binds variable to the evaluator's argument.
func Compile(e Expr, variable string) (Evaluator, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }, nil
	case *Const:
		c := v.val
		return func(float64) float64 { return c }, nil
	case *Sym:
		if v.name != variable {
			return nil, fmt.Errorf("%w: %s", ErrUnboundSymbol, v.name)
		}
		return func(x float64) float64 { return x }, nil
	case *Add:
		terms, err := compileAll(v.terms, variable)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			sum := 0.0
			for _, t := range terms {
				sum += t(x)
			}
			return sum
		}, nil
	case *Mul:
		factors, err := compileAll(v.factors, variable)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			prod := 1.0
			for _, f := range factors {
				prod *= f(x)
			}
			return prod
		}, nil
	case *Pow:
		return compilePow(v, variable)
	case *Func:
		fn, ok := floatFuncs[v.name]
		if !ok {
			return nil, unknownFunction(v.name)
		}
		arg, err := Compile(v.arg, variable)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return fn(arg(x)) }, nil
	}
	return nil, fmt.Errorf("expr: cannot compile %s node", e.exprType())
}

// MustCompile is like Compile but panics on error.
func MustCompile(e Expr, variable string) Evaluator {
	f, err := Compile(e, variable)
	if err != nil {
		panic(err)
	}
	return f
}

func compileAll(es []Expr, variable string) ([]Evaluator, error) {
	out := make([]Evaluator, len(es))
	for i, e := range es {
		f, err := Compile(e, variable)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func compilePow(p *Pow, variable string) (Evaluator, error) {
	base, err := Compile(p.base, variable)
	if err != nil {
		return nil, err
	}
	if n, ok := p.exp.(*Num); ok && !n.IsInteger() {
		e, oddDen, oddNum := ratExp(n.val)
		return func(x float64) float64 { return realPow(base(x), e, oddDen, oddNum) }, nil
	}
	exp, err := Compile(p.exp, variable)
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
}

// RealPow raises x to the rational power r. Negative bases have a real
// result when the reduced denominator of r is odd, so RealPow(-8, 1/3) is -2.
func RealPow(x float64, r *big.Rat) float64 {
	e, oddDen, oddNum := ratExp(r)
	return realPow(x, e, oddDen, oddNum)
}

func ratExp(r *big.Rat) (float64, bool, bool) {
	e, _ := r.Float64()
	return e, r.Denom().Bit(0) == 1, r.Num().Bit(0) == 1
}

func realPow(b, e float64, oddDen, oddNum bool) float64 {
	if b >= 0 || !oddDen {
		return math.Pow(b, e)
	}
	v := math.Pow(-b, e)
	if oddNum {
		return -v
	}
	return v
}

// ============================================================
// Chain — cached derivative trees
// ============================================================

// Chain holds the successive derivatives of one expression together with
// their compiled evaluators. It grows on demand and is safe for concurrent
// use; index 0 is the expression itself.
type Chain struct {
	variable string
	mu       sync.Mutex
	trees    []Expr
	evals    []Evaluator
}

// NewChain compiles e for variable. It fails if e cannot be compiled.
func NewChain(e Expr, variable string) (*Chain, error) {
	f, err := Compile(e, variable)
	if err != nil {
		return nil, err
	}
	return &Chain{variable: variable, trees: []Expr{e}, evals: []Evaluator{f}}, nil
}

func (c *Chain) Variable() string { return c.variable }

// Len returns the number of derivatives computed so far, including order 0.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.trees)
}

func (c *Chain) extend(n int) error {
	for len(c.trees) <= n {
		d := Diff(c.trees[len(c.trees)-1], c.variable)
		f, err := Compile(d, c.variable)
		if err != nil {
			return fmt.Errorf("derivative %d: %w", len(c.trees), err)
		}
		c.trees = append(c.trees, d)
		c.evals = append(c.evals, f)
	}
	return nil
}

// Upto returns evaluators for orders 0..n.
func (c *Chain) Upto(n int) ([]Evaluator, error) {
	if n < 0 {
		return nil, fmt.Errorf("expr: negative derivative order %d", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.extend(n); err != nil {
		return nil, err
	}
	out := make([]Evaluator, n+1)
	copy(out, c.evals)
	return out, nil
}

// Trees returns the derivative expressions for orders 0..n.
func (c *Chain) Trees(n int) ([]Expr, error) {
	if n < 0 {
		return nil, fmt.Errorf("expr: negative derivative order %d", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.extend(n); err != nil {
		return nil, err
	}
	out := make([]Expr, n+1)
	copy(out, c.trees)
	return out, nil
}
