package catalog

import (
	"fmt"

	"github.com/njchilds90/gotaylor/expr"
)

// DefaultMaxOrder is the derivative order every descriptor supports unless
// configured otherwise.
const DefaultMaxOrder = 10

// Kind tells how a descriptor produces its derivatives.
type Kind int

const (
	ClosedForm Kind = iota
	Symbolic
)

func (k Kind) String() string {
	if k == ClosedForm {
		return "closed-form"
	}
	return "symbolic"
}

// NthDerivative returns the evaluator of the nth derivative, n >= 0.
type NthDerivative func(n int) expr.Evaluator

// Descriptor identifies a supported function.
type Descriptor struct {
	Name     string
	Aliases  []string
	Source   expr.Expr // base expression in Variable
	Variable string

	// RequiresPositiveCenter is set when the function or one of its
	// derivatives has a pole at or left of zero.
	RequiresPositiveCenter bool
	MaxOrder               int

	// Derivative is nil for symbolic descriptors.
	Derivative NthDerivative

	chain *expr.Chain
}

// NewClosedForm creates a descriptor backed by an exact derivative formula.
// src must be the expression whose derivatives nth computes; it is used for
// display and to cross-check the formula.
func NewClosedForm(name string, src expr.Expr, nth NthDerivative, positive bool, aliases ...string) (*Descriptor, error) {
	d, err := newDescriptor(name, src, "x", aliases)
	if err != nil {
		return nil, err
	}
	d.Derivative = nth
	d.RequiresPositiveCenter = positive
	return d, nil
}

// NewSymbolic creates a descriptor whose derivatives come from repeated
// differentiation of src with respect to variable.
func NewSymbolic(name string, src expr.Expr, variable string, aliases ...string) (*Descriptor, error) {
	d, err := newDescriptor(name, src, variable, aliases)
	if err != nil {
		return nil, err
	}
	d.RequiresPositiveCenter = NeedsPositiveCenter(src, variable)
	return d, nil
}

func newDescriptor(name string, src expr.Expr, variable string, aliases []string) (*Descriptor, error) {
	chain, err := expr.NewChain(src, variable)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}
	return &Descriptor{
		Name:     name,
		Aliases:  aliases,
		Source:   src,
		Variable: variable,
		MaxOrder: DefaultMaxOrder,
		chain:    chain,
	}, nil
}

func (d *Descriptor) Kind() Kind {
	if d.Derivative != nil {
		return ClosedForm
	}
	return Symbolic
}

// Chain returns the cached differentiation chain of the source expression.
func (d *Descriptor) Chain() *expr.Chain { return d.chain }

// Notation is the LaTeX form of the source expression.
func (d *Descriptor) Notation() string { return d.Source.LaTeX() }

// Expressions returns the derivative expressions of orders 0..n.
func (d *Descriptor) Expressions(n int) ([]expr.Expr, error) {
	if n < 0 {
		return nil, ErrNegativeOrder
	}
	return d.chain.Trees(n)
}

// Evaluator returns the evaluator of the nth derivative.
func (d *Descriptor) Evaluator(n int) (expr.Evaluator, error) {
	if n < 0 {
		return nil, ErrNegativeOrder
	}
	if d.Derivative != nil {
		return d.Derivative(n), nil
	}
	fs, err := d.chain.Upto(n)
	if err != nil {
		return nil, err
	}
	return fs[n], nil
}

// At evaluates the nth derivative at x. Poles yield ±Inf or NaN.
func (d *Descriptor) At(n int, x float64) (float64, error) {
	f, err := d.Evaluator(n)
	if err != nil {
		return 0, err
	}
	return f(x), nil
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Kind())
}

// NeedsPositiveCenter reports whether e has a pole or a domain boundary at
// or below zero in variable: a logarithm, csc or cot of an expression in the
// variable, or a negative or fractional power of one.
func NeedsPositiveCenter(e expr.Expr, variable string) bool {
	depends := func(u expr.Expr) bool {
		_, ok := expr.FreeSymbols(u)[variable]
		return ok
	}
	switch v := e.(type) {
	case *expr.Func:
		switch v.FuncName() {
		case "ln", "csc", "cot":
			if depends(v.Arg()) {
				return true
			}
		}
		return NeedsPositiveCenter(v.Arg(), variable)
	case *expr.Pow:
		if n, ok := v.ExpExpr().(*expr.Num); ok && (!n.IsInteger() || n.IsNegative()) && depends(v.Base()) {
			return true
		}
		return NeedsPositiveCenter(v.Base(), variable) || NeedsPositiveCenter(v.ExpExpr(), variable)
	case *expr.Add:
		for _, t := range v.Terms() {
			if NeedsPositiveCenter(t, variable) {
				return true
			}
		}
	case *expr.Mul:
		for _, f := range v.Factors() {
			if NeedsPositiveCenter(f, variable) {
				return true
			}
		}
	}
	return false
}
