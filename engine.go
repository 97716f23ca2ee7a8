package gotaylor

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/njchilds90/gotaylor/catalog"
	"github.com/njchilds90/gotaylor/expr"
	"github.com/njchilds90/gotaylor/notation"
	"github.com/njchilds90/gotaylor/series"
)

const (
	// MaxOrderLimit is the highest order a request may ask for.
	MaxOrderLimit = 10
	// MinPositiveCenter replaces non-positive centers of functions that
	// require a positive one.
	MinPositiveCenter = 0.1
)

var (
	// ErrParse wraps notation errors for unresolvable function text.
	ErrParse = errors.New("gotaylor: cannot parse function")
	// ErrEmptyFunction is returned for a blank function selector.
	ErrEmptyFunction = errors.New("gotaylor: no function given")
	// ErrInternal wraps a panic recovered inside Compute.
	ErrInternal = errors.New("gotaylor: internal error")
)

// Request selects a function, a center and an order.
type Request struct {
	Function string  `json:"function" yaml:"function"`
	Center   float64 `json:"center" yaml:"center"`
	Order    int     `json:"order" yaml:"order"`
}

// Result is the outcome of one compute pass. Center and Order are the
// values actually used.
type Result struct {
	Function       string         `json:"function"`
	Kind           string         `json:"kind,omitempty"`
	Center         float64        `json:"center"`
	Order          int            `json:"order"`
	CenterAdjusted bool           `json:"center_adjusted"`
	OrderClamped   bool           `json:"order_clamped"`
	Series         series.Series  `json:"series"`
	Summary        series.Summary `json:"summary"`

	Descriptor *catalog.Descriptor `json:"-"`
	Sequence   series.Sequence     `json:"-"`
}

// Engine runs compute passes. It holds no per-pass state and is safe for
// concurrent use.
type Engine struct {
	registry *catalog.Registry
	options  series.Options
	variable string
}

type Option func(*Engine)

// WithRegistry resolves functions in r instead of the default registry.
func WithRegistry(r *catalog.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithOptions sets the sampling domain and bound.
func WithOptions(o series.Options) Option {
	return func(e *Engine) { e.options = o }
}

// WithVariable sets the variable free-form notation is parsed in.
func WithVariable(v string) Option {
	return func(e *Engine) { e.variable = v }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: catalog.Default(),
		options:  series.DefaultOptions,
		variable: "x",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Registry() *catalog.Registry { return e.registry }
func (e *Engine) Options() series.Options     { return e.options }
func (e *Engine) Variable() string            { return e.variable }

// Resolve maps a function selector to a descriptor.
func (e *Engine) Resolve(function string) (*catalog.Descriptor, error) {
	if strings.TrimSpace(function) == "" {
		return nil, ErrEmptyFunction
	}
	var (
		d   *catalog.Descriptor
		err error
	)
	if e.variable == "x" {
		d, err = e.registry.FromNotation(function)
	} else if reg, ok := e.registry.Lookup(function); ok {
		d = reg
	} else {
		var src expr.Expr
		if src, err = notation.ParseIn(function, e.variable); err == nil {
			d, err = catalog.NewSymbolic(strings.TrimSpace(function), src, e.variable)
		}
	}
	if err != nil {
		if errors.Is(err, notation.ErrSyntax) {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil, err
	}
	return d, nil
}

// normalize clamps the center into the domain and the order into
// [0, MaxOrderLimit], and moves non-positive centers of d up to
// MinPositiveCenter.
func (e *Engine) normalize(req Request, d *catalog.Descriptor) (float64, int, bool) {
	c := req.Center
	if math.IsNaN(c) {
		c = 0
	}
	c = e.options.Domain.Clamp(c)
	adjusted := c != req.Center
	if d.RequiresPositiveCenter && c <= 0 {
		c = MinPositiveCenter
		adjusted = true
	}
	o := req.Order
	if o < 0 {
		o = 0
	}
	if o > MaxOrderLimit {
		o = MaxOrderLimit
	}
	return c, o, adjusted
}

// Compute resolves, normalizes, builds and samples one request. Failures
// yield a result with an empty series together with the error.
func (e *Engine) Compute(req Request) (res Result, err error) {
	res = Result{Function: req.Function, Center: req.Center, Order: req.Order, Series: series.Series{}}
	defer func() {
		if r := recover(); r != nil {
			T().Errorf("gotaylor: compute %q panicked: %v", req.Function, r)
			res.Series = series.Series{}
			res.Summary = series.Summary{}
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	d, err := e.Resolve(req.Function)
	if err != nil {
		T().Errorf("gotaylor: %v", err)
		return res, err
	}
	res.Function = d.Name
	res.Kind = d.Kind().String()
	res.Descriptor = d

	c, o, adjusted := e.normalize(req, d)
	if adjusted {
		T().Infof("gotaylor: %s center %v adjusted to %v", d.Name, req.Center, c)
	}
	seq, err := series.Build(d, o)
	if err != nil {
		T().Errorf("gotaylor: %v", err)
		return res, err
	}
	clamped := o != req.Order
	if seq.Order() < o {
		o = seq.Order()
		clamped = true
	}
	if clamped {
		T().Infof("gotaylor: %s order %d clamped to %d", d.Name, req.Order, o)
	}
	res.Center, res.Order = c, o
	res.CenterAdjusted, res.OrderClamped = adjusted, clamped
	res.Sequence = seq

	res.Series = series.Sample(seq[0], series.Taylor(seq, c, o), e.options)
	res.Summary = series.Summarize(res.Series)
	T().Debugf("gotaylor: %s c=%v o=%d: %d points, max error %v",
		d.Name, c, o, len(res.Series), res.Summary.MaxError)
	return res, nil
}

// Polynomial returns the Taylor polynomial of a request. With exact set the
// coefficients are derived symbolically from the source expression;
// otherwise they are the float64 values the sampler uses.
func (e *Engine) Polynomial(req Request, exact bool) (expr.Expr, Result, error) {
	d, err := e.Resolve(req.Function)
	if err != nil {
		return nil, Result{Function: req.Function}, err
	}
	c, o, adjusted := e.normalize(req, d)
	res := Result{
		Function: d.Name, Kind: d.Kind().String(), Center: c, Order: o,
		CenterAdjusted: adjusted, OrderClamped: o != req.Order, Descriptor: d,
	}
	if exact {
		return expr.TaylorSeries(d.Source, d.Variable, shortRat(c), o), res, nil
	}
	seq, err := series.Build(d, o)
	if err != nil {
		return nil, res, err
	}
	res.Sequence = seq
	if seq.Order() < o {
		res.Order, res.OrderClamped = seq.Order(), true
	}
	p, err := series.Polynomial(seq, c, res.Order, d.Variable)
	return p, res, err
}

// shortRat converts c to the rational with the shortest decimal form that
// rounds to c, so 0.1 becomes 1/10 rather than its binary expansion.
func shortRat(c float64) *expr.Num {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(c, 'g', -1, 64))
	if !ok {
		return expr.NFloat(c)
	}
	return expr.NRat(r)
}

// Derivative is one entry of a derivative listing.
type Derivative struct {
	Order      int      `json:"order"`
	Expression string   `json:"expression"`
	LaTeX      string   `json:"latex"`
	AtCenter   *float64 `json:"at_center"`
}

// Derivatives lists the derivative expressions of a request's function up
// to its order, together with their values at the normalized center.
func (e *Engine) Derivatives(req Request) ([]Derivative, Result, error) {
	d, err := e.Resolve(req.Function)
	if err != nil {
		return nil, Result{Function: req.Function}, err
	}
	c, o, adjusted := e.normalize(req, d)
	res := Result{
		Function: d.Name, Kind: d.Kind().String(), Center: c, Order: o,
		CenterAdjusted: adjusted, OrderClamped: o != req.Order, Descriptor: d,
	}
	trees, err := d.Expressions(o)
	if err != nil {
		return nil, res, err
	}
	out := make([]Derivative, len(trees))
	for n, t := range trees {
		out[n] = Derivative{Order: n, Expression: t.String(), LaTeX: t.LaTeX()}
		if v, err := d.At(n, c); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[n].AtCenter = &v
		}
	}
	return out, res, nil
}
