package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/njchilds90/gotaylor/expr"
	"github.com/njchilds90/gotaylor/notation"
)

// adhocLimit bounds the number of parsed descriptors a registry remembers.
const adhocLimit = 64

// Registry maps normalized function names and aliases to descriptors.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]*Descriptor
	order []*Descriptor
	adhoc map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]*Descriptor),
		adhoc: make(map[string]*Descriptor),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-in descriptors.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, d := range Builtins() {
			if err := defaultRegistry.Register(d); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}

// Normalize strips whitespace and lower-cases a function name.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// Register adds d under its name and aliases.
func (r *Registry) Register(d *Descriptor) error {
	keys := append([]string{d.Name}, d.Aliases...)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		if _, exists := r.byKey[Normalize(k)]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicate, k)
		}
	}
	for _, k := range keys {
		r.byKey[Normalize(k)] = d
	}
	r.order = append(r.order, d)
	tracer().Debugf("catalog: registered %s", d)
	return nil
}

// Lookup finds a descriptor by name or alias, ignoring whitespace and case.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[Normalize(name)]
	return d, ok
}

// Names lists the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, d := range r.order {
		names[i] = d.Name
	}
	return names
}

// Descriptors lists the registered descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Descriptor(nil), r.order...)
}

// FromNotation resolves src to a descriptor. Registered names win; otherwise
// src is parsed as a function of x. A parsed expression equal to a
// registered source resolves to that entry, and x^k becomes a closed-form
// power. Anything else gets a symbolic descriptor, remembered for reuse.
func (r *Registry) FromNotation(src string) (*Descriptor, error) {
	if d, ok := r.Lookup(src); ok {
		return d, nil
	}
	key := adhocKey(src)
	r.mu.RLock()
	d, ok := r.adhoc[key]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}
	e, err := notation.ParseIn(src, "x")
	if err != nil {
		return nil, err
	}
	for _, reg := range r.Descriptors() {
		if reg.Variable == "x" && reg.Source.Equal(e) {
			return reg, nil
		}
	}
	d, err = r.descriptorFor(strings.TrimSpace(src), e)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if len(r.adhoc) >= adhocLimit {
		r.adhoc = make(map[string]*Descriptor)
	}
	r.adhoc[key] = d
	r.mu.Unlock()
	tracer().Debugf("catalog: %q resolved as %s", src, d)
	return d, nil
}

// adhocKey is the token sequence of src, so spacing that does not separate
// tokens is ignored while case and token boundaries are kept. It is empty
// when src does not lex.
func adhocKey(src string) string {
	toks, err := notation.Lex(src)
	if err != nil {
		return ""
	}
	lits := make([]string, len(toks))
	for i, t := range toks {
		lits[i] = t.Lit
	}
	return strings.Join(lits, " ")
}

func (r *Registry) descriptorFor(name string, e expr.Expr) (*Descriptor, error) {
	if p, ok := e.(*expr.Pow); ok {
		base, isSym := p.Base().(*expr.Sym)
		k, isNum := p.ExpExpr().(*expr.Num)
		if isSym && isNum && base.Name() == "x" {
			q := k.Rat()
			if q.Num().IsInt64() && q.Denom().IsInt64() {
				d, err := Power(q.Num().Int64(), q.Denom().Int64())
				if err != nil {
					return nil, err
				}
				d.Name = name
				return d, nil
			}
		}
	}
	return NewSymbolic(name, e, "x")
}

// DerivativeAt evaluates the nth derivative of the named function at x
// using the default registry.
func DerivativeAt(name string, n int, x float64) (float64, error) {
	d, ok := Default().Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return d.At(n, x)
}
