/*
Package catalog holds the function descriptors the approximation engine
knows about.

A Descriptor is either closed-form, carrying an exact formula for its nth
derivative, or symbolic, in which case derivatives are obtained by repeated
differentiation of its source expression. Both kinds share an expr.Chain
so derivative expressions can be displayed or cross-checked.

The default registry contains

	sin(x)  cos(x)  e^x  ln(x)  1/x  sin^3(x)  sqrt(x)  cbrt(x)

as closed forms and tan(x), csc(x), sec(x) as symbolic presets. Arbitrary
notation is accepted through Registry.FromNotation.
*/
package catalog

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

var fallback = gologadapter.New()

// tracer writes to the global core tracer.
func tracer() tracing.Trace {
	if t := gtrace.CoreTracer; t != nil {
		return t
	}
	return fallback
}

// Error is the error type of the catalog package.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrUnknownFunction is returned by lookups for names not in a registry.
const ErrUnknownFunction = Error("catalog: unknown function")

// ErrDuplicate is returned when registering a name or alias twice.
const ErrDuplicate = Error("catalog: duplicate function")

// ErrNegativeOrder flags a negative derivative order.
const ErrNegativeOrder = Error("catalog: negative derivative order")
