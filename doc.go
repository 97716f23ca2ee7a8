// Package gotaylor computes Taylor polynomial approximations of functions of
// one variable and samples them against the true function for plotting.
//
// Design goals:
//   - Closed-form nth derivatives where they are known, exact symbolic
//     differentiation everywhere else
//   - Deterministic, bit-identical sampling for identical inputs
//   - Undefined values degrade to null points, never to failures
//   - JSON-ready results for charting front ends and tool callers
//
// A minimal use:
//
//	eng := gotaylor.NewEngine()
//	res, err := eng.Compute(gotaylor.Request{Function: "sin(x)", Center: 0, Order: 3})
//
// Function may name a catalog entry ("ln(x)", "sin^3(x)") or be free-form
// notation ("x*exp(-x)").
package gotaylor

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

var fallback = gologadapter.New()

// T traces to the global core tracer, or to the standard logger when none
// is installed.
func T() tracing.Trace {
	if t := gtrace.CoreTracer; t != nil {
		return t
	}
	return fallback
}
