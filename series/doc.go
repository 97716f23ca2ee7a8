/*
Package series turns function descriptors into Taylor approximations and
samples them for plotting.

The pipeline is

	Build(descriptor, maxOrder)  → Sequence  [f, f', …, f⁽ⁿ⁾]
	Taylor(seq, c, o)            → x ↦ Σ f⁽ⁿ⁾(c)/n! · (x−c)ⁿ
	Sample(f, taylor, options)   → Series of Points on a fixed grid

Every stage is a pure function of its inputs. Undefined values never
escape as failures: poles and domain errors surface as null fields in the
sampled points, and a point whose evaluation panics is dropped.
*/
package series

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
