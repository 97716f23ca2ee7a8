package series

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses the error column of a series.
type Summary struct {
	Points     int     `json:"points"`
	Defined    int     `json:"defined"`
	MaxError   float64 `json:"max_error"`
	MaxErrorAt float64 `json:"max_error_at"`
	MeanError  float64 `json:"mean_error"`
}

// Errors returns the x values and errors of the points that have one.
func (s Series) Errors() (xs, errs []float64) {
	for _, p := range s {
		if p.Error != nil {
			xs = append(xs, p.X)
			errs = append(errs, *p.Error)
		}
	}
	return xs, errs
}

// Summarize computes error statistics. With no defined errors only the
// point counts are set.
func Summarize(s Series) Summary {
	sum := Summary{Points: len(s)}
	xs, errs := s.Errors()
	if len(errs) == 0 {
		return sum
	}
	sum.Defined = len(errs)
	i := floats.MaxIdx(errs)
	sum.MaxError = errs[i]
	sum.MaxErrorAt = xs[i]
	sum.MeanError = stat.Mean(errs, nil)
	return sum
}
