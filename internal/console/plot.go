package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/njchilds90/gotaylor/series"
)

const (
	markActual = '*'
	markApprox = 'o'
	markBoth   = '#'
)

type plotCell struct {
	r    rune
	role Role
}

// Plot draws the actual and approximation columns of s on a character grid
// of p.Width by p.Height, with y running over [-bound, bound].
func (p *Printer) Plot(s series.Series, bound float64) error {
	if len(s) == 0 {
		_, err := fmt.Fprintln(p.W, "(no points)")
		return err
	}
	w, h := p.Width, p.Height
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	if bound <= 0 || math.IsNaN(bound) || math.IsInf(bound, 0) {
		bound = 5
	}
	xmin, xmax := s[0].X, s[len(s)-1].X
	if xmax <= xmin {
		xmax = xmin + 1
	}
	col := func(x float64) int {
		return int(math.Round((x - xmin) / (xmax - xmin) * float64(w-1)))
	}
	row := func(y float64) (int, bool) {
		r := int(math.Round((bound - y) / (2 * bound) * float64(h-1)))
		return r, r >= 0 && r < h
	}

	grid := make([][]plotCell, h)
	for i := range grid {
		grid[i] = make([]plotCell, w)
		for j := range grid[i] {
			grid[i][j] = plotCell{r: ' '}
		}
	}
	if r, ok := row(0); ok {
		for j := range grid[r] {
			grid[r][j] = plotCell{r: '-', role: Axis}
		}
	}
	if xmin <= 0 && xmax >= 0 {
		c := col(0)
		for i := range grid {
			mark := '|'
			if grid[i][c].r == '-' {
				mark = '+'
			}
			grid[i][c] = plotCell{r: mark, role: Axis}
		}
	}

	put := func(j int, v *float64, mark rune, role Role) {
		if v == nil {
			return
		}
		i, ok := row(*v)
		if !ok {
			return
		}
		c := &grid[i][j]
		switch {
		case c.r == markActual && mark == markApprox, c.r == markApprox && mark == markActual:
			*c = plotCell{r: markBoth, role: Error}
		case c.r != markBoth:
			*c = plotCell{r: mark, role: role}
		}
	}
	for _, pt := range s {
		j := col(pt.X)
		put(j, pt.Actual, markActual, Actual)
		put(j, pt.Approximation, markApprox, Approximation)
	}

	var b strings.Builder
	for _, line := range grid {
		b.Reset()
		for _, c := range line {
			if c.r == ' ' {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(p.paint(c.role, string(c.r)))
		}
		if _, err := fmt.Fprintln(p.W, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.W, "%s actual  %s approximation  %s both   x in [%s, %s], y in [%v, %v]\n",
		p.paint(Actual, string(markActual)), p.paint(Approximation, string(markApprox)),
		p.paint(Error, string(markBoth)), series.Label(xmin), series.Label(xmax), -bound, bound)
	return err
}
