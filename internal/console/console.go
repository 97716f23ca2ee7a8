// Package console renders sample series, derivative listings and function
// tables for terminals.
package console

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"golang.org/x/term"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/series"
	"github.com/njchilds90/gotaylor/tool"
)

var fallback = gologadapter.New()

func tracer() tracing.Trace {
	if t := gtrace.CoreTracer; t != nil {
		return t
	}
	return fallback
}

// Role selects a color of the palette.
type Role int

const (
	Header Role = iota
	Actual
	Approximation
	Error
	Missing
	Axis
)

// Palette maps roles to colors. Roles without an entry print plain.
type Palette map[Role]*color.Color

// DefaultPalette is used when a Printer has none.
func DefaultPalette() Palette {
	return Palette{
		Header:        color.New(color.Bold),
		Actual:        color.New(color.FgBlue),
		Approximation: color.New(color.FgRed),
		Error:         color.New(color.FgYellow),
		Missing:       color.New(color.FgHiBlack),
		Axis:          color.New(color.FgHiBlack),
	}
}

// Printer writes to W. Width and Height size the chart.
type Printer struct {
	W       io.Writer
	Palette Palette
	Width   int
	Height  int
}

// NewPrinter sizes the chart from the terminal when stdout is one.
func NewPrinter(w io.Writer) *Printer {
	width, height := SizeFromTerminal()
	return &Printer{W: w, Palette: DefaultPalette(), Width: width, Height: height}
}

// SizeFromTerminal reads the size of stdout, falling back to 72x20.
func SizeFromTerminal() (int, int) {
	width, height := 72, 20
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			if w > 30 {
				width = w - 2
			}
			if h > 10 {
				height = h - 4
			}
		}
	}
	tracer().Debugf("console: chart size %dx%d", width, height)
	return width, height
}

func (p *Printer) paint(r Role, s string) string {
	if c, ok := p.Palette[r]; ok && c != nil {
		return c.Sprint(s)
	}
	return s
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', 8, 64)
}

// every keeps each n-th point; n < 1 keeps all.
func every(s series.Series, n int) series.Series {
	if n <= 1 {
		return s
	}
	out := make(series.Series, 0, len(s)/n+1)
	for i := 0; i < len(s); i += n {
		out = append(out, s[i])
	}
	return out
}

// ColumnWidth is the width of a Table column.
const ColumnWidth = 16

// Table prints every n-th point of s in aligned columns. Cells are padded
// before they are painted so color codes do not shift the columns.
func (p *Printer) Table(s series.Series, n int) error {
	pad := func(r Role, text string) string {
		return p.paint(r, fmt.Sprintf("%-*s", ColumnWidth, text))
	}
	col := func(r Role, v *float64) string {
		if v == nil {
			return pad(Missing, cell(v))
		}
		return pad(r, cell(v))
	}
	header := pad(Header, "x") + pad(Header, "actual") + pad(Header, "approximation") + p.paint(Header, "error")
	if _, err := fmt.Fprintln(p.W, header); err != nil {
		return err
	}
	for _, pt := range every(s, n) {
		line := pad(Axis, pt.Label) + col(Actual, pt.Actual) + col(Approximation, pt.Approximation)
		if pt.Error == nil {
			line += p.paint(Missing, cell(nil))
		} else {
			line += p.paint(Error, cell(pt.Error))
		}
		if _, err := fmt.Fprintln(p.W, line); err != nil {
			return err
		}
	}
	return nil
}

// CSV writes every n-th point of s with a header row. Missing values are
// empty cells.
func (p *Printer) CSV(s series.Series, n int) error {
	w := csv.NewWriter(p.W)
	if err := w.Write([]string{"x", "actual", "approximation", "error"}); err != nil {
		return err
	}
	blank := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}
	for _, pt := range every(s, n) {
		rec := []string{pt.Label, blank(pt.Actual), blank(pt.Approximation), blank(pt.Error)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// JSON writes v indented.
func (p *Printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.W)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Summary prints a one-line account of a compute pass.
func (p *Printer) Summary(res gotaylor.Result) {
	flags := ""
	if res.CenterAdjusted {
		flags += " center-adjusted"
	}
	if res.OrderClamped {
		flags += " order-clamped"
	}
	fmt.Fprintf(p.W, "%s c=%v n=%d: %d/%d defined, max error %s at %s, mean %s%s\n",
		p.paint(Header, res.Function), res.Center, res.Order,
		res.Summary.Defined, res.Summary.Points,
		p.paint(Error, strconv.FormatFloat(res.Summary.MaxError, 'g', 6, 64)),
		series.Label(res.Summary.MaxErrorAt),
		strconv.FormatFloat(res.Summary.MeanError, 'g', 6, 64), flags)
}

// Derivatives lists derivative expressions with their values at the center.
func (p *Printer) Derivatives(ds []gotaylor.Derivative, latex bool) error {
	tw := tabwriter.NewWriter(p.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "n\tat center\texpression")
	for _, d := range ds {
		e := d.Expression
		if latex {
			e = d.LaTeX
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", d.Order, cell(d.AtCenter), e)
	}
	return tw.Flush()
}

// Functions lists registry entries.
func (p *Printer) Functions(fs []tool.FunctionInfo) error {
	tw := tabwriter.NewWriter(p.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tkind\tpositive center\tmax order\taliases")
	for _, f := range fs {
		pos := "no"
		if f.RequiresPositiveCenter {
			pos = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", f.Name, f.Kind, pos, f.MaxOrder, strings.Join(f.Aliases, ", "))
	}
	return tw.Flush()
}
