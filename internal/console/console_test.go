package console

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/series"
	"github.com/njchilds90/gotaylor/tool"
)

func fp(v float64) *float64 { return &v }

func sample() series.Series {
	return series.Series{
		{X: -1, Label: "-1.00", Actual: fp(-1.5), Approximation: fp(-0.5), Error: fp(1)},
		{X: 0, Label: "0.00", Actual: fp(0), Approximation: fp(0), Error: fp(0)},
		{X: 1, Label: "1.00", Actual: nil, Approximation: fp(1)},
	}
}

func plain(buf *bytes.Buffer) *Printer {
	return &Printer{W: buf, Width: 21, Height: 5}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).Table(sample(), 0))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "x"))
	assert.Contains(t, lines[0], "approximation")
	fields := strings.Fields(lines[3])
	assert.Equal(t, []string{"1.00", "-", "1", "-"}, fields)
	assert.Equal(t, strings.Index(lines[0], "actual"), strings.Index(lines[1], "-1.5"))
}

func TestTablePaintsCells(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	var buf bytes.Buffer
	p := plain(&buf)
	p.Palette = DefaultPalette()
	require.NoError(t, p.Table(sample(), 0))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestEvery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).CSV(sample(), 2))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"x", "actual", "approximation", "error"}, recs[0])
	assert.Equal(t, []string{"-1.00", "-1.5", "-0.5", "1"}, recs[1])
	assert.Equal(t, []string{"1.00", "", "1", ""}, recs[2])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).JSON(sample()))
	var back []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 3)
	assert.Equal(t, "1.00", back[2]["x"])
	assert.Nil(t, back[2]["actual"])
}

func TestPlot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).Plot(sample(), 2))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	// y=0 is the middle row; actual and approximation meet at the origin.
	assert.Equal(t, "----------#----------", lines[2])
	assert.Contains(t, lines[len(lines)-1], "x in [-1.00, 1.00]")
	assert.Contains(t, buf.String(), "*")
	assert.Contains(t, buf.String(), "o")
}

func TestPlotEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).Plot(nil, 5))
	assert.Equal(t, "(no points)\n", buf.String())
}

func TestSummaryAndListings(t *testing.T) {
	var buf bytes.Buffer
	p := plain(&buf)
	res, err := gotaylor.NewEngine().Compute(gotaylor.Request{Function: "ln(x)", Center: -2, Order: 2})
	require.NoError(t, err)
	p.Summary(res)
	assert.Contains(t, buf.String(), "ln(x) c=0.1 n=2")
	assert.Contains(t, buf.String(), "center-adjusted")

	buf.Reset()
	ds, _, err := gotaylor.NewEngine().Derivatives(gotaylor.Request{Function: "e^x", Order: 1})
	require.NoError(t, err)
	require.NoError(t, p.Derivatives(ds, false))
	assert.Contains(t, buf.String(), "at center")
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 3)

	buf.Reset()
	require.NoError(t, p.Functions(tool.Functions(gotaylor.NewEngine())))
	assert.Contains(t, buf.String(), "exp(x)")
}
