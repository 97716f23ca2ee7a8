package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin))
	cmd.SetOutput(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSampleJSON(t *testing.T) {
	out, err := run(t, "", "sample", "-f", "sin(x)", "-c", "0", "-o", "3", "--format", "json")
	require.NoError(t, err)
	var res gotaylor.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "sin(x)", res.Function)
	assert.Equal(t, 3, res.Order)
	assert.Len(t, res.Series, 1000)
}

func TestSampleTableAndCSV(t *testing.T) {
	out, err := run(t, "", "sample", "cos(x)", "--every", "100")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, ten rows, summary
	require.Len(t, lines, 12)
	assert.Contains(t, lines[len(lines)-1], "cos(x) c=0 n=3")

	out, err = run(t, "", "sample", "-f", "e^x", "--format", "csv", "--every", "500")
	require.NoError(t, err)
	assert.Equal(t, "x,actual,approximation,error", strings.SplitN(out, "\n", 2)[0])
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestSampleErrors(t *testing.T) {
	_, err := run(t, "", "sample", "-f", "sin(")
	assert.ErrorIs(t, err, gotaylor.ErrParse)

	_, err = run(t, "", "sample", "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "", "sample", "--trace", "loud")
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taylor.yaml")
	src := "domain: {min: 0, max: 1, step: 0.25}\ndefaults: {function: 'e^x', order: 2}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	out, err := run(t, "", "--config", path, "sample", "--format", "json")
	require.NoError(t, err)
	var res gotaylor.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "e^x", res.Function)
	assert.Equal(t, 2, res.Order)
	assert.Len(t, res.Series, 4)

	out, err = run(t, "", "--config", path, "sample", "-o", "5", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 5, res.Order)
}

func TestPoly(t *testing.T) {
	out, err := run(t, "", "poly", "-f", "e^x", "--exact")
	require.NoError(t, err)
	assert.Equal(t, "x + 1/2*x^2 + 1/6*x^3 + 1\n", out)

	out, err = run(t, "", "poly", "-f", "sin(x)", "--latex")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestDerivs(t *testing.T) {
	out, err := run(t, "", "derivs", "-f", "sin(x)", "-o", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "cos(x)")
}

func TestPlot(t *testing.T) {
	out, err := run(t, "", "plot", "-f", "sin(x)", "--width", "40", "--height", "9")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// chart rows, legend, summary
	assert.Len(t, lines, 11)
}

func TestFunctions(t *testing.T) {
	out, err := run(t, "", "functions")
	require.NoError(t, err)
	assert.Contains(t, out, "sin^3(x)")
	assert.Contains(t, out, "symbolic")

	out, err = run(t, "", "functions", "--format", "json")
	require.NoError(t, err)
	var fs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &fs))
	assert.NotEmpty(t, fs)
}

func TestWatch(t *testing.T) {
	out, err := run(t, "sin(x) 0 3\n\ncos(x)\nln(x) -1 2\n", "watch", "--delay", "1h")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1, "only the settled pass is printed: %q", out)
	assert.True(t, strings.HasPrefix(lines[0], "3: ln(x) c=0.1 n=2"), lines[0])
}

func TestWatchErrorPass(t *testing.T) {
	out, err := run(t, "sin(\n", "watch", "--delay", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "1: ")
	assert.Contains(t, out, "cannot parse")
}

func TestParseWatchLine(t *testing.T) {
	def := gotaylor.Request{Function: "sin(x)", Center: 0, Order: 3}
	cases := []struct {
		line string
		want gotaylor.Request
	}{
		{"cos(x)", gotaylor.Request{Function: "cos(x)", Order: 3}},
		{"e^x 1.5", gotaylor.Request{Function: "e^x", Center: 1.5, Order: 3}},
		{"x * sin(x) -2 7", gotaylor.Request{Function: "x * sin(x)", Center: -2, Order: 7}},
		{"x 1 2.5", gotaylor.Request{Function: "x 1", Center: 2.5, Order: 3}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, parseWatchLine(c.line, def), c.line)
	}
}
