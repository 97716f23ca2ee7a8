package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor"
)

func newServer(t *testing.T) *httptest.Server {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	t.Cleanup(teardown)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)

	srv := httptest.NewServer(newHandler(gotaylor.NewEngine(), gotaylor.Request{Function: "sin(x)", Order: 3}))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestSeries(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/series?function=cos(x)&center=1&order=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Function string `json:"function"`
		Center   float64
		Order    int
		Series   []struct {
			X      string   `json:"x"`
			Actual *float64 `json:"actual"`
		} `json:"series"`
	}
	decode(t, resp, &res)
	assert.Equal(t, "cos(x)", res.Function)
	assert.Equal(t, 1.0, res.Center)
	assert.Equal(t, 2, res.Order)
	require.Len(t, res.Series, 1000)
	assert.Equal(t, "-5.00", res.Series[0].X)
}

func TestSeriesDefaultsAndErrors(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/series")
	require.NoError(t, err)
	var res gotaylor.Result
	decode(t, resp, &res)
	assert.Equal(t, "sin(x)", res.Function)
	assert.Equal(t, 3, res.Order)

	resp, err = http.Get(srv.URL + "/series?order=two")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/series?function=sin(")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var bad map[string]interface{}
	decode(t, resp, &bad)
	assert.Contains(t, bad["error"], "cannot parse")
	assert.Equal(t, []interface{}{}, bad["series"])

	resp, err = http.Post(srv.URL+"/series", "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestToolEndpoint(t *testing.T) {
	srv := newServer(t)
	body := `{"tool":"polynomial","params":{"function":"e^x","order":3,"exact":true}}`
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]interface{}
	decode(t, resp, &out)
	assert.Equal(t, "x + 1/2*x^2 + 1/6*x^3 + 1", out["string"])

	for _, bad := range []string{`{"tool":"sample","extra":1}`, `{"tool":"x"} {}`, `not json`} {
		resp, err = http.Post(srv.URL+"/tool", "application/json", strings.NewReader(bad))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
		resp.Body.Close()
	}

	big := `{"tool":"parse","params":{"text":"` + strings.Repeat("x", maxBodyBytes) + `"}}`
	resp, err = http.Post(srv.URL+"/tool", "application/json", strings.NewReader(big))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/tool")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestFunctionsSchemaHealth(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/functions")
	require.NoError(t, err)
	var fs []map[string]interface{}
	decode(t, resp, &fs)
	require.NotEmpty(t, fs)
	assert.Equal(t, "sin(x)", fs[0]["name"])

	resp, err = http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	var spec map[string]interface{}
	decode(t, resp, &spec)
	assert.NotEmpty(t, spec["tools"])

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health map[string]interface{}
	decode(t, resp, &health)
	assert.Equal(t, "ok", health["status"])
}

func TestRecovered(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := recovered("boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
